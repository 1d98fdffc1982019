package cas

import (
	"context"
	"os"
	"path/filepath"

	"github.com/grindlemire/graft"
	"go.trai.ch/swiftplan/internal/adapters/config"
	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/core/ports"
	"go.trai.ch/zerr"
)

// NodeID is the unique identifier for the cache key store Graft node.
const NodeID graft.ID = "adapter.cache_store"

func init() {
	graft.Register(graft.Node[ports.CacheKeyStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.CacheKeyStore, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}
			cwd, err := os.Getwd()
			if err != nil {
				return nil, zerr.Wrap(err, "failed to get working directory")
			}
			cfg, err := loader.Load(cwd)
			if err != nil {
				return nil, err
			}
			return NewStore(StorePath(cfg))
		},
	})
}

// StorePath returns the configured cache directory, or the default store
// below the project root.
func StorePath(cfg *domain.DriverConfig) string {
	if cfg.CacheDirectory != "" {
		return cfg.CacheDirectory
	}
	return filepath.Join(cfg.Root, domain.DefaultStorePath())
}
