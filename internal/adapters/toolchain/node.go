package toolchain

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/swiftplan/internal/adapters/config"
	"go.trai.ch/swiftplan/internal/adapters/logger"
	"go.trai.ch/swiftplan/internal/core/ports"
	"go.trai.ch/zerr"
)

// NodeID is the unique identifier for the tool locator Graft node.
const NodeID graft.ID = "adapter.tool_locator"

func init() {
	graft.Register(graft.Node[ports.ToolLocator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, config.NodeID},
		Run: func(ctx context.Context) (ports.ToolLocator, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
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
			return NewLocator(log, cfg.ToolchainDir), nil
		},
	})
}
