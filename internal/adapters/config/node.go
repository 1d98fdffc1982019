package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/swiftplan/internal/adapters/fs"
	"go.trai.ch/swiftplan/internal/adapters/logger"
	"go.trai.ch/swiftplan/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the configuration loader Graft node.
	NodeID graft.ID = "adapter.config_loader"
	// PlanInputNodeID is the unique identifier for the plan input loader Graft node.
	PlanInputNodeID graft.ID = "adapter.plan_input_loader"
)

func init() {
	graft.Register(graft.Node[ports.ConfigLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, fs.NodeID},
		Run: func(ctx context.Context) (ports.ConfigLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			fsys, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log, fsys), nil
		},
	})

	graft.Register(graft.Node[ports.PlanInputLoader]{
		ID:        PlanInputNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, fs.NodeID},
		Run: func(ctx context.Context) (ports.PlanInputLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			fsys, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log, fsys), nil
		},
	})
}

