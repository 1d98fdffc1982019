package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/swiftplan/internal/adapters/cas"       //nolint:depguard // Wired in app layer
	"go.trai.ch/swiftplan/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/swiftplan/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/swiftplan/internal/adapters/linear"    //nolint:depguard // Wired in app layer
	"go.trai.ch/swiftplan/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/swiftplan/internal/adapters/options"   //nolint:depguard // Wired in app layer
	"go.trai.ch/swiftplan/internal/adapters/shell"     //nolint:depguard // Wired in app layer
	"go.trai.ch/swiftplan/internal/adapters/toolchain" //nolint:depguard // Wired in app layer
	"go.trai.ch/swiftplan/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			config.PlanInputNodeID,
			options.NodeID,
			toolchain.NodeID,
			shell.NodeID,
			cas.NodeID,
			fs.NodeID,
			fs.HasherNodeID,
			logger.NodeID,
			linear.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewComponents(app, log), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	planInputs, err := graft.Dep[ports.PlanInputLoader](ctx)
	if err != nil {
		return nil, err
	}

	parser, err := graft.Dep[ports.OptionsParser](ctx)
	if err != nil {
		return nil, err
	}

	locator, err := graft.Dep[ports.ToolLocator](ctx)
	if err != nil {
		return nil, err
	}

	executor, err := graft.Dep[ports.Executor](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.CacheKeyStore](ctx)
	if err != nil {
		return nil, err
	}

	fileSystem, err := graft.Dep[ports.FileSystem](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	renderer, err := graft.Dep[ports.Renderer](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, planInputs, parser, locator, executor, store, fileSystem, hasher, log, renderer), nil
}
