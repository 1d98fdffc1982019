package linear

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/swiftplan/internal/adapters/detector"
	"go.trai.ch/swiftplan/internal/core/ports"
)

// NodeID is the unique identifier for the renderer Graft node.
const NodeID graft.ID = "adapter.renderer"

func init() {
	graft.Register(graft.Node[ports.Renderer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Renderer, error) {
			env := detector.Detect(os.Stderr, os.Getenv)
			return NewRendererWithProfile(os.Stderr, env.ColorProfile()), nil
		},
	})
}
