package options

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/swiftplan/internal/core/ports"
)

// NodeID is the unique identifier for the options parser Graft node.
const NodeID graft.ID = "adapter.options_parser"

func init() {
	graft.Register(graft.Node[ports.OptionsParser]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{},
		Run: func(_ context.Context) (ports.OptionsParser, error) {
			return NewParser(), nil
		},
	})
}
