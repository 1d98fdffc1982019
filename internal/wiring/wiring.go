// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/swiftplan/internal/adapters/cas"
	_ "go.trai.ch/swiftplan/internal/adapters/config"
	_ "go.trai.ch/swiftplan/internal/adapters/fs"
	_ "go.trai.ch/swiftplan/internal/adapters/linear"
	_ "go.trai.ch/swiftplan/internal/adapters/logger"
	_ "go.trai.ch/swiftplan/internal/adapters/options"
	_ "go.trai.ch/swiftplan/internal/adapters/shell"
	_ "go.trai.ch/swiftplan/internal/adapters/toolchain"
	// Register app nodes.
	_ "go.trai.ch/swiftplan/internal/app"
)
