// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/swiftplan/internal/core/domain"
)

// Executor defines the interface for running resolved jobs.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the invocation to completion, streaming its output.
	//
	// A non-zero exit is reported as an error carrying "exit_code" metadata.
	Execute(ctx context.Context, inv *domain.Invocation, stdout, stderr io.Writer) error

	// Replace executes the invocation in place of the current process.
	// It only returns when the replacement could not happen.
	Replace(inv *domain.Invocation) error
}
