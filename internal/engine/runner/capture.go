package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/core/ports"
	"go.trai.ch/swiftplan/internal/engine/commandline"
	"go.trai.ch/zerr"
)

// CaptureJSON runs job outside of any plan and decodes its standard output
// as a T. The standard error of a failed job is attached as "stderr".
func CaptureJSON[T any](
	ctx context.Context,
	executor ports.Executor,
	resolver *commandline.Resolver,
	job *domain.Job,
	env map[string]string,
) (*T, error) {
	inv, err := resolver.ResolveJob(job, env)
	if err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer
	if err := executor.Execute(ctx, inv, &stdout, &stderr); err != nil {
		return nil, zerr.With(zerr.With(err, "job", job.Kind.String()), "stderr", strings.TrimSpace(stderr.String()))
	}

	var v T
	if err := json.Unmarshal(stdout.Bytes(), &v); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to decode job output"), "job", job.Kind.String())
	}
	return &v, nil
}
