package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tunebase/internal/server"
	"github.com/desertthunder/tunebase/internal/shared"
)

// Serve runs the HTTP API until the process is interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if host := cmd.String("host"); host != "" {
		r.config.Server.Host = host
	}
	if port := cmd.Int("port"); port > 0 {
		r.config.Server.Port = int(port)
	}
	if err := r.config.Validate(); err != nil {
		return err
	}
	if r.config.Auth.Secret == shared.DefaultConfig().Auth.Secret {
		r.logger.Warn("auth secret is the default; set [auth] secret or TUNEBASE_AUTH_SECRET")
	}

	svc, _, err := r.operator(ctx)
	if err != nil {
		return err
	}

	return server.New(svc, r.config.Server, r.logger).ListenAndServe(ctx)
}
