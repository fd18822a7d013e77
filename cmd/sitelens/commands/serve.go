// serve.go — The serve command: run the HTTP service until interrupted.
package commands

import (
	"context"
	"log/slog"

	"github.com/sitelens/sitelens/internal/server"
)

// Serve handles: sitelens serve [--addr host:port]. The address flag is
// applied through the config cascade before this runs.
func Serve(ctx context.Context, env Env, args []string) error {
	if len(args) > 0 {
		return usagef("unexpected arguments: %v", args)
	}

	level := slog.LevelInfo
	if env.Config.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(env.Stdout, &slog.HandlerOptions{Level: level})).With("service", "sitelens")

	s := server.New(logger, server.Options{
		Sort:           env.Config.SortKey(),
		PageSize:       env.Config.PageSize,
		MarginMm:       env.Config.MarginMm,
		SurfaceWidthPx: env.Config.SurfaceWidthPx,
	})
	return s.ListenAndServe(ctx, env.Config.ListenAddr)
}
