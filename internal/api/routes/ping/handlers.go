// Package ping contains the health check handler.
package ping

import (
	"log/slog"
	"net/http"

	"github.com/rgood/tastebook/internal/env"
)

// Ping handles GET /api/ping.
func Ping(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte("pong")); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}
