package auth

import (
	"context"

	"github.com/gravity-wh/prompt-flow/internal/models"
)

type callerKey struct{}

// WithCaller returns a copy of ctx carrying the resolved caller.
func WithCaller(ctx context.Context, c *models.Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// CallerFrom returns the caller resolved for this request, or nil when the
// request is anonymous.
func CallerFrom(ctx context.Context) *models.Caller {
	c, _ := ctx.Value(callerKey{}).(*models.Caller)
	return c
}
