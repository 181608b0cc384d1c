package graph

import (
	"context"
	"log/slog"

	"github.com/simp-lee/shopgraph/internal/domain"
)

// Error is a resolver error as the client sees it: the public message and
// an extensions.code taken from the domain error code.
type Error struct {
	err error
}

func (e *Error) Error() string { return domain.PublicMessage(e.err) }

func (e *Error) Unwrap() error { return e.err }

// Extensions is read by graphql-go to fill the error's extensions object.
func (e *Error) Extensions() map[string]any {
	return map[string]any{"code": domain.ExtensionCode(e.err)}
}

// convert turns a handler error into a GraphQL error. Internal errors are
// logged with their cause since clients only see a generic message.
func (r *Resolver) convert(ctx context.Context, field string, err error) error {
	if err == nil {
		return nil
	}
	if domain.ExtensionCode(err) == domain.ExtInternalError {
		r.log.ErrorContext(ctx, "graphql resolver failed", "field", field, "error", err)
	} else {
		r.log.DebugContext(ctx, "graphql resolver rejected request", "field", field, "error", err)
	}
	return &Error{err: err}
}

// panicLogger implements graphql-go's log.Logger on slog.
type panicLogger struct {
	log *slog.Logger
}

func (l panicLogger) LogPanic(ctx context.Context, value any) {
	l.log.ErrorContext(ctx, "graphql resolver panic", "panic", value)
}
