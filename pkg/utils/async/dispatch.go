// Package async runs work detached from the request that triggered it.
package async

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultTimeout bounds every dispatched handler.
const DefaultTimeout = 5 * time.Minute

// Dispatch runs handler in a new goroutine with DefaultTimeout.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	DispatchWithTimeout(ctx, DefaultTimeout, handler)
}

// DispatchWithTimeout runs handler in a new goroutine. The handler context
// keeps the logger of ctx but not its cancellation. Returned errors and
// panics are logged and sent to Sentry when it is configured.
func DispatchWithTimeout(ctx context.Context, timeout time.Duration, handler func(ctx context.Context) error) {
	newCtx, cancel := context.WithTimeout(detach(ctx), timeout)

	go func() {
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				ctxlog.From(newCtx).Error("panic in async handler",
					"recover", r,
					"stack", string(stack))
				report(goerr.New("panic in async handler", goerr.V("recover", fmt.Sprint(r))))
			}
		}()

		if err := handler(newCtx); err != nil {
			ctxlog.From(newCtx).Error("error in async handler", "error", err)
			report(err)
		}
	}()
}

func detach(ctx context.Context) context.Context {
	return ctxlog.With(context.Background(), ctxlog.From(ctx))
}

func report(err error) {
	if hub := sentry.CurrentHub(); hub.Client() != nil {
		hub.CaptureException(err)
	}
}
