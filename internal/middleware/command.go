package middleware

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
	"github.com/jwalitptl/clinic-records/pkg/logger"
)

// Command is the body of a shell command.
type Command func(ctx context.Context, args []string) error

// Middleware wraps a named command.
type Middleware func(name string, next Command) Command

// Chain wraps cmd so that mws[0] runs outermost.
func Chain(name string, cmd Command, mws ...Middleware) Command {
	for i := len(mws) - 1; i >= 0; i-- {
		cmd = mws[i](name, cmd)
	}
	return cmd
}

// Recovery turns a panicking command into an internal error so one bad
// command does not end the shell.
func Recovery(log *logger.Logger) Middleware {
	return func(name string, next Command) Command {
		return func(ctx context.Context, args []string) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error(fmt.Errorf("%v", r), "Command panic recovered",
						"command", name,
						"stack", string(debug.Stack()),
					)
					err = apperrors.Internal(fmt.Errorf("command %s panicked: %v", name, r))
				}
			}()
			return next(ctx, args)
		}
	}
}

// Logger logs every command with its latency. Refusals caused by the user
// (bad input, missing permission) log at warn, anything else that fails at
// error.
func Logger(log *logger.Logger) Middleware {
	return func(name string, next Command) Command {
		return func(ctx context.Context, args []string) error {
			commandID := uuid.New().String()
			start := time.Now()

			err := next(ctx, args)

			fields := []interface{}{
				"command_id", commandID,
				"command", name,
				"args", len(args),
				"latency", time.Since(start).String(),
			}
			switch {
			case err == nil:
				log.Debug("Command processed", fields...)
			case apperrors.CodeOf(err) != 0 && apperrors.CodeOf(err) != apperrors.ErrInternal:
				log.Warn("Command rejected", append(fields, "error", err.Error())...)
			default:
				log.Error(err, "Command failed", fields...)
			}
			return err
		}
	}
}

// Timeout bounds each command by d. A zero d leaves commands unbounded.
func Timeout(d time.Duration) Middleware {
	return func(name string, next Command) Command {
		if d <= 0 {
			return next
		}
		return func(ctx context.Context, args []string) error {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next(ctx, args)
		}
	}
}
