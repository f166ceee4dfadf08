package middleware

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
	"github.com/jwalitptl/clinic-records/pkg/logger"
)

func TestChainOrder(t *testing.T) {
	var calls []string
	trace := func(tag string) Middleware {
		return func(name string, next Command) Command {
			return func(ctx context.Context, args []string) error {
				calls = append(calls, tag+":"+name)
				return next(ctx, args)
			}
		}
	}

	cmd := Chain("list", func(ctx context.Context, args []string) error {
		calls = append(calls, "run")
		return nil
	}, trace("outer"), trace("inner"))

	require.NoError(t, cmd(context.Background(), nil))
	assert.Equal(t, []string{"outer:list", "inner:list", "run"}, calls)
}

func TestRecovery(t *testing.T) {
	cmd := Chain("show", func(ctx context.Context, args []string) error {
		var m map[string]int
		m["boom"]++
		return nil
	}, Recovery(logger.Nop()))

	err := cmd(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrInternal, apperrors.CodeOf(err))
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewLogger(&logger.Config{Level: logger.DebugLevel, Output: &buf, JSON: true})

	rejected := Chain("approve", func(ctx context.Context, args []string) error {
		return apperrors.Forbidden("Nurse may not approve")
	}, Logger(log))
	assert.True(t, apperrors.IsForbidden(rejected(context.Background(), []string{"trt3"})))
	assert.Contains(t, buf.String(), `"message":"Command rejected"`)
	assert.Contains(t, buf.String(), `"command":"approve"`)

	buf.Reset()
	failed := Chain("list", func(ctx context.Context, args []string) error {
		return errors.New("disk on fire")
	}, Logger(log))
	assert.Error(t, failed(context.Background(), nil))
	assert.Contains(t, buf.String(), `"level":"error"`)
}

func TestTimeout(t *testing.T) {
	var deadline time.Time
	var ok bool
	cmd := Chain("list", func(ctx context.Context, args []string) error {
		deadline, ok = ctx.Deadline()
		return nil
	}, Timeout(time.Minute))

	require.NoError(t, cmd(context.Background(), nil))
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)

	unbounded := Chain("list", func(ctx context.Context, args []string) error {
		_, ok = ctx.Deadline()
		return nil
	}, Timeout(0))
	require.NoError(t, unbounded(context.Background(), nil))
	assert.False(t, ok)
}
