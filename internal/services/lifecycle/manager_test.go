package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownRunsHooksInReverseOrder(t *testing.T) {
	m := New(time.Second, nil)

	var order []string
	for _, name := range []string{"postgres", "redis", "http_server"} {
		name := name
		m.Register(name, func(ctx context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	require.NoError(t, m.Shutdown(context.Background()))
	assert.Equal(t, []string{"http_server", "redis", "postgres"}, order)
}

func TestShutdownJoinsFailuresAndContinues(t *testing.T) {
	m := New(time.Second, nil)

	closeErr := errors.New("close failed")
	ran := false
	m.Register("healthy", func(ctx context.Context) error {
		ran = true
		return nil
	})
	m.Register("broken", func(ctx context.Context) error {
		return closeErr
	})

	err := m.Shutdown(context.Background())
	assert.ErrorIs(t, err, closeErr)
	assert.True(t, ran, "remaining hooks still run after a failure")
}

func TestShutdownAppliesTimeout(t *testing.T) {
	m := New(50*time.Millisecond, nil)

	var hasDeadline bool
	m.Register("any", func(ctx context.Context) error {
		_, hasDeadline = ctx.Deadline()
		return nil
	})

	require.NoError(t, m.Shutdown(context.Background()))
	assert.True(t, hasDeadline)
}
