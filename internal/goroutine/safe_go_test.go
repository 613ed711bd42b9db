package goroutine

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
	done  chan struct{}
}

func (l *recordingLogger) Errorf(format string, args ...interface{}) {
	l.mu.Lock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
	l.mu.Unlock()
	close(l.done)
}

func TestSafeGoRecoversPanic(t *testing.T) {
	log := &recordingLogger{done: make(chan struct{})}
	NewRecoveryHandler(log).SafeGo(func() { panic("boom") })

	select {
	case <-log.done:
	case <-time.After(time.Second):
		t.Fatal("panic was not logged")
	}
	require.Len(t, log.lines, 1)
	assert.Contains(t, log.lines[0], "boom")
}

func TestSafeGoWithContextPassesContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "value")
	got := make(chan any, 1)

	NewRecoveryHandler(&recordingLogger{done: make(chan struct{})}).SafeGoWithContext(ctx, func(ctx context.Context) {
		got <- ctx.Value(key{})
	})

	select {
	case v := <-got:
		assert.Equal(t, "value", v)
	case <-time.After(time.Second):
		t.Fatal("function was not called")
	}
}
