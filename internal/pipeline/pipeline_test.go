package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmirS36/goosechase-music-discovery/internal/completion"
	"github.com/AmirS36/goosechase-music-discovery/internal/db"
)

type fakeExtractor struct {
	mu      sync.Mutex
	windows int
	err     error
	calls   int
}

func (f *fakeExtractor) Run(ctx context.Context, userID uuid.UUID) (int, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.windows, f.err
}

func (f *fakeExtractor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeRollup struct {
	mu    sync.Mutex
	err   error
	calls int
	done  chan struct{}
}

func (f *fakeRollup) Recompute(ctx context.Context, userID uuid.UUID) (*db.TasteSnapshot, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.done != nil {
		close(f.done)
	}
	return &db.TasteSnapshot{UserID: userID}, f.err
}

func (f *fakeRollup) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestPipeline(ex *fakeExtractor, ro *fakeRollup) *Pipeline {
	return New(ex, ro, slog.New(slog.DiscardHandler))
}

func waitClosed(t *testing.T, ch chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for detached task")
	}
}

func TestOnLike(t *testing.T) {
	t.Run("runs extraction then rollup", func(t *testing.T) {
		ex := &fakeExtractor{windows: 2}
		ro := &fakeRollup{done: make(chan struct{})}

		newTestPipeline(ex, ro).OnLike(uuid.New())
		waitClosed(t, ro.done)

		assert.Equal(t, 1, ex.callCount())
	})

	t.Run("rollup still runs after quota exhaustion", func(t *testing.T) {
		ex := &fakeExtractor{windows: 1, err: completion.ErrQuotaExhausted}
		ro := &fakeRollup{done: make(chan struct{})}

		newTestPipeline(ex, ro).OnLike(uuid.New())
		waitClosed(t, ro.done)

		require.Equal(t, 1, ro.callCount())
	})

	t.Run("rollup still runs after extraction failure", func(t *testing.T) {
		ex := &fakeExtractor{err: errors.New("boom")}
		ro := &fakeRollup{done: make(chan struct{})}

		newTestPipeline(ex, ro).OnLike(uuid.New())
		waitClosed(t, ro.done)

		require.Equal(t, 1, ro.callCount())
	})
}

func TestOnDislike(t *testing.T) {
	t.Run("recomputes synchronously without extraction", func(t *testing.T) {
		ex := &fakeExtractor{}
		ro := &fakeRollup{}

		newTestPipeline(ex, ro).OnDislike(context.Background(), uuid.New())

		assert.Equal(t, 1, ro.callCount())
		assert.Zero(t, ex.callCount())
	})

	t.Run("swallows rollup failure", func(t *testing.T) {
		ro := &fakeRollup{err: errors.New("db down")}

		// Must not panic or propagate; the swipe write already succeeded.
		newTestPipeline(&fakeExtractor{}, ro).OnDislike(context.Background(), uuid.New())

		assert.Equal(t, 1, ro.callCount())
	})
}
