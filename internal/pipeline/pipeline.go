// Package pipeline sequences the post-swipe taste updates.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/AmirS36/goosechase-music-discovery/internal/completion"
	"github.com/AmirS36/goosechase-music-discovery/internal/db"
)

// taskTimeout bounds a detached taste update; an interrupted extraction run
// resumes from the last committed window on the next trigger.
const taskTimeout = 5 * time.Minute

// Extractor runs incremental feature extraction.
type Extractor interface {
	Run(ctx context.Context, userID uuid.UUID) (int, error)
}

// Recomputer rebuilds the taste snapshot.
type Recomputer interface {
	Recompute(ctx context.Context, userID uuid.UUID) (*db.TasteSnapshot, error)
}

// Pipeline triggers taste updates after swipe writes. The swipe write itself
// is always durable before either step reads from the log.
type Pipeline struct {
	extractor Extractor
	rollup    Recomputer
	log       *slog.Logger
}

// New creates a pipeline.
func New(extractor Extractor, rollup Recomputer, log *slog.Logger) *Pipeline {
	return &Pipeline{extractor: extractor, rollup: rollup, log: log}
}

// OnLike fires a detached taste update: extraction, then a full rollup. It
// returns immediately; failures live in the task's own failure domain and
// never surface to the triggering request.
func (p *Pipeline) OnLike(userID uuid.UUID) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
		defer cancel()
		p.run(ctx, userID)
	}()
}

// OnDislike recomputes the snapshot synchronously so an unlike is reflected
// immediately. Failures are logged, not propagated: the swipe write already
// succeeded.
func (p *Pipeline) OnDislike(ctx context.Context, userID uuid.UUID) {
	if _, err := p.rollup.Recompute(ctx, userID); err != nil {
		p.log.Error("taste rollup after dislike failed",
			slog.String("user_id", userID.String()), slog.String("error", err.Error()))
	}
}

func (p *Pipeline) run(ctx context.Context, userID uuid.UUID) {
	windows, err := p.extractor.Run(ctx, userID)
	if err != nil {
		level := slog.LevelError
		if errors.Is(err, completion.ErrQuotaExhausted) {
			level = slog.LevelWarn
		}
		p.log.Log(ctx, level, "feature extraction stopped",
			slog.String("user_id", userID.String()),
			slog.Int("windows_committed", windows),
			slog.String("error", err.Error()))
	} else if windows > 0 {
		p.log.Info("feature extraction committed windows",
			slog.String("user_id", userID.String()), slog.Int("windows", windows))
	}

	// The rollup runs regardless of how extraction ended; it only reads
	// committed state.
	if _, err := p.rollup.Recompute(ctx, userID); err != nil {
		p.log.Error("taste rollup failed",
			slog.String("user_id", userID.String()), slog.String("error", err.Error()))
	}
}
