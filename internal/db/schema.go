package db

import (
	"context"
	"fmt"
)

// schema is the bootstrap DDL, applied idempotently on startup.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id         UUID PRIMARY KEY,
	username   TEXT NOT NULL UNIQUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS tracks (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	artist      TEXT NOT NULL,
	image_url   TEXT,
	preview_url TEXT,
	spotify_url TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS swipes (
	id         BIGSERIAL PRIMARY KEY,
	user_id    UUID NOT NULL REFERENCES users(id),
	track_id   TEXT NOT NULL REFERENCES tracks(id),
	direction  TEXT NOT NULL CHECK (direction IN ('LIKE', 'DISLIKE')),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_swipes_user_id ON swipes(user_id, id);

CREATE TABLE IF NOT EXISTS lyrical_features (
	user_id        UUID NOT NULL REFERENCES users(id),
	track_id       TEXT NOT NULL REFERENCES tracks(id),
	themes         TEXT[] NOT NULL DEFAULT '{}',
	mood           TEXT,
	style          TEXT,
	grand          TEXT,
	grand_presence INT,
	language       TEXT,
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (user_id, track_id)
);

CREATE TABLE IF NOT EXISTS taste_snapshots (
	user_id         UUID PRIMARY KEY REFERENCES users(id),
	assessment      TEXT NOT NULL DEFAULT '',
	sample_size     INT NOT NULL DEFAULT 0,
	top_themes      TEXT[] NOT NULL DEFAULT '{}',
	dominant_mood   TEXT,
	dominant_style  TEXT,
	grand_style     TEXT,
	grand_style_avg INT,
	lang_shares     JSONB NOT NULL DEFAULT '[]',
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS taste_cursors (
	user_id       UUID PRIMARY KEY REFERENCES users(id),
	last_swipe_id BIGINT NOT NULL DEFAULT 0,
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

func (db *DB) ensureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}
