package resolve

import (
	"context"
	"errors"
	"log/slog"
	"testing"
)

type fakePrimary struct {
	candidates []Candidate
	err        error
	queries    []string
}

func (f *fakePrimary) SearchTracks(ctx context.Context, query string, limit int) ([]Candidate, error) {
	f.queries = append(f.queries, query)
	return f.candidates, f.err
}

type fakeSecondary struct {
	best    *Candidate
	err     error
	queries []string
}

func (f *fakeSecondary) SearchBest(ctx context.Context, query string) (*Candidate, error) {
	f.queries = append(f.queries, query)
	return f.best, f.err
}

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestCascadeResolve(t *testing.T) {
	t.Run("primary exact match without preview gets secondary augmentation", func(t *testing.T) {
		primary := &fakePrimary{candidates: []Candidate{
			{ID: "sp1", Title: "Creep Acoustic Cover", Artist: "Radiohead", PreviewURL: "https://p.example/partial"},
			{ID: "sp2", Title: "Creep", Artist: "Radiohead", ArtworkURL: "https://img.example/sp2", CanonicalURL: "https://open.example/sp2"},
		}}
		secondary := &fakeSecondary{best: &Candidate{
			ID:         "dz9",
			Title:      "Creep",
			Artist:     "Radiohead",
			PreviewURL: "https://p.example/dz9",
			ArtworkURL: "https://img.example/dz9",
		}}
		c := NewCascade(primary, secondary, discard())

		got := c.Resolve(context.Background(), "Creep", "Radiohead")

		// The exact text match wins over the partial match with a preview,
		// and keeps the primary identity.
		if got.ID == nil || *got.ID != "sp2" {
			t.Fatalf("ID = %v, want sp2", got.ID)
		}
		if got.Title != "Creep" || got.Artist != "Radiohead" {
			t.Errorf("identity = %q / %q", got.Title, got.Artist)
		}
		// The secondary fills only the missing preview; existing artwork and
		// canonical URL stay with the primary.
		if got.PreviewURL == nil || *got.PreviewURL != "https://p.example/dz9" {
			t.Errorf("PreviewURL = %v, want secondary preview", got.PreviewURL)
		}
		if got.ArtworkURL == nil || *got.ArtworkURL != "https://img.example/sp2" {
			t.Errorf("ArtworkURL = %v, want primary artwork", got.ArtworkURL)
		}
		if len(secondary.queries) != 1 {
			t.Errorf("secondary queried %d times, want 1", len(secondary.queries))
		}
	})

	t.Run("primary match with preview skips secondary", func(t *testing.T) {
		primary := &fakePrimary{candidates: []Candidate{
			{ID: "sp1", Title: "Creep", Artist: "Radiohead", PreviewURL: "https://p.example/sp1"},
		}}
		secondary := &fakeSecondary{}
		c := NewCascade(primary, secondary, discard())

		got := c.Resolve(context.Background(), "Creep", "Radiohead")

		if got.ID == nil || *got.ID != "sp1" {
			t.Fatalf("ID = %v, want sp1", got.ID)
		}
		if len(secondary.queries) != 0 {
			t.Errorf("secondary queried %d times, want 0", len(secondary.queries))
		}
	})

	t.Run("empty primary falls back to secondary wholesale", func(t *testing.T) {
		primary := &fakePrimary{}
		secondary := &fakeSecondary{best: &Candidate{
			ID: "dz1", Title: "Creep", Artist: "Radiohead", PreviewURL: "https://p.example/dz1",
		}}
		c := NewCascade(primary, secondary, discard())

		got := c.Resolve(context.Background(), "creep", "radiohead")

		if got.ID == nil || *got.ID != "dz1" {
			t.Fatalf("ID = %v, want dz1", got.ID)
		}
		if got.Title != "Creep" {
			t.Errorf("Title = %q, want secondary title", got.Title)
		}
	})

	t.Run("both providers failing degrades to metadata only", func(t *testing.T) {
		primary := &fakePrimary{err: errors.New("timeout")}
		secondary := &fakeSecondary{err: errors.New("timeout")}
		c := NewCascade(primary, secondary, discard())

		got := c.Resolve(context.Background(), " Creep ", "Radiohead")

		if got.Title != "Creep" || got.Artist != "Radiohead" {
			t.Errorf("identity = %q / %q, want trimmed originals", got.Title, got.Artist)
		}
		if got.ID != nil || got.PreviewURL != nil || got.ArtworkURL != nil || got.CanonicalURL != nil {
			t.Error("expected nil enrichment fields")
		}
	})

	t.Run("secondary yields nothing leaves primary result as is", func(t *testing.T) {
		primary := &fakePrimary{candidates: []Candidate{
			{ID: "sp1", Title: "Creep", Artist: "Radiohead"},
		}}
		secondary := &fakeSecondary{best: nil}
		c := NewCascade(primary, secondary, discard())

		got := c.Resolve(context.Background(), "Creep", "Radiohead")

		if got.ID == nil || *got.ID != "sp1" {
			t.Fatalf("ID = %v, want sp1", got.ID)
		}
		if got.PreviewURL != nil {
			t.Errorf("PreviewURL = %v, want nil", got.PreviewURL)
		}
	})
}
