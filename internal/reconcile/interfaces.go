package reconcile

import (
	"context"
	"time"

	"github.com/commonsbots/geograph-sync/internal/model"
)

// PageService is the collaborator that owns page content and revision
// metadata. The orchestrator never caches across attempts; every snapshot
// re-reads through this interface.
type PageService interface {
	// Text returns the current wikitext of the page.
	Text(ctx context.Context, title string) (string, error)
	// FirstRevisionTime returns the timestamp of the page's very first
	// revision.
	FirstRevisionTime(ctx context.Context, title string) (time.Time, error)
	// LatestRevisionID returns the id of the page's newest revision.
	LatestRevisionID(ctx context.Context, title string) (int64, error)
	// Save persists new text with an edit summary.
	Save(ctx context.Context, title, text, summary string, minor bool) error
}

// Statement is one structured-data statement attached to a page.
type Statement struct {
	ID       string
	Property string
}

// OverlayService reads the structured-data overlay for a page: a mapping of
// property id to the statements of that property.
type OverlayService interface {
	Statements(ctx context.Context, title string) (map[string][]Statement, error)
}

// RowSource looks up the authoritative database row for a gridimage id.
// Implementations return geodb.ErrNotFound for unknown ids.
type RowSource interface {
	Lookup(ctx context.Context, gridimageID int64) (*model.GridimageRow, error)
}

// RegionService resolves a point to an administrative region code. It is
// optional; when configured, its use obligates the attribution notice in the
// edit summary.
type RegionService interface {
	Region(ctx context.Context, lat, lon float64) (string, error)
}
