package persistence

import (
	"context"

	"github.com/example/smart-calendar/internal/calendar"
	"github.com/example/smart-calendar/internal/suggest"
)

// EventRepository stores calendar events. Every call is scoped to ownerID;
// an event owned by someone else behaves as if it does not exist.
type EventRepository interface {
	ListEvents(ctx context.Context, ownerID string, filter EventFilter) ([]calendar.Event, error)
	GetEvent(ctx context.Context, ownerID, id string) (calendar.Event, error)
	CreateEvent(ctx context.Context, event calendar.Event) error
	UpdateEvent(ctx context.Context, event calendar.Event) error
	DeleteEvent(ctx context.Context, ownerID, id string) error
	// TemplateKeys returns the distinct non-empty template keys of the owner's
	// events regardless of status.
	TemplateKeys(ctx context.Context, ownerID string) ([]string, error)
}

// DismissalStore records dismissed suggestion keys. Adding a key twice is
// not an error; the latest write wins.
type DismissalStore interface {
	DismissedKeys(ctx context.Context, ownerID string) ([]string, error)
	AddDismissal(ctx context.Context, dismissal Dismissal) error
}

// SignalSource exposes the read-only records suggestions are inferred from.
type SignalSource interface {
	Snapshot(ctx context.Context, ownerID string) (suggest.Snapshot, error)
}

// SignalWriter imports signal records pushed by the systems that own them.
type SignalWriter interface {
	SaveSnapshot(ctx context.Context, ownerID string, snap suggest.Snapshot) error
}
