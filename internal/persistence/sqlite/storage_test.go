package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/smart-calendar/internal/calendar"
	"github.com/example/smart-calendar/internal/civil"
	"github.com/example/smart-calendar/internal/persistence"
	"github.com/example/smart-calendar/internal/recurrence"
	"github.com/example/smart-calendar/internal/suggest"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "calendar.db")
	storage, err := Open(dsn, WithNow(func() time.Time {
		return time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	}))
	if err != nil {
		t.Fatalf("failed to open storage: %v", err)
	}

	t.Cleanup(func() {
		_ = storage.Close()
	})

	if err := storage.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return storage
}

func sampleEvent(id string) calendar.Event {
	end := civil.MustParse("2024-03-02")
	prop := "prop-7"
	return calendar.Event{
		ID:               id,
		OwnerID:          "owner-1",
		Title:            "Replace HVAC filter",
		Category:         calendar.CategoryHVAC,
		StartDate:        civil.MustParse("2024-03-01"),
		EndDate:          &end,
		Recurrence:       recurrence.Quarterly,
		Status:           calendar.StatusUpcoming,
		LinkedPropertyID: &prop,
		Notes:            "20x25x1",
		Visibility:       calendar.VisibilityShared,
		NotifyDayOf:      true,
		Notify1Week:      true,
		TemplateKey:      "hvac_filter",
		CreatedAt:        time.Date(2024, time.February, 1, 8, 0, 0, 0, time.UTC),
		UpdatedAt:        time.Date(2024, time.February, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	t.Parallel()

	storage := newTestStorage(t)
	require.NoError(t, storage.Migrate(context.Background()))
	require.NoError(t, storage.Ping(context.Background()))
}

func TestEventRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := newTestStorage(t)
	event := sampleEvent("evt-1")

	require.NoError(t, storage.CreateEvent(ctx, event))

	got, err := storage.GetEvent(ctx, "owner-1", "evt-1")
	require.NoError(t, err)
	require.Equal(t, event, got)

	_, err = storage.GetEvent(ctx, "owner-2", "evt-1")
	require.ErrorIs(t, err, persistence.ErrNotFound)

	completed := civil.MustParse("2024-03-03")
	event.Status = calendar.StatusCompleted
	event.CompletedOn = &completed
	event.EndDate = nil
	event.LinkedPropertyID = nil
	event.UpdatedAt = time.Date(2024, time.March, 3, 8, 0, 0, 0, time.UTC)
	require.NoError(t, storage.UpdateEvent(ctx, event))

	got, err = storage.GetEvent(ctx, "owner-1", "evt-1")
	require.NoError(t, err)
	require.Equal(t, calendar.StatusCompleted, got.Status)
	require.Nil(t, got.EndDate)
	require.Nil(t, got.LinkedPropertyID)
	require.Equal(t, completed, *got.CompletedOn)
	require.Equal(t, event.CreatedAt, got.CreatedAt)

	require.NoError(t, storage.DeleteEvent(ctx, "owner-1", "evt-1"))
	require.ErrorIs(t, storage.DeleteEvent(ctx, "owner-1", "evt-1"), persistence.ErrNotFound)

	missing := sampleEvent("missing")
	require.ErrorIs(t, storage.UpdateEvent(ctx, missing), persistence.ErrNotFound)
}

func TestCreateEventRejectsInvalidRows(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := newTestStorage(t)

	event := sampleEvent("evt-1")
	require.NoError(t, storage.CreateEvent(ctx, event))
	require.ErrorIs(t, storage.CreateEvent(ctx, event), persistence.ErrDuplicate)

	bad := sampleEvent("evt-2")
	bad.Status = "archived"
	require.ErrorIs(t, storage.CreateEvent(ctx, bad), persistence.ErrConstraintViolation)

	noOwner := sampleEvent("evt-3")
	noOwner.OwnerID = ""
	require.ErrorIs(t, storage.CreateEvent(ctx, noOwner), persistence.ErrConstraintViolation)
}

func TestSuggestedTemplateKeyIsUniquePerOwner(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := newTestStorage(t)

	first := sampleEvent("a")
	first.TemplateKey = "lease_end_42"
	first.IsSuggested = true
	require.NoError(t, storage.CreateEvent(ctx, first))

	second := first
	second.ID = "b"
	err := storage.CreateEvent(ctx, second)
	if !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// Manual events may share a template key.
	manual := sampleEvent("c")
	manual.TemplateKey = "lease_end_42"
	require.NoError(t, storage.CreateEvent(ctx, manual))

	other := first
	other.ID = "d"
	other.OwnerID = "owner-2"
	require.NoError(t, storage.CreateEvent(ctx, other))

	keys, err := storage.TemplateKeys(ctx, "owner-1")
	require.NoError(t, err)
	require.Equal(t, []string{"lease_end_42"}, keys)
}

func TestListEventsFilters(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := newTestStorage(t)

	a := sampleEvent("a")
	a.StartDate = civil.MustParse("2024-05-01")
	a.EndDate = nil
	b := sampleEvent("b")
	b.Category = calendar.CategoryPropertyTax
	b.Status = calendar.StatusOverdue
	b.LinkedPropertyID = nil
	c := sampleEvent("c")
	c.OwnerID = "owner-2"

	for _, e := range []calendar.Event{a, b, c} {
		require.NoError(t, storage.CreateEvent(ctx, e))
	}

	all, err := storage.ListEvents(ctx, "owner-1", persistence.EventFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "b", all[0].ID)
	require.Equal(t, "a", all[1].ID)

	hvac := calendar.CategoryHVAC
	byCategory, err := storage.ListEvents(ctx, "owner-1", persistence.EventFilter{Category: &hvac})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	require.Equal(t, "a", byCategory[0].ID)

	overdue := calendar.StatusOverdue
	byStatus, err := storage.ListEvents(ctx, "owner-1", persistence.EventFilter{Status: &overdue})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	require.Equal(t, "b", byStatus[0].ID)

	prop := "prop-7"
	byProperty, err := storage.ListEvents(ctx, "owner-1", persistence.EventFilter{LinkedPropertyID: &prop})
	require.NoError(t, err)
	require.Len(t, byProperty, 1)
	require.Equal(t, "a", byProperty[0].ID)

	from := civil.MustParse("2024-04-01")
	to := civil.MustParse("2024-05-31")
	byRange, err := storage.ListEvents(ctx, "owner-1", persistence.EventFilter{StartsFrom: &from, StartsTo: &to})
	require.NoError(t, err)
	require.Len(t, byRange, 1)
	require.Equal(t, "a", byRange[0].ID)
}

func TestDismissals(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := newTestStorage(t)

	require.NoError(t, storage.AddDismissal(ctx, persistence.Dismissal{OwnerID: "o", Key: "warranty_99"}))
	require.NoError(t, storage.AddDismissal(ctx, persistence.Dismissal{OwnerID: "o", Key: "lease_end_42"}))
	require.NoError(t, storage.AddDismissal(ctx, persistence.Dismissal{OwnerID: "o", Key: "warranty_99"}))
	require.ErrorIs(t, storage.AddDismissal(ctx, persistence.Dismissal{OwnerID: "o"}), persistence.ErrConstraintViolation)

	keys, err := storage.DismissedKeys(ctx, "o")
	require.NoError(t, err)
	require.Equal(t, []string{"lease_end_42", "warranty_99"}, keys)

	none, err := storage.DismissedKeys(ctx, "other")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := newTestStorage(t)

	snap := suggest.Snapshot{
		Leases:     []suggest.Lease{{ID: "42", PropertyID: "p1", PropertyName: "Elm St", TenantName: "Kim", EndDate: civil.MustParse("2024-08-31")}},
		Warranties: []suggest.Warranty{{ID: "99", ItemName: "Dishwasher", Provider: "Acme", ExpiresOn: civil.MustParse("2024-12-01")}},
		Policies:   []suggest.InsurancePolicy{{ID: "7", Kind: "homeowners", Carrier: "Mutual", PolicyNumber: "H-1", RenewalDate: civil.MustParse("2025-01-15")}},
		Documents:  []suggest.Document{{ID: "3", Title: "Passport", Kind: "passport"}},
	}
	require.NoError(t, storage.SaveSnapshot(ctx, "o", snap))

	got, err := storage.Snapshot(ctx, "o")
	require.NoError(t, err)
	require.Equal(t, snap, got)
	require.True(t, got.Documents[0].ExpiresOn.IsZero())

	empty, err := storage.Snapshot(ctx, "someone-else")
	require.NoError(t, err)
	require.Zero(t, empty.Len())
}

func TestWithPragmas(t *testing.T) {
	t.Parallel()

	require.Equal(t, "a.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", withPragmas("a.db"))
	require.Equal(t, ":memory:?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", withPragmas(":memory:"))
	require.Equal(t, "file:a.db?_pragma=busy_timeout(1)", withPragmas("file:a.db?_pragma=busy_timeout(1)"))
}
