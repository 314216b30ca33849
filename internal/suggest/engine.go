// Package suggest infers calendar obligations from leases, warranties,
// insurance policies and expiring documents.
package suggest

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/example/smart-calendar/internal/calendar"
	"github.com/example/smart-calendar/internal/civil"
	"github.com/example/smart-calendar/internal/logging"
)

// Suggestion is an unpersisted candidate event.
type Suggestion struct {
	Key              string            `json:"key"`
	Rule             Rule              `json:"rule"`
	SourceID         string            `json:"source_id"`
	Title            string            `json:"title"`
	Category         calendar.Category `json:"category,omitempty"`
	StartDate        civil.Date        `json:"start_date"`
	Notes            string            `json:"notes,omitempty"`
	Source           string            `json:"source"`
	LinkedPropertyID *string           `json:"linked_property_id,omitempty"`
}

// Revision identifies this suggestion at its current date. Dismissing a
// revision hides only that date; a changed source date surfaces again.
func (s Suggestion) Revision() string {
	return RevisionKey(s.Key, s.StartDate)
}

// RevisionKey joins a key and a date the same way Revision does.
func RevisionKey(key string, date civil.Date) string {
	return key + "@" + date.String()
}

// Report is the outcome of a suggestion pass.
type Report struct {
	Suggestions []Suggestion
	Skipped     []*InferenceError
	Dismissed   int
	Existing    int
}

// Engine runs every inference rule over a snapshot.
type Engine struct {
	logger *slog.Logger
}

// NewEngine returns an engine that logs skipped records to logger. A nil
// logger falls back to slog.Default.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// Generate returns the candidates not yet accepted or dismissed, ordered by
// start date then key. existingKeys are template keys of existing events and
// dismissed may hold plain keys or revisions.
func (e *Engine) Generate(ctx context.Context, snapshot Snapshot, existingKeys, dismissed []string) []Suggestion {
	return e.GenerateReport(ctx, snapshot, existingKeys, dismissed).Suggestions
}

// GenerateReport is Generate that also returns the skipped records and
// filter counts.
func (e *Engine) GenerateReport(ctx context.Context, snapshot Snapshot, existingKeys, dismissed []string) Report {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = e.logger
	}
	logger = logger.With("component", "suggest")

	dismissedSet := toSet(dismissed)
	existingSet := toSet(existingKeys)

	var report Report
	seen := make(map[string]struct{})
	for _, infer := range rules {
		for _, c := range infer(snapshot) {
			if c.err != nil {
				logger.WarnContext(ctx, "skipping malformed source record",
					"rule", string(c.err.Rule),
					"source_id", c.err.SourceID,
					"error", c.err.Err,
				)
				report.Skipped = append(report.Skipped, c.err)
				continue
			}

			s := c.suggestion
			if _, ok := dismissedSet[s.Key]; ok {
				report.Dismissed++
				continue
			}
			if _, ok := dismissedSet[s.Revision()]; ok {
				report.Dismissed++
				continue
			}
			if _, ok := existingSet[s.Key]; ok {
				report.Existing++
				continue
			}
			if _, dup := seen[s.Key]; dup {
				continue
			}
			seen[s.Key] = struct{}{}
			report.Suggestions = append(report.Suggestions, s)
		}
	}

	sort.SliceStable(report.Suggestions, func(i, j int) bool {
		a, b := report.Suggestions[i], report.Suggestions[j]
		if c := a.StartDate.Compare(b.StartDate); c != 0 {
			return c < 0
		}
		return a.Key < b.Key
	})

	logger.DebugContext(ctx, "suggestions generated",
		"candidates", len(report.Suggestions),
		"skipped", len(report.Skipped),
		"dismissed", report.Dismissed,
		"existing", report.Existing,
	)
	return report
}

// Find returns the suggestion with key from a generated list.
func Find(list []Suggestion, key string) (Suggestion, bool) {
	key = strings.TrimSpace(key)
	for _, s := range list {
		if s.Key == key {
			return s, true
		}
	}
	return Suggestion{}, false
}

func toSet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			set[k] = struct{}{}
		}
	}
	return set
}
