package recurrence

import (
	"testing"

	"github.com/example/smart-calendar/internal/civil"
)

func BenchmarkBetween(b *testing.B) {
	anchor := civil.MustParse("2024-01-31")
	from := civil.MustParse("2024-01-01")
	to := civil.MustParse("2026-12-31")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		dates, err := Between(anchor, Weekly, from, to)
		if err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
		if len(dates) == 0 {
			b.Fatal("expected occurrences to be generated")
		}
	}
}

func BenchmarkOccurrences(b *testing.B) {
	anchor := civil.MustParse("2024-01-31")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Occurrences(anchor, Monthly, 24); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}
