// Package ledger holds the immutable, chronologically ordered set of
// resolved historical match results that every form statistic and every
// training row is computed from.
package ledger

import (
	"sort"
	"time"

	"github.com/yourusername/matchcast/internal/models"
)

// Ledger is a time-ordered collection of resolved matches. Once built it is
// never reordered or mutated; retraining constructs a fresh ledger.
type Ledger struct {
	records []models.MatchRecord
}

// New builds a ledger from raw records. Unresolved entries and matches dated
// on or after the supplied "now" are excluded, the result class is derived
// from the final score, and the remainder is stably sorted by date so that
// same-day matches keep their ingestion order.
func New(records []models.MatchRecord, now time.Time) *Ledger {
	kept := make([]models.MatchRecord, 0, len(records))
	for _, rec := range records {
		if rec.Date.IsZero() || !rec.Date.Before(now) {
			continue
		}
		if rec.HomeTeam == "" || rec.AwayTeam == "" {
			continue
		}
		rec.Result = models.ResultFromGoals(rec.HomeGoals, rec.AwayGoals)
		kept = append(kept, rec)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Date.Before(kept[j].Date)
	})

	return &Ledger{records: kept}
}

// Len returns the number of resolved matches in the ledger.
func (l *Ledger) Len() int {
	return len(l.records)
}

// At returns the record at position i in chronological order.
func (l *Ledger) At(i int) models.MatchRecord {
	return l.records[i]
}

// Records returns the ordered records. The returned slice is shared; callers
// must not modify it.
func (l *Ledger) Records() []models.MatchRecord {
	return l.records
}

// Before returns the records strictly before the cutoff date, preserving
// order. Strict inequality is the leakage boundary: a match played on the
// reference date itself never contributes to form computed for that date.
func (l *Ledger) Before(cutoff time.Time) []models.MatchRecord {
	// Records are sorted, so binary search for the boundary.
	idx := sort.Search(len(l.records), func(i int) bool {
		return !l.records[i].Date.Before(cutoff)
	})
	return l.records[:idx]
}

// TeamMatchesBefore returns the matches involving the given team strictly
// before the cutoff, chronologically ordered.
func (l *Ledger) TeamMatchesBefore(team string, cutoff time.Time) []models.MatchRecord {
	var out []models.MatchRecord
	for _, rec := range l.Before(cutoff) {
		if rec.Involves(team) {
			out = append(out, rec)
		}
	}
	return out
}

// TeamNames returns the distinct non-empty team names across both sides of
// every match, in no particular order.
func (l *Ledger) TeamNames() []string {
	seen := make(map[string]struct{}, 64)
	for _, rec := range l.records {
		if rec.HomeTeam != "" {
			seen[rec.HomeTeam] = struct{}{}
		}
		if rec.AwayTeam != "" {
			seen[rec.AwayTeam] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	return names
}

// Span returns the dates of the earliest and latest matches. Both are zero
// for an empty ledger.
func (l *Ledger) Span() (first, last time.Time) {
	if len(l.records) == 0 {
		return time.Time{}, time.Time{}
	}
	return l.records[0].Date, l.records[len(l.records)-1].Date
}
