package features

import (
	"sort"

	"github.com/yourusername/matchcast/internal/ledger"
	"github.com/yourusername/matchcast/internal/models"
)

// BuildEncoding derives the team encoding from the full ledger: every
// distinct team name on either side, sorted lexicographically, assigned dense
// codes 0..n-1. The sort makes the encoding deterministic across retrains on
// an unchanged ledger, which matters because the classifier is keyed on
// these codes.
func BuildEncoding(l *ledger.Ledger) models.TeamEncoding {
	names := l.TeamNames()
	sort.Strings(names)

	encoding := make(models.TeamEncoding, len(names))
	for i, name := range names {
		encoding[name] = i
	}
	return encoding
}
