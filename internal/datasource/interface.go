package datasource

import (
	"context"

	"github.com/yourusername/matchcast/internal/models"
)

// MatchSource provides resolved historical matches for ledger construction.
// Implementations must return only completed fixtures; scheduled or abandoned
// fixtures are filtered out before the records reach a caller.
type MatchSource interface {
	// Name identifies the source for logging and metrics
	Name() string

	// FetchMatches retrieves all available completed matches
	FetchMatches(ctx context.Context) ([]models.MatchRecord, error)
}
