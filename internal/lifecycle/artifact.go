package lifecycle

import (
	"time"

	"github.com/yourusername/matchcast/internal/classifier"
	"github.com/yourusername/matchcast/internal/features"
	"github.com/yourusername/matchcast/internal/ledger"
	"github.com/yourusername/matchcast/internal/models"
)

// Artifact is the atomic unit of trained state: the fitted classifier, the
// ledger snapshot it was trained against and the team encoding derived from
// that ledger. Prediction requests always read all three through one
// consistent artifact; the triple is never mixed across generations.
type Artifact struct {
	Forest        *classifier.Forest
	Ledger        *ledger.Ledger
	Encoding      models.TeamEncoding
	TrainedAt     time.Time
	NextRetrainAt time.Time
	// Generation increments on every swap; callers use it to key caches.
	Generation uint64

	assembler *features.Assembler
}

// Assembler returns the feature assembler bound to this artifact's ledger
// and encoding.
func (a *Artifact) Assembler() *features.Assembler {
	return a.assembler
}

// TeamCount returns the number of encoded teams.
func (a *Artifact) TeamCount() int {
	return len(a.Encoding)
}

// MatchCount returns the size of the ledger snapshot.
func (a *Artifact) MatchCount() int {
	return a.Ledger.Len()
}

// Metadata is the small on-disk record describing the persisted artifact,
// kept alongside the bundle for inspection without deserializing the model.
type Metadata struct {
	LastTrained  time.Time `json:"last_trained"`
	NextRetrain  time.Time `json:"next_retrain"`
	TotalTeams   int       `json:"total_teams"`
	TotalMatches int       `json:"total_matches"`
}
