package lifecycle

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yourusername/matchcast/internal/classifier"
	"github.com/yourusername/matchcast/internal/features"
	"github.com/yourusername/matchcast/internal/ledger"
	"github.com/yourusername/matchcast/internal/models"
)

const (
	bundleFile   = "model.json"
	metadataFile = "model_metadata.json"
)

// Store persists the trained artifact on disk. The classifier, ledger
// snapshot and team encoding travel in one bundle file so a reader can never
// observe a classifier paired with a foreign encoding; writes go through a
// temp file and an atomic rename.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating artifact directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// bundle is the on-disk artifact layout.
type bundle struct {
	Classifier *classifier.Forest   `json:"classifier"`
	Matches    []models.MatchRecord `json:"ledger"`
	Encoding   models.TeamEncoding  `json:"team_encoding"`
	TrainedAt  time.Time            `json:"trained_at"`
	NextRetrain time.Time           `json:"next_retrain"`
}

// Save writes the artifact bundle and its metadata record. The bundle is the
// authoritative unit: it is renamed into place first, so a crash between the
// two writes can only leave stale metadata, never a torn model.
func (s *Store) Save(artifact *Artifact) error {
	b := bundle{
		Classifier:  artifact.Forest,
		Matches:     artifact.Ledger.Records(),
		Encoding:    artifact.Encoding,
		TrainedAt:   artifact.TrainedAt,
		NextRetrain: artifact.NextRetrainAt,
	}

	if err := s.writeAtomic(bundleFile, b); err != nil {
		return fmt.Errorf("persisting artifact bundle: %w", err)
	}

	meta := Metadata{
		LastTrained:  artifact.TrainedAt,
		NextRetrain:  artifact.NextRetrainAt,
		TotalTeams:   artifact.TeamCount(),
		TotalMatches: artifact.MatchCount(),
	}
	if err := s.writeAtomic(metadataFile, meta); err != nil {
		return fmt.Errorf("persisting artifact metadata: %w", err)
	}

	return nil
}

// Load reads the persisted artifact. A missing bundle returns ErrNoArtifact;
// a malformed or inconsistent bundle returns ErrCorruptArtifact so callers
// treat it exactly like a missing one and retrain.
func (s *Store) Load() (*Artifact, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, bundleFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, models.ErrNoArtifact
		}
		return nil, fmt.Errorf("reading artifact bundle: %w", err)
	}

	var b bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrCorruptArtifact, err)
	}
	if b.Classifier == nil || !b.Classifier.Fitted() || len(b.Encoding) == 0 || b.TrainedAt.IsZero() {
		return nil, fmt.Errorf("%w: incomplete bundle", models.ErrCorruptArtifact)
	}

	// Records were strictly before TrainedAt when the bundle was written, so
	// rebuilding with the same boundary reproduces the training ledger.
	l := ledger.New(b.Matches, b.TrainedAt)
	if l.Len() == 0 {
		return nil, fmt.Errorf("%w: empty ledger snapshot", models.ErrCorruptArtifact)
	}

	return &Artifact{
		Forest:        b.Classifier,
		Ledger:        l,
		Encoding:      b.Encoding,
		TrainedAt:     b.TrainedAt,
		NextRetrainAt: b.NextRetrain,
		assembler:     features.NewAssembler(l, b.Encoding),
	}, nil
}

// Metadata reads the metadata record without touching the bundle.
func (s *Store) Metadata() (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, models.ErrNoArtifact
		}
		return nil, fmt.Errorf("reading artifact metadata: %w", err)
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrCorruptArtifact, err)
	}
	return &meta, nil
}

func (s *Store) writeAtomic(name string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming %s into place: %w", name, err)
	}
	return nil
}
