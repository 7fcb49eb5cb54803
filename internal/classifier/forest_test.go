package classifier

import (
	"encoding/json"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/yourusername/matchcast/internal/models"
)

// synthetic data with a learnable structure: first column high -> home win,
// low -> away win, middle -> draw.
func syntheticData(n int, seed int64) ([][]float64, []models.Outcome) {
	rng := rand.New(rand.NewSource(seed))
	rows := make([][]float64, n)
	labels := make([]models.Outcome, n)
	for i := range rows {
		x := rng.Float64() * 3.0
		rows[i] = []float64{x, rng.Float64(), rng.Float64()}
		switch {
		case x > 2.0:
			labels[i] = models.HomeWin
		case x < 1.0:
			labels[i] = models.AwayWin
		default:
			labels[i] = models.Draw
		}
	}
	return rows, labels
}

func TestFitAndPredict(t *testing.T) {
	rows, labels := syntheticData(400, 7)

	forest := New(Config{NumTrees: 30, MinSamplesSplit: 5, Seed: 42})
	if err := forest.Fit(rows, labels); err != nil {
		t.Fatalf("fit failed: %v", err)
	}

	correct := 0
	for i, row := range rows {
		pred, err := forest.Predict(row)
		if err != nil {
			t.Fatalf("predict failed: %v", err)
		}
		if pred == labels[i] {
			correct++
		}
	}
	accuracy := float64(correct) / float64(len(rows))
	if accuracy < 0.9 {
		t.Fatalf("expected training accuracy above 0.9 on separable data, got %.3f", accuracy)
	}
}

func TestPredictProbaSumsToOne(t *testing.T) {
	rows, labels := syntheticData(200, 3)
	forest := New(DefaultConfig())
	if err := forest.Fit(rows, labels); err != nil {
		t.Fatalf("fit failed: %v", err)
	}

	probs, err := forest.PredictProba([]float64{1.5, 0.5, 0.5})
	if err != nil {
		t.Fatalf("predict_proba failed: %v", err)
	}
	if len(probs) != models.OutcomeClassCount {
		t.Fatalf("expected %d probabilities, got %d", models.OutcomeClassCount, len(probs))
	}
	sum := 0.0
	for _, p := range probs {
		if p < 0 || p > 1 {
			t.Fatalf("probability out of range: %v", probs)
		}
		sum += p
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("probabilities sum to %v, want 1.0", sum)
	}
}

func TestDeterministicForFixedSeed(t *testing.T) {
	rows, labels := syntheticData(200, 11)

	first := New(Config{NumTrees: 20, MinSamplesSplit: 5, Seed: 42})
	second := New(Config{NumTrees: 20, MinSamplesSplit: 5, Seed: 42})
	if err := first.Fit(rows, labels); err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	if err := second.Fit(rows, labels); err != nil {
		t.Fatalf("fit failed: %v", err)
	}

	for i := 0; i < 20; i++ {
		row := []float64{float64(i) * 0.15, 0.3, 0.7}
		p1, _ := first.PredictProba(row)
		p2, _ := second.PredictProba(row)
		if !reflect.DeepEqual(p1, p2) {
			t.Fatalf("same seed produced different probabilities at row %d: %v vs %v", i, p1, p2)
		}
	}
}

func TestFitRejectsBadInput(t *testing.T) {
	forest := New(DefaultConfig())

	if err := forest.Fit(nil, nil); err == nil {
		t.Fatal("expected error for empty training set")
	}
	if err := forest.Fit([][]float64{{1, 2}}, []models.Outcome{models.HomeWin, models.Draw}); err == nil {
		t.Fatal("expected error for row/label mismatch")
	}
	if err := forest.Fit([][]float64{{1, 2}}, []models.Outcome{models.Outcome(9)}); err == nil {
		t.Fatal("expected error for invalid label")
	}
}

func TestPredictBeforeFit(t *testing.T) {
	forest := New(DefaultConfig())
	if _, err := forest.Predict([]float64{1, 2, 3}); err == nil {
		t.Fatal("expected error when predicting with an unfitted forest")
	}
}

func TestSerializationRoundTripPreservesPredictions(t *testing.T) {
	rows, labels := syntheticData(200, 5)
	forest := New(Config{NumTrees: 10, MinSamplesSplit: 5, Seed: 42})
	if err := forest.Fit(rows, labels); err != nil {
		t.Fatalf("fit failed: %v", err)
	}

	data, err := json.Marshal(forest)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	restored := &Forest{}
	if err := json.Unmarshal(data, restored); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	for i := 0; i < 10; i++ {
		row := []float64{float64(i) * 0.3, 0.4, 0.6}
		orig, _ := forest.PredictProba(row)
		loaded, _ := restored.PredictProba(row)
		if !reflect.DeepEqual(orig, loaded) {
			t.Fatalf("round-trip changed predictions: %v vs %v", orig, loaded)
		}
	}
}
