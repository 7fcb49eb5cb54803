package features

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/yourusername/matchcast/internal/ledger"
	"github.com/yourusername/matchcast/internal/models"
)

func day(offset int) time.Time {
	return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func sampleLedger() *ledger.Ledger {
	return ledger.New([]models.MatchRecord{
		{Date: day(0), HomeTeam: "Chelsea", AwayTeam: "Arsenal", HomeGoals: 1, AwayGoals: 3},
		{Date: day(2), HomeTeam: "Arsenal", AwayTeam: "Burnley", HomeGoals: 2, AwayGoals: 2},
		{Date: day(4), HomeTeam: "Burnley", AwayTeam: "Chelsea", HomeGoals: 0, AwayGoals: 1},
	}, day(100))
}

func TestBuildEncodingDeterministic(t *testing.T) {
	l := sampleLedger()

	first := BuildEncoding(l)
	second := BuildEncoding(l)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("encoding not deterministic: %v vs %v", first, second)
	}

	want := models.TeamEncoding{"Arsenal": 0, "Burnley": 1, "Chelsea": 2}
	if !reflect.DeepEqual(first, want) {
		t.Fatalf("expected alphabetical codes %v, got %v", want, first)
	}
}

func TestAssembleUnknownTeam(t *testing.T) {
	l := sampleLedger()
	asm := NewAssembler(l, BuildEncoding(l))

	_, err := asm.Assemble("Arsenal", "Real Madrid", day(10), 10)
	if !errors.Is(err, models.ErrUnknownTeam) {
		t.Fatalf("expected unknown team error, got %v", err)
	}

	_, err = asm.Assemble("Bayern", "Arsenal", day(10), 10)
	if !errors.Is(err, models.ErrUnknownTeam) {
		t.Fatalf("expected unknown team error for home side, got %v", err)
	}
}

func TestAssembleCrossTerms(t *testing.T) {
	l := sampleLedger()
	asm := NewAssembler(l, BuildEncoding(l))

	got, err := asm.Assemble("Arsenal", "Chelsea", day(10), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Arsenal: 3-1 W away, 2-2 D home -> ppg 2.0, scored 2.5, conceded 1.5.
	// Chelsea: 1-3 L home, 1-0 W away -> ppg 1.5, scored 1.0, conceded 1.5.
	if got.Vector.HomePPG != 2.0 || got.Vector.AwayPPG != 1.5 {
		t.Errorf("unexpected ppg columns: %+v", got.Vector)
	}
	wantHomeGD := (2.5 - 1.5) - 1.0 // home goal diff minus away scoring avg
	wantAwayGD := (1.0 - 1.5) - 2.5 // away goal diff minus home scoring avg
	if got.Vector.HomeGoalDiff != wantHomeGD {
		t.Errorf("expected home goal diff %v, got %v", wantHomeGD, got.Vector.HomeGoalDiff)
	}
	if got.Vector.AwayGoalDiff != wantAwayGD {
		t.Errorf("expected away goal diff %v, got %v", wantAwayGD, got.Vector.AwayGoalDiff)
	}
}

func TestTrainServeConsistency(t *testing.T) {
	// Assembling features for a historical match at its own date must produce
	// the same vector regardless of which caller asks: there is only one
	// assembly path, and this pins that down.
	l := sampleLedger()
	asm := NewAssembler(l, BuildEncoding(l))

	rec := l.At(2) // Burnley v Chelsea
	trainSide, err := asm.Assemble(rec.HomeTeam, rec.AwayTeam, rec.Date, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	serveSide, err := asm.Assemble(rec.HomeTeam, rec.AwayTeam, rec.Date, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(trainSide.Vector, serveSide.Vector) {
		t.Fatalf("train/serve divergence: %+v vs %+v", trainSide.Vector, serveSide.Vector)
	}
	if !reflect.DeepEqual(trainSide.Vector.Columns(), serveSide.Vector.Columns()) {
		t.Fatalf("column projection diverged")
	}
}

func TestFormUnknownTeam(t *testing.T) {
	l := sampleLedger()
	asm := NewAssembler(l, BuildEncoding(l))

	_, err := asm.Form("Barcelona", day(10), 10)
	if !errors.Is(err, models.ErrUnknownTeam) {
		t.Fatalf("expected unknown team error, got %v", err)
	}
}
