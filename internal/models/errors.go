package models

import "errors"

// Custom errors
var (
	ErrUnknownTeam     = errors.New("team not found in training data")
	ErrValidation      = errors.New("invalid request")
	ErrNoArtifact      = errors.New("no trained artifact available")
	ErrCorruptArtifact = errors.New("persisted artifact is corrupt")
	ErrEmptyLedger     = errors.New("ledger contains no resolved matches")
	ErrNotFound        = errors.New("record not found")
)
