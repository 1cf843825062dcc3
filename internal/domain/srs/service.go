package srs

import (
	"errors"
	"time"
)

// Common errors
var (
	// ErrInvalidQuality is returned when a quality grade falls outside the
	// documented 0-5 domain. Out-of-range grades are rejected rather than
	// clamped so that caller bugs surface instead of silently rescheduling.
	ErrInvalidQuality = errors.New("quality must be between 0 and 5")
)

// Service defines the interface for SM-2 scheduling operations.
type Service interface {
	// CalculateNext computes the next scheduling state for an item after a
	// review graded with the given quality, and the timestamp at which the
	// item becomes due again.
	CalculateNext(state ReviewState, quality Quality, now time.Time) (ReviewState, time.Time, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduler service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scheduler service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// CalculateNext implements the Service interface. The pure transition
// function has no failure mode of its own; the only error is an out-of-range
// quality grade.
func (s *defaultService) CalculateNext(
	state ReviewState,
	quality Quality,
	now time.Time,
) (ReviewState, time.Time, error) {
	if !quality.IsValid() {
		return ReviewState{}, time.Time{}, ErrInvalidQuality
	}

	next, due := nextState(state, quality, now, s.params)
	return next, due, nil
}
