package srs

// Params defines all configurable parameters for the SM-2 scheduler.
type Params struct {
	// MinEaseFactor is the floor the ease factor never drops below.
	// There is no ceiling: well-known items keep growing their intervals.
	MinEaseFactor float64

	// FirstInterval is the interval in days after the first successful
	// repetition, SecondInterval after the second. Later repetitions
	// multiply the previous interval by the ease factor.
	FirstInterval  int
	SecondInterval int

	// FailureInterval is the interval in days after a failed review.
	FailureInterval int
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance. Zero values keep the default.
type ParamsConfig struct {
	MinEaseFactor   float64
	FirstInterval   int
	SecondInterval  int
	FailureInterval int
}

// NewDefaultParams creates a new Params instance with the classic SM-2
// values.
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:   1.3,
		FirstInterval:   1,
		SecondInterval:  6,
		FailureInterval: 1,
	}
}

// NewParams creates a new Params instance with custom configuration.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}
	if config.FailureInterval > 0 {
		params.FailureInterval = config.FailureInterval
	}

	return params
}
