package srs

// Grade is a learner-supplied difficulty rating for a single review,
// on the classic SM-2 scale: 0 (complete blackout) to 5 (perfect recall).
type Grade int

// Grade scale bounds and the boundary between failure and success.
const (
	MinGrade Grade = 0
	MaxGrade Grade = 5
)

// Params defines all configurable parameters for the SM-2 scheduler.
type Params struct {
	// MinEaseFactor is the floor applied after every ease-factor update.
	MinEaseFactor float64

	// PassThreshold is the lowest grade counted as a successful recall.
	// Grades below it reset the repetition streak.
	PassThreshold Grade

	// FirstInterval is the interval in days after the first successful repetition.
	FirstInterval int

	// SecondInterval is the interval in days after the second successful repetition.
	SecondInterval int

	// RelearnInterval is the short interval in days assigned after a failed grade.
	RelearnInterval int

	// MaxInterval caps interval growth, in days.
	MaxInterval int
}

// NewDefaultParams creates a new Params instance with the standard SM-2 values.
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:   1.3,
		PassThreshold:   3,
		FirstInterval:   1,
		SecondInterval:  6,
		RelearnInterval: 1,
		MaxInterval:     365,
	}
}

// ParamsConfig allows overriding the defaults when creating a Params instance.
// Zero values leave the corresponding default untouched.
type ParamsConfig struct {
	MinEaseFactor   float64
	PassThreshold   Grade
	FirstInterval   int
	SecondInterval  int
	RelearnInterval int
	MaxInterval     int
}

// NewParams creates a new Params instance with custom configuration.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.PassThreshold > 0 {
		params.PassThreshold = config.PassThreshold
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}
	if config.RelearnInterval > 0 {
		params.RelearnInterval = config.RelearnInterval
	}
	if config.MaxInterval > 0 {
		params.MaxInterval = config.MaxInterval
	}

	return params
}
