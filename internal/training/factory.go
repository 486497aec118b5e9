package training

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrUnknownWorkoutType is returned for a type code outside RUN, WLK, SWM.
	ErrUnknownWorkoutType = errors.New("unknown workout type")
	// ErrArityMismatch is returned when a package carries the wrong number of values.
	ErrArityMismatch = errors.New("arity mismatch")
	// ErrInvalidParameters is returned for values a session cannot hold.
	ErrInvalidParameters = errors.New("invalid parameters")
	// ErrDivisionByZero is returned when duration (or walking height) is zero.
	ErrDivisionByZero = errors.New("division by zero")
)

// Package is one reading from the sensors: a type code followed by the
// variant's positional parameters.
type Package struct {
	Code string    `yaml:"type" json:"type"`
	Data []float64 `yaml:"data" json:"data"`
}

// SamplePackages returns the readings the tracker ships with.
func SamplePackages() []Package {
	return []Package{
		{Code: "SWM", Data: []float64{720, 1, 80, 25, 40}},
		{Code: "RUN", Data: []float64{15000, 1, 75}},
		{Code: "WLK", Data: []float64{9000, 1, 75, 180}},
	}
}

// packageReaders maps each kind to a constructor taking its exact parameter list.
var packageReaders = map[Kind]func(d []float64) (Session, error){
	KindRunning: func(d []float64) (Session, error) {
		action, err := count("action", d[0])
		if err != nil {
			return Session{}, err
		}
		return NewRunning(action, d[1], d[2])
	},
	KindWalking: func(d []float64) (Session, error) {
		action, err := count("action", d[0])
		if err != nil {
			return Session{}, err
		}
		return NewWalking(action, d[1], d[2], d[3])
	},
	KindSwimming: func(d []float64) (Session, error) {
		action, err := count("action", d[0])
		if err != nil {
			return Session{}, err
		}
		laps, err := count("count_pool", d[4])
		if err != nil {
			return Session{}, err
		}
		return NewSwimming(action, d[1], d[2], d[3], laps)
	},
}

// ReadPackage builds the session described by a type code and its data.
func ReadPackage(code string, data []float64) (Session, error) {
	kind, err := ParseCode(code)
	if err != nil {
		return Session{}, err
	}
	if len(data) != kind.Arity() {
		return Session{}, fmt.Errorf("%w: %s takes %d values, got %d",
			ErrArityMismatch, code, kind.Arity(), len(data))
	}
	s, err := packageReaders[kind](data)
	if err != nil {
		return Session{}, fmt.Errorf("%s: %w", code, err)
	}
	return s, nil
}

// Read is ReadPackage for a Package value.
func (p Package) Read() (Session, error) {
	return ReadPackage(p.Code, p.Data)
}

// count converts a sensor value that must be a whole number.
func count(name string, v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, fmt.Errorf("%w: %s must be a whole number, got %v", ErrInvalidParameters, name, v)
	}
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0, fmt.Errorf("%w: %s out of range: %v", ErrInvalidParameters, name, v)
	}
	return int(v), nil
}
