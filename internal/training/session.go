package training

import (
	"fmt"
	"math"
)

const (
	lenStep         = 0.65
	swimmingLenStep = 1.38
	mInKm           = 1000
	minInH          = 60

	runningCaloriesMeanSpeedMultiplier = 18
	runningCaloriesMeanSpeedShift      = 20

	walkingCaloriesWeightMultiplier = 0.035
	walkingSpeedHeightMultiplier    = 0.029

	swimmingCaloriesMeanSpeedShift   = 1.1
	swimmingCaloriesWeightMultiplier = 2
)

// Session holds the sensor data of one workout. Fields that do not apply to
// the session's Kind are zero. Build sessions with NewRunning, NewWalking,
// NewSwimming or ReadPackage; the zero Session has no Kind and is not usable.
type Session struct {
	Kind     Kind
	Action   int     // steps or strokes
	Duration float64 // hours
	Weight   float64 // kg

	Height float64 // cm, walking only

	LengthPool float64 // m, swimming only
	CountPool  int     // laps, swimming only
}

// NewRunning builds a running session.
func NewRunning(action int, duration, weight float64) (Session, error) {
	s := Session{Kind: KindRunning, Action: action, Duration: duration, Weight: weight}
	if err := s.validate(); err != nil {
		return Session{}, err
	}
	return s, nil
}

// NewWalking builds a sports walking session. height is in centimetres.
func NewWalking(action int, duration, weight, height float64) (Session, error) {
	s := Session{Kind: KindWalking, Action: action, Duration: duration, Weight: weight, Height: height}
	if err := s.validate(); err != nil {
		return Session{}, err
	}
	return s, nil
}

// NewSwimming builds a swimming session. lengthPool is in metres, countPool
// is the number of laps swum.
func NewSwimming(action int, duration, weight, lengthPool float64, countPool int) (Session, error) {
	s := Session{
		Kind:       KindSwimming,
		Action:     action,
		Duration:   duration,
		Weight:     weight,
		LengthPool: lengthPool,
		CountPool:  countPool,
	}
	if err := s.validate(); err != nil {
		return Session{}, err
	}
	return s, nil
}

func (s Session) validate() error {
	if s.Duration == 0 {
		return fmt.Errorf("%w: duration is zero", ErrDivisionByZero)
	}
	if s.Kind == KindWalking && s.Height == 0 {
		return fmt.Errorf("%w: height is zero", ErrDivisionByZero)
	}
	if s.Action < 0 {
		return fmt.Errorf("%w: action %d is negative", ErrInvalidParameters, s.Action)
	}
	if s.CountPool < 0 {
		return fmt.Errorf("%w: count_pool %d is negative", ErrInvalidParameters, s.CountPool)
	}
	for name, v := range map[string]float64{
		"duration":    s.Duration,
		"weight":      s.Weight,
		"height":      s.Height,
		"length_pool": s.LengthPool,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %s %v", ErrInvalidParameters, name, v)
		}
	}
	return nil
}

// Distance returns the distance covered, in km.
func (s Session) Distance() float64 {
	return float64(s.Action) * s.Kind.StepLength() / mInKm
}

// MeanSpeed returns the average speed, in km/h. Swimming speed comes from the
// pool length and lap count and ignores Action.
func (s Session) MeanSpeed() float64 {
	if s.Kind == KindSwimming {
		return s.LengthPool * float64(s.CountPool) / mInKm / s.Duration
	}
	return s.Distance() / s.Duration
}

// SpentCalories returns the energy spent during the session, in kcal.
func (s Session) SpentCalories() float64 {
	switch s.Kind {
	case KindRunning:
		return (runningCaloriesMeanSpeedMultiplier*s.MeanSpeed() - runningCaloriesMeanSpeedShift) *
			s.Weight / mInKm * s.Duration * minInH
	case KindWalking:
		return (walkingCaloriesWeightMultiplier*s.Weight +
			walkingSpeedTerm(s.MeanSpeed(), s.Height)*walkingSpeedHeightMultiplier*s.Weight) *
			s.Duration * minInH
	case KindSwimming:
		return (s.MeanSpeed() + swimmingCaloriesMeanSpeedShift) * swimmingCaloriesWeightMultiplier * s.Weight
	}
	panic(fmt.Sprintf("training: no calorie formula for %v", s.Kind))
}

// walkingSpeedTerm is speed² floor-divided by height. The floor is part of the
// published walking formula and changes results, so keep it.
func walkingSpeedTerm(speed, height float64) float64 {
	return floorDiv(speed*speed, height)
}

// floorDiv is floored float division computed from the remainder, so a
// quotient like 1/0.1 that rounds up to a whole number still floors to 9.
// math.Floor(a/b) would give 10 there. b must be non-zero.
func floorDiv(a, b float64) float64 {
	mod := math.Mod(a, b)
	div := (a - mod) / b
	if mod != 0 && (b < 0) != (mod < 0) {
		div--
	}
	if div == 0 {
		return math.Copysign(0, a/b)
	}
	fl := math.Floor(div)
	if div-fl > 0.5 {
		fl++
	}
	return fl
}

// Info snapshots the computed metrics of the session.
func (s Session) Info() InfoMessage {
	return InfoMessage{
		TrainingType: s.Kind.String(),
		Duration:     s.Duration,
		Distance:     s.Distance(),
		Speed:        s.MeanSpeed(),
		Calories:     s.SpentCalories(),
	}
}
