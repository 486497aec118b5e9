package training

import (
	"fmt"
	"strings"
)

// Kind identifies one of the supported workout variants.
type Kind int

const (
	KindRunning Kind = iota + 1
	KindWalking
	KindSwimming
)

// Kinds lists every supported variant in a stable order.
var Kinds = []Kind{KindRunning, KindWalking, KindSwimming}

// kindInfo is the per-variant constant table.
type kindInfo struct {
	code       string
	name       string
	arity      int
	stepLength float64 // metres per action
	params     []string
}

var commonParams = []string{"action", "duration", "weight"}

var kindTable = map[Kind]kindInfo{
	KindRunning: {
		code: "RUN", name: "Running", arity: 3, stepLength: lenStep,
		params: commonParams,
	},
	KindWalking: {
		code: "WLK", name: "SportsWalking", arity: 4, stepLength: lenStep,
		params: append(commonParams[:3:3], "height"),
	},
	KindSwimming: {
		code: "SWM", name: "Swimming", arity: 5, stepLength: swimmingLenStep,
		params: append(commonParams[:3:3], "length_pool", "count_pool"),
	},
}

// TypeInfo describes a workout type for API clients.
type TypeInfo struct {
	Code       string   `json:"type"`
	Name       string   `json:"training_type"`
	Arity      int      `json:"arity"`
	StepLength float64  `json:"step_length"`
	Params     []string `json:"params"`
}

// Catalog lists the supported workout types in Kinds order.
func Catalog() []TypeInfo {
	out := make([]TypeInfo, 0, len(Kinds))
	for _, k := range Kinds {
		info := kindTable[k]
		out = append(out, TypeInfo{
			Code:       info.code,
			Name:       info.name,
			Arity:      info.arity,
			StepLength: info.stepLength,
			Params:     append([]string(nil), info.params...),
		})
	}
	return out
}

// String returns the report label of the variant.
func (k Kind) String() string {
	if info, ok := kindTable[k]; ok {
		return info.name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Code returns the sensor type code ("RUN", "WLK", "SWM").
func (k Kind) Code() string {
	return kindTable[k].code
}

// Arity is the number of positional parameters a package of this kind carries.
func (k Kind) Arity() int {
	return kindTable[k].arity
}

// StepLength returns the distance covered per action, in metres.
func (k Kind) StepLength() float64 {
	return kindTable[k].stepLength
}

// ParseCode maps a sensor type code to its Kind. Lookup is exact: codes are
// upper case three-letter strings.
func ParseCode(code string) (Kind, error) {
	for _, k := range Kinds {
		if kindTable[k].code == code {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWorkoutType, code)
}

// NormalizeCode trims and upper-cases a raw type code read from a file or request.
func NormalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
