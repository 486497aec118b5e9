package training

import "fmt"

// InfoMessage is the computed summary of one session.
type InfoMessage struct {
	TrainingType string  `json:"training_type"`
	Duration     float64 `json:"duration"`
	Distance     float64 `json:"distance"`
	Speed        float64 `json:"speed"`
	Calories     float64 `json:"calories"`
}

// Message renders the summary as a single report line.
func (m InfoMessage) Message() string {
	return fmt.Sprintf("Training type: %s; Duration: %.3f h; Distance: %.3f km; Avg speed: %.3f km/h; Calories burned: %.3f.",
		m.TrainingType, m.Duration, m.Distance, m.Speed, m.Calories)
}

// Report builds the session described by a package and renders its summary.
func Report(p Package) (InfoMessage, string, error) {
	s, err := p.Read()
	if err != nil {
		return InfoMessage{}, "", err
	}
	info := s.Info()
	return info, info.Message(), nil
}
