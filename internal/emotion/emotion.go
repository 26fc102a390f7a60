package emotion

import (
	"errors"
	"fmt"
)

// Label представляет эмоцию, которую выбирает вызывающая сторона
type Label string

const (
	Neutral Label = "neutral"
	Happy   Label = "happy"
	Sad     Label = "sad"
	Angry   Label = "angry"
)

// ErrUnknownLabel возвращается для эмоции вне допустимого набора
var ErrUnknownLabel = errors.New("неизвестная эмоция")

// Vector содержит интенсивности эмоций для сервиса синтеза.
// Компоненты независимы и не обязаны давать в сумме 1.
type Vector struct {
	Happiness float64 `json:"happiness"`
	Sadness   float64 `json:"sadness"`
	Anger     float64 `json:"anger"`
	Disgust   float64 `json:"disgust"`
	Fear      float64 `json:"fear"`
	Surprise  float64 `json:"surprise"`
	Other     float64 `json:"other"`
	Neutral   float64 `json:"neutral"`
}

// Labels возвращает все поддерживаемые эмоции
func Labels() []Label {
	return []Label{Neutral, Happy, Sad, Angry}
}

// ParseLabel проверяет строку и превращает ее в Label
func ParseLabel(s string) (Label, error) {
	switch l := Label(s); l {
	case Neutral, Happy, Sad, Angry:
		return l, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownLabel, s)
	}
}

// Lookup возвращает профиль интенсивностей для эмоции
func Lookup(l Label) Vector {
	switch l {
	case Neutral:
		return Vector{
			Happiness: 0.2,
			Sadness:   0.2,
			Anger:     0.2,
			Disgust:   0.05,
			Fear:      0.05,
			Surprise:  0.1,
			Other:     0.1,
			Neutral:   0.8,
		}
	case Happy:
		return Vector{
			Happiness: 1,
			Sadness:   0.05,
			Anger:     0.05,
			Disgust:   0.05,
			Fear:      0.05,
			Surprise:  0.2,
			Other:     0.1,
			Neutral:   0.2,
		}
	case Sad:
		return Vector{
			Happiness: 0.05,
			Sadness:   1,
			Anger:     0.05,
			Disgust:   0.2,
			Fear:      0.2,
			Surprise:  0.05,
			Other:     0.1,
			Neutral:   0.2,
		}
	case Angry:
		return Vector{
			Happiness: 0.05,
			Sadness:   0.2,
			Anger:     1,
			Disgust:   0.4,
			Fear:      0.2,
			Surprise:  0.2,
			Other:     0.1,
			Neutral:   0.1,
		}
	}
	// Label получают только через ParseLabel или константы
	panic(fmt.Sprintf("emotion: нет профиля для %q", string(l)))
}
