package tts

import (
	"errors"
	"fmt"
)

// ErrSynthesis общий признак ошибки синтеза
var ErrSynthesis = errors.New("ошибка синтеза речи")

// SynthesisError описывает сбой сети или неуспешный HTTP статус.
// StatusCode равен 0, если ответ не был получен.
type SynthesisError struct {
	StatusCode int
	Detail     string
	Err        error
}

func (e *SynthesisError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%v: %v", ErrSynthesis, e.Err)
	}
	if e.Detail != "" {
		return fmt.Sprintf("%v: сервис вернул статус %d: %s", ErrSynthesis, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%v: сервис вернул статус %d", ErrSynthesis, e.StatusCode)
}

func (e *SynthesisError) Unwrap() error {
	return e.Err
}

func (e *SynthesisError) Is(target error) bool {
	return target == ErrSynthesis
}
