package tts

import (
	"fmt"

	"zonos-tts-mcp/internal/emotion"
)

// Contract определяет форму запроса к сервису синтеза.
// Два контракта не взаимозаменяемы: выбирается тот, что развернут.
type Contract string

const (
	// ContractSpeech OpenAI-совместимый эндпоинт /v1/audio/speech
	ContractSpeech Contract = "speech"
	// ContractGenerate собственный эндпоинт /generate
	ContractGenerate Contract = "generate"
)

// ParseContract проверяет название контракта
func ParseContract(s string) (Contract, error) {
	switch c := Contract(s); c {
	case ContractSpeech, ContractGenerate:
		return c, nil
	default:
		return "", fmt.Errorf("неподдерживаемый контракт TTS: %s. Поддерживаются: 'speech', 'generate'", s)
	}
}

// SpeechRequest тело запроса для /v1/audio/speech
type SpeechRequest struct {
	Model          string         `json:"model"`
	Input          string         `json:"input"`
	Language       string         `json:"language"`
	Emotion        emotion.Vector `json:"emotion"`
	Speed          float64        `json:"speed"`
	ResponseFormat string         `json:"response_format"`
	TopP           float64        `json:"top_p"`
	MinP           float64        `json:"min_p"`
}

// GenerateRequest тело запроса для /generate
type GenerateRequest struct {
	ModelChoice       string         `json:"model_choice"`
	Text              string         `json:"text"`
	Language          string         `json:"language"`
	Emotion           emotion.Vector `json:"emotion"`
	VQScore           float64        `json:"vq_score"`
	FMax              float64        `json:"fmax"`
	PitchStd          float64        `json:"pitch_std"`
	SpeakingRate      float64        `json:"speaking_rate"`
	DNSMOSOverall     float64        `json:"dnsmos_ovrl"`
	CFGScale          float64        `json:"cfg_scale"`
	MinP              float64        `json:"min_p"`
	Seed              int            `json:"seed"`
	UnconditionalKeys []string       `json:"unconditional_keys"`
}

// Build собирает запрос. Текст не проверяется: пустую строку отклоняет сам сервис.
func (c Contract) Build(text, language string, v emotion.Vector) Request {
	if c == ContractGenerate {
		return Request{
			Path: "/generate",
			Body: &GenerateRequest{
				ModelChoice:       ModelID,
				Text:              text,
				Language:          language,
				Emotion:           v,
				VQScore:           0.78,
				FMax:              24000,
				PitchStd:          45,
				SpeakingRate:      15,
				DNSMOSOverall:     4,
				CFGScale:          2,
				MinP:              0.15,
				Seed:              420,
				UnconditionalKeys: []string{"emotion"},
			},
		}
	}

	return Request{
		Path: "/v1/audio/speech",
		Body: &SpeechRequest{
			Model:          ModelID,
			Input:          text,
			Language:       language,
			Emotion:        v,
			Speed:          1.0,
			ResponseFormat: "wav",
			TopP:           0.85,
			MinP:           0.25,
		},
	}
}
