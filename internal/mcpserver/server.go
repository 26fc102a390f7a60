package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"zonos-tts-mcp/internal/emotion"
	"zonos-tts-mcp/internal/speech"
	"zonos-tts-mcp/internal/tts"
)

// ToolName имя единственного инструмента сервера
const ToolName = "speak_response"

// Speaker выполняет озвучивание
type Speaker interface {
	Speak(ctx context.Context, req speech.Request) (string, error)
}

// SpeakParams входные параметры speak_response
type SpeakParams struct {
	Text     string `json:"text" jsonschema:"The text to speak aloud"`
	Language string `json:"language,omitempty" jsonschema:"Language code for synthesis"`
	Emotion  string `json:"emotion,omitempty" jsonschema:"Emotion of the voice"`
}

// New создает MCP сервер с инструментом speak_response
func New(speaker Speaker, version string, logger *zap.Logger) (*mcp.Server, error) {
	schema, err := speakSchema()
	if err != nil {
		return nil, fmt.Errorf("ошибка построения схемы %s: %w", ToolName, err)
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "zonos-tts-mcp",
		Title:   "Zonos Text-to-Speech",
		Version: version,
	}, nil)

	tool := &mcp.Tool{
		Name:        ToolName,
		Title:       "Speak response",
		Description: "Converts text to speech with the selected emotion and plays it on the local machine",
		InputSchema: schema,
		Annotations: &mcp.ToolAnnotations{
			Title:        "Speak response",
			ReadOnlyHint: false,
		},
	}

	mcp.AddTool(server, tool, func(ctx context.Context, _ *mcp.CallToolRequest, input SpeakParams) (*mcp.CallToolResult, any, error) {
		req, err := toRequest(input)
		if err != nil {
			logger.Warn("некорректные параметры вызова", zap.Error(err))
			return nil, nil, err
		}

		msg, err := speaker.Speak(ctx, req)
		if err != nil {
			return nil, nil, err
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: msg}},
		}, nil, nil
	})

	return server, nil
}

// Run обслуживает MCP через stdin/stdout до отмены контекста
func Run(ctx context.Context, server *mcp.Server) error {
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("ошибка MCP сервера: %w", err)
	}
	return nil
}

// toRequest применяет значения по умолчанию и проверяет эмоцию
func toRequest(input SpeakParams) (speech.Request, error) {
	req := speech.Request{
		Text:     input.Text,
		Language: input.Language,
		Emotion:  emotion.Neutral,
	}
	if req.Language == "" {
		req.Language = tts.DefaultLanguage
	}
	if input.Emotion != "" {
		label, err := emotion.ParseLabel(input.Emotion)
		if err != nil {
			return speech.Request{}, err
		}
		req.Emotion = label
	}
	return req, nil
}

// speakSchema дополняет выведенную схему перечислением эмоций и значениями по умолчанию
func speakSchema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[SpeakParams](nil)
	if err != nil {
		return nil, err
	}

	labels := emotion.Labels()
	enum := make([]any, 0, len(labels))
	for _, l := range labels {
		enum = append(enum, string(l))
	}

	if p, ok := schema.Properties["emotion"]; ok {
		p.Enum = enum
		p.Default = json.RawMessage(`"` + string(emotion.Neutral) + `"`)
	}
	if p, ok := schema.Properties["language"]; ok {
		p.Default = json.RawMessage(`"` + tts.DefaultLanguage + `"`)
	}

	return schema, nil
}
