package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type Engine struct {
	Model string

	cl *genai.Client
	m  *genai.GenerativeModel
}

// New creates one client for the whole process; Close releases it.
func New(ctx context.Context, apiKey, model string) (*Engine, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is empty")
	}
	model = strings.TrimSpace(model)
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}

	m := cl.GenerativeModel(model)
	if m == nil {
		cl.Close()
		return nil, fmt.Errorf("gemini: model is nil")
	}
	m.GenerationConfig = genai.GenerationConfig{
		Temperature: ptrFloat32(0),
	}

	return &Engine{Model: model, cl: cl, m: m}, nil
}

func (e *Engine) Name() string     { return "gemini" }
func (e *Engine) GetModel() string { return e.Model }

func (e *Engine) Close() error {
	if e.cl != nil {
		return e.cl.Close()
	}
	return nil
}

// Recognize sends the instruction and the image in one request. No retries:
// a failed call fails the caller immediately.
func (e *Engine) Recognize(ctx context.Context, image []byte, mime, instruction string) (string, error) {
	if len(image) == 0 {
		return "", errors.New("gemini: empty image")
	}
	parts := []genai.Part{
		genai.Text(instruction),
		&genai.Blob{MIMEType: mime, Data: image},
	}
	resp, err := e.m.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	return responseText(resp), nil
}

// responseText joins the text parts of the first candidate with content.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		var sb strings.Builder
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
		return strings.TrimSpace(sb.String())
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
