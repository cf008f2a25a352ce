// Package ocr turns announcement images into text via the Gemini API.
package ocr

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Recognizer extracts the text visible in one image. An empty result is
// valid: a well-formed image with no readable text is not an error.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte, mimeType string) (string, error)
}

const transcribePrompt = "Transcribe all text visible in this image, verbatim, " +
	"preserving line breaks. Most images contain Chinese competition announcements. " +
	"Output only the transcribed text with no commentary. " +
	"If the image contains no readable text, output nothing."

// GeminiRecognizer implements Recognizer on top of a Gemini vision model.
type GeminiRecognizer struct {
	client *genai.Client
	model  string
}

func NewGeminiRecognizer(ctx context.Context, apiKey, model string) (*GeminiRecognizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiRecognizer{client: client, model: model}, nil
}

func (r *GeminiRecognizer) Recognize(ctx context.Context, image []byte, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: image}},
				{Text: transcribePrompt},
			},
		},
	}

	resp, err := r.client.Models.GenerateContent(ctx, r.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}

	return resp.Text(), nil
}
