package AI

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Chidinma123456/AvaBuddie/Models"

	openai "github.com/sashabaranov/go-openai"
)

// Client wraps the text-generation vendor. Every chat-facing method is
// fail-soft: vendor errors are logged and replaced with a canned reply so the
// conversation keeps flowing (relationship mutations elsewhere do the
// opposite and always propagate).
type Client struct {
	api       *openai.Client
	chatModel string
	enabled   bool
}

// NewClient constructs the vendor client from the environment. An absent API
// key gates the whole integration into fallback mode.
func NewClient() *Client {
	apiKey := os.Getenv("OPENAI_API_KEY")
	model := os.Getenv("OPENAI_MODEL_CHAT")
	if model == "" {
		model = "gpt-4o-mini"
	}
	return newClient(apiKey, os.Getenv("OPENAI_BASE_URL"), model)
}

func newClient(apiKey, baseURL, model string) *Client {
	if apiKey == "" {
		log.Println("OPENAI_API_KEY not set, Dr. Ava replies degrade to fallback messages")
		return &Client{chatModel: model}
	}
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:       openai.NewClientWithConfig(config),
		chatModel: model,
		enabled:   true,
	}
}

// Enabled reports whether the vendor integration is configured.
func (c *Client) Enabled() bool {
	return c.enabled
}

// GenerateResponse produces Dr. Ava's reply for one user turn. The prompt is
// the fixed persona plus the serialized prior turns; one completion per turn,
// no streaming.
func (c *Client) GenerateResponse(ctx context.Context, userText string, history []Models.ChatMessage, hasImage, isVoice bool) string {
	if !c.enabled {
		return FallbackReply
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: SystemPrompt,
	})
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Sender == Models.SenderAI {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Text})
	}

	text := userText
	if hasImage {
		text = "[The patient attached an image.] " + text
	}
	if isVoice {
		text = "[Transcribed from a voice message.] " + text
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: text,
	})

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.chatModel,
		Messages:    messages,
		Temperature: 0.4,
	})
	if err != nil {
		log.Printf("Text generation failed, serving fallback: %v", err)
		return FallbackReply
	}
	if len(resp.Choices) == 0 {
		return FallbackReply
	}
	return resp.Choices[0].Message.Content
}

// AnalyzeImage sends inline image bytes to the vision endpoint and returns a
// text analysis. contentType may be empty; inline images that arrive without
// upload metadata get their MIME type sniffed from the payload.
func (c *Client) AnalyzeImage(ctx context.Context, imageBase64, contentType, userText string) string {
	if !c.enabled {
		return FallbackReply
	}

	if contentType == "" {
		contentType = DetectImageMIME(imageBase64)
	}
	if userText == "" {
		userText = "Please describe what you observe in this image and what a doctor should look at."
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: SystemPrompt,
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: userText},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: fmt.Sprintf("data:%s;base64,%s", contentType, imageBase64),
						},
					},
				},
			},
		},
		Temperature: 0.4,
	})
	if err != nil {
		log.Printf("Image analysis failed, serving fallback: %v", err)
		return FallbackReply
	}
	if len(resp.Choices) == 0 {
		return FallbackReply
	}
	return resp.Choices[0].Message.Content
}

// DetectImageMIME guesses the image type from the decoded base64 signature.
// Unrecognized payloads default to image/jpeg.
func DetectImageMIME(imageBase64 string) string {
	raw, err := base64.StdEncoding.DecodeString(firstChunk(imageBase64, 32))
	if err != nil || len(raw) < 4 {
		return "image/jpeg"
	}
	switch {
	case raw[0] == 0xFF && raw[1] == 0xD8 && raw[2] == 0xFF:
		return "image/jpeg"
	case raw[0] == 0x89 && raw[1] == 0x50 && raw[2] == 0x4E && raw[3] == 0x47:
		return "image/png"
	case strings.HasPrefix(string(raw), "GIF8"):
		return "image/gif"
	case len(raw) >= 12 && string(raw[0:4]) == "RIFF" && string(raw[8:12]) == "WEBP":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// firstChunk returns a prefix whose length is a multiple of four so it stays
// decodable on its own.
func firstChunk(s string, n int) string {
	if len(s) < n {
		n = len(s)
	}
	n -= n % 4
	return s[:n]
}
