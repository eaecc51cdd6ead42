package AI

import (
	"bytes"
	"context"
	"io"
	"log"

	openai "github.com/sashabaranov/go-openai"
)

// Transcribe turns a recorded voice message into text. Returns the canned
// transcription fallback when the vendor is unconfigured or failing.
func (c *Client) Transcribe(ctx context.Context, audio []byte, filename string) string {
	if !c.enabled {
		return TranscriptionFallback
	}

	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		Reader:   bytes.NewReader(audio),
		FilePath: filename,
	})
	if err != nil {
		log.Printf("Transcription failed: %v", err)
		return TranscriptionFallback
	}
	return resp.Text
}

// Synthesize voices a reply. A nil return means no audio attachment; the
// caller just sends the text reply on its own.
func (c *Client) Synthesize(ctx context.Context, text string) []byte {
	if !c.enabled {
		return nil
	}

	resp, err := c.api.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: openai.TTSModel1,
		Input: text,
		Voice: openai.VoiceNova,
	})
	if err != nil {
		log.Printf("Speech synthesis failed, skipping audio attachment: %v", err)
		return nil
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		log.Printf("Speech synthesis read failed, skipping audio attachment: %v", err)
		return nil
	}
	return audio
}
