package VideoAvatar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
)

// Conversation identifies a vendor video session. Mock is a type-level fact,
// not a string convention: every short-circuit checks the flag, never the id.
// The mock- id prefix is kept only so clients can label demo sessions.
type Conversation struct {
	ID   string `json:"conversation_id"`
	URL  string `json:"conversation_url"`
	Mock bool   `json:"mock"`
}

// Client wraps the video-avatar vendor API. Any failure, including absent
// configuration, degrades to a locally-constructed mock conversation so the
// UI can proceed in demo mode.
type Client struct {
	apiKey    string
	baseURL   string
	replicaID string
	http      *http.Client
	enabled   bool
}

func NewClient() *Client {
	return newClient(
		os.Getenv("VIDEO_AVATAR_API_KEY"),
		os.Getenv("VIDEO_AVATAR_BASE_URL"),
		os.Getenv("VIDEO_AVATAR_REPLICA_ID"),
	)
}

func newClient(apiKey, baseURL, replicaID string) *Client {
	if baseURL == "" {
		baseURL = "https://tavusapi.com/v2"
	}
	if apiKey == "" {
		log.Println("VIDEO_AVATAR_API_KEY not set, video consultations run in mock mode")
	}
	return &Client{
		apiKey:    apiKey,
		baseURL:   baseURL,
		replicaID: replicaID,
		http:      &http.Client{Timeout: 15 * time.Second},
		enabled:   apiKey != "",
	}
}

// Enabled reports whether the vendor integration is configured.
func (c *Client) Enabled() bool {
	return c.enabled
}

func mockConversation() Conversation {
	id := "mock-" + uuid.NewString()
	return Conversation{
		ID:   id,
		URL:  "https://virtualdoc.local/demo/" + id,
		Mock: true,
	}
}

// CreateConversation asks the vendor to allocate a session. Never returns an
// error: failure substitutes a mock conversation.
func (c *Client) CreateConversation(ctx context.Context) Conversation {
	if !c.enabled {
		return mockConversation()
	}

	payload, _ := json.Marshal(map[string]string{
		"replica_id":        c.replicaID,
		"conversation_name": "VirtualDoc consultation",
	})
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/conversations", bytes.NewBuffer(payload))
	if err != nil {
		log.Printf("Video vendor request build failed, using mock session: %v", err)
		return mockConversation()
	}
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("x-api-key", c.apiKey)

	res, err := c.http.Do(req)
	if err != nil {
		log.Printf("Video vendor unreachable, using mock session: %v", err)
		return mockConversation()
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		log.Printf("Video vendor returned %d, using mock session", res.StatusCode)
		return mockConversation()
	}

	var output struct {
		ConversationID  string `json:"conversation_id"`
		ConversationURL string `json:"conversation_url"`
	}
	if err := json.NewDecoder(res.Body).Decode(&output); err != nil || output.ConversationID == "" {
		log.Printf("Video vendor response unreadable, using mock session: %v", err)
		return mockConversation()
	}

	return Conversation{ID: output.ConversationID, URL: output.ConversationURL}
}

// EndConversation terminates a vendor session. No-op for mock sessions.
func (c *Client) EndConversation(ctx context.Context, conversation Conversation) error {
	if conversation.Mock || !c.enabled {
		return nil
	}

	url := fmt.Sprintf("%s/conversations/%s/end", c.baseURL, conversation.ID)
	req, err := http.NewRequestWithContext(ctx, "POST", url, nil)
	if err != nil {
		return err
	}
	req.Header.Add("x-api-key", c.apiKey)

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		return fmt.Errorf("end conversation returned %d", res.StatusCode)
	}
	return nil
}

// SendContext pushes conversational context to the avatar. Fire-and-forget:
// errors are logged, never surfaced. No-op for mock sessions.
func (c *Client) SendContext(ctx context.Context, conversation Conversation, text string) {
	if conversation.Mock || !c.enabled {
		return
	}

	payload, _ := json.Marshal(map[string]string{"context": text})
	url := fmt.Sprintf("%s/conversations/%s", c.baseURL, conversation.ID)
	req, err := http.NewRequestWithContext(ctx, "PATCH", url, bytes.NewBuffer(payload))
	if err != nil {
		log.Printf("Video context request build failed: %v", err)
		return
	}
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("x-api-key", c.apiKey)

	res, err := c.http.Do(req)
	if err != nil {
		log.Printf("Video context update failed: %v", err)
		return
	}
	res.Body.Close()
}

// GetStatus fetches the vendor-side session status. Mock sessions always
// report active.
func (c *Client) GetStatus(ctx context.Context, conversation Conversation) (string, error) {
	if conversation.Mock || !c.enabled {
		return "active", nil
	}

	url := fmt.Sprintf("%s/conversations/%s", c.baseURL, conversation.ID)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Add("x-api-key", c.apiKey)

	res, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	var output struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(res.Body).Decode(&output); err != nil {
		return "", err
	}
	return output.Status, nil
}
