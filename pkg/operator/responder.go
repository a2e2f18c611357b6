package operator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Responder produces a reply for a conversation's message history. An
// empty reply means "nothing to send" and is not an error.
type Responder interface {
	Reply(ctx context.Context, conv *Conversation) (string, error)
}

// HTTPResponder calls an external responder service with the full
// message history and returns its reply text.
type HTTPResponder struct {
	url    string
	apiKey string
	client *http.Client
	log    *zap.Logger
}

// NewHTTPResponder builds a responder for the given endpoint.
func NewHTTPResponder(url, apiKey string, log *zap.Logger) *HTTPResponder {
	return &HTTPResponder{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: 30 * time.Second},
		log:    log,
	}
}

type responderRequest struct {
	Messages       []responderMessage `json:"messages"`
	ConversationID string             `json:"conversation_id"`
	Platform       string             `json:"platform"`
}

type responderMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responderResponse struct {
	Response string `json:"response"`
}

// Reply posts the conversation history and returns the service's reply.
func (r *HTTPResponder) Reply(ctx context.Context, conv *Conversation) (string, error) {
	payload := responderRequest{
		Messages:       make([]responderMessage, 0, len(conv.Messages)),
		ConversationID: conv.ID,
		Platform:       conv.Platform,
	}
	for _, msg := range conv.Messages {
		payload.Messages = append(payload.Messages, responderMessage{
			Role:    string(msg.Role),
			Content: msg.Text,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode responder request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build responder request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("responder request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("responder returned status %d", resp.StatusCode)
	}

	var decoded responderResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode responder response: %w", err)
	}

	r.log.Debug("responder replied", zap.Int("chars", len(decoded.Response)))
	return decoded.Response, nil
}

// EchoResponder is the fallback used when no responder service is
// configured. It acknowledges the last message so the pipeline can be
// exercised end to end without an external dependency.
type EchoResponder struct{}

// Reply returns a canned acknowledgement of the latest message.
func (EchoResponder) Reply(_ context.Context, conv *Conversation) (string, error) {
	if len(conv.Messages) == 0 {
		return "Hello! How can I help you?", nil
	}
	last := conv.Messages[len(conv.Messages)-1].Text
	if runes := []rune(last); len(runes) > 50 {
		last = string(runes[:50]) + "..."
	}
	return fmt.Sprintf("I received your message: %q", last), nil
}
