package operator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleConversation() *Conversation {
	return &Conversation{
		ID:       "c42",
		Platform: "Test Chat",
		Messages: []Message{
			{Role: RolePeer, Text: "hi there"},
			{Role: RoleSelf, Text: "hello"},
		},
	}
}

func TestHTTPResponderRoundTrip(t *testing.T) {
	var captured responderRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_ = json.NewEncoder(w).Encode(responderResponse{Response: "nice to meet you"})
	}))
	defer server.Close()

	responder := NewHTTPResponder(server.URL, "secret", zap.NewNop())

	reply, err := responder.Reply(context.Background(), sampleConversation())
	require.NoError(t, err)
	assert.Equal(t, "nice to meet you", reply)

	assert.Equal(t, "c42", captured.ConversationID)
	assert.Equal(t, "Test Chat", captured.Platform)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "bot", captured.Messages[0].Role)
	assert.Equal(t, "hi there", captured.Messages[0].Content)
}

func TestHTTPResponderNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	responder := NewHTTPResponder(server.URL, "", zap.NewNop())

	_, err := responder.Reply(context.Background(), sampleConversation())
	assert.Error(t, err)
}

func TestEchoResponder(t *testing.T) {
	reply, err := EchoResponder{}.Reply(context.Background(), sampleConversation())
	require.NoError(t, err)
	assert.Contains(t, reply, "hello")

	reply, err = EchoResponder{}.Reply(context.Background(), &Conversation{})
	require.NoError(t, err)
	assert.NotEmpty(t, reply)
}

func TestEchoResponderTruncatesOnRuneBoundary(t *testing.T) {
	conv := &Conversation{Messages: []Message{
		{Role: RolePeer, Text: strings.Repeat("…", 60)},
	}}

	reply, err := EchoResponder{}.Reply(context.Background(), conv)
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(reply))
	assert.Contains(t, reply, strings.Repeat("…", 50)+"...")
}

func TestConversationHistoryText(t *testing.T) {
	assert.Equal(t, "bot: hi there\nuser: hello", sampleConversation().HistoryText())
	assert.Empty(t, (&Conversation{}).HistoryText())
}
