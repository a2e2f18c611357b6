package operator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chatpilot/chatpilot/pkg/browser"
	"github.com/chatpilot/chatpilot/pkg/platform"
)

func pollerConfig() *platform.Config {
	return &platform.Config{
		PlatformName: "Test Chat",
		URL:          "https://chat.example.com",
		Selectors: platform.Selectors{
			InputField:       "#input",
			SendButton:       "#send",
			OutgoingBubble:   ".out",
			ConversationList: ".conversation",
			UnreadIndicator:  ".unread-dot",
		},
		WaitTimeouts: platform.DefaultWaitTimeouts(),
	}
}

func entryWithUnread(id string) *fakeElement {
	return &fakeElement{
		attrs: map[string]string{"data-id": id},
		children: map[string][]browser.Element{
			".unread-dot": {&fakeElement{}},
		},
	}
}

func entryRead() *fakeElement {
	return &fakeElement{children: map[string][]browser.Element{}}
}

func TestPollerFindsUnreadEntries(t *testing.T) {
	driver := newFakeDriver()
	driver.elements[".conversation"] = []browser.Element{
		entryRead(),             // 0
		entryWithUnread("c1"),   // 1
		entryRead(),             // 2
		entryWithUnread("c3"),   // 3
		entryRead(),             // 4
	}

	sched := NewScheduler()
	poller := NewPoller(driver, pollerConfig(), sched, zap.NewNop())

	unread, err := poller.Poll()
	require.NoError(t, err)

	assert.Equal(t, []string{"c1", "c3"}, unread)
	assert.Equal(t, []string{"c1", "c3"}, sched.Snapshot())
}

func TestPollerFallsBackToPositionalID(t *testing.T) {
	driver := newFakeDriver()
	entry := entryWithUnread("")
	entry.attrs = nil
	driver.elements[".conversation"] = []browser.Element{entry}

	sched := NewScheduler()
	poller := NewPoller(driver, pollerConfig(), sched, zap.NewNop())

	unread, err := poller.Poll()
	require.NoError(t, err)
	assert.Equal(t, []string{"conv_0"}, unread)
}

type brokenEntry struct{ fakeElement }

func (b *brokenEntry) Query(string) (browser.Element, error) {
	return nil, errors.New("lookup exploded")
}

func TestPollerEntryFailureDoesNotAbortPoll(t *testing.T) {
	driver := newFakeDriver()
	driver.elements[".conversation"] = []browser.Element{
		&brokenEntry{},
		entryWithUnread("c1"),
	}

	sched := NewScheduler()
	poller := NewPoller(driver, pollerConfig(), sched, zap.NewNop())

	unread, err := poller.Poll()
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, unread)
}

func TestPollerEmptyList(t *testing.T) {
	driver := newFakeDriver()

	poller := NewPoller(driver, pollerConfig(), NewScheduler(), zap.NewNop())

	unread, err := poller.Poll()
	require.NoError(t, err)
	assert.Empty(t, unread)
}
