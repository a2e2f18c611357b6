package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chatpilot/chatpilot/pkg/browser"
	"github.com/chatpilot/chatpilot/pkg/platform"
)

func archiveSelectors() *platform.ArchiveSelectors {
	return &platform.ArchiveSelectors{
		ConversationItem: ".conv-item",
		ProfileName:      ".profile-name",
		ProfilePicture:   ".profile-photo",
		ProfileBio:       ".profile-bio",
		ProfileAge:       ".profile-age",
		MessageContainer: ".msg",
		ScrollContainer:  ".scroll",
	}
}

func TestExtractFullProfile(t *testing.T) {
	driver := newFakeDriver()
	driver.elements[".profile-name"] = []browser.Element{&fakeElement{text: "  Alex  "}}
	driver.elements[".profile-bio"] = []browser.Element{&fakeElement{text: "Likes hiking"}}
	driver.elements[".profile-age"] = []browser.Element{&fakeElement{text: "29"}}

	p := NewProfileExtractor(driver, archiveSelectors(), zap.NewNop())
	p.WaitTimeout = 0

	profile, err := p.Extract()
	require.NoError(t, err)
	assert.Equal(t, "Alex", profile.Name)
	assert.Equal(t, "Likes hiking", profile.Bio)
	assert.Equal(t, "29", profile.Age)
	assert.Empty(t, profile.Distance)
}

func TestExtractMissingNameIsError(t *testing.T) {
	driver := newFakeDriver()
	driver.elements[".profile-bio"] = []browser.Element{&fakeElement{text: "present"}}

	p := NewProfileExtractor(driver, archiveSelectors(), zap.NewNop())
	p.WaitTimeout = 0

	_, err := p.Extract()
	assert.Error(t, err)
}

func TestExtractMissingOptionalFieldsAreAbsent(t *testing.T) {
	driver := newFakeDriver()
	driver.elements[".profile-name"] = []browser.Element{&fakeElement{text: "Sam"}}

	p := NewProfileExtractor(driver, archiveSelectors(), zap.NewNop())
	p.WaitTimeout = 0

	profile, err := p.Extract()
	require.NoError(t, err)
	assert.Equal(t, "Sam", profile.Name)
	assert.Empty(t, profile.Bio)
	assert.Empty(t, profile.Age)
}

func TestExtractTextFallsBackToValueAttribute(t *testing.T) {
	driver := newFakeDriver()
	driver.elements[".profile-name"] = []browser.Element{
		&fakeElement{text: "   ", attrs: map[string]string{"value": "Riley"}},
	}

	p := NewProfileExtractor(driver, archiveSelectors(), zap.NewNop())
	p.WaitTimeout = 0

	profile, err := p.Extract()
	require.NoError(t, err)
	assert.Equal(t, "Riley", profile.Name)
}
