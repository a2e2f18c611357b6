package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chatpilot/chatpilot/pkg/operator"
)

// Exporter renders a harvested conversation to its on-disk artifacts: a
// markdown transcript and a JSON profile metadata file.
type Exporter struct {
	// Now is injectable so exports are reproducible in tests.
	Now func() time.Time
}

// NewExporter returns an exporter using wall-clock time.
func NewExporter() *Exporter {
	return &Exporter{Now: time.Now}
}

// ExportConversation writes the markdown transcript embedding profile
// fields, inlined picture references, and the ordered message list.
func (e *Exporter) ExportConversation(profile *Profile, messages []operator.Message, path string) error {
	content := e.buildMarkdown(profile, messages)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write transcript %s: %w", path, err)
	}
	return nil
}

// ExportProfile writes the profile metadata as indented JSON.
func (e *Exporter) ExportProfile(profile *Profile, path string) error {
	raw, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write profile %s: %w", path, err)
	}
	return nil
}

func (e *Exporter) buildMarkdown(profile *Profile, messages []operator.Message) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Conversation with %s\n\n", profile.Name)

	b.WriteString("## Profile Information\n\n")
	fmt.Fprintf(&b, "**Name:** %s\n", profile.Name)
	if profile.Age != "" {
		fmt.Fprintf(&b, "**Age:** %s\n", profile.Age)
	}
	if profile.Distance != "" {
		fmt.Fprintf(&b, "**Distance:** %s\n", profile.Distance)
	}
	if profile.Bio != "" {
		fmt.Fprintf(&b, "**Bio:** %s\n", profile.Bio)
	}

	if len(profile.Pictures) > 0 {
		b.WriteString("\n### Profile Pictures\n\n")
		for idx, pic := range profile.Pictures {
			fmt.Fprintf(&b, "![Profile Picture %d](%s)\n", idx+1, pic)
		}
	}

	fmt.Fprintf(&b, "\n**Exported:** %s\n", e.Now().Format(time.RFC3339))
	fmt.Fprintf(&b, "**Total Messages:** %d\n", len(messages))

	b.WriteString("\n---\n\n## Conversation\n\n")
	for _, msg := range messages {
		b.WriteString(formatMessage(msg))
		b.WriteString("\n")
	}

	return b.String()
}

func formatMessage(msg operator.Message) string {
	sender := "**Them**"
	if msg.Role == operator.RoleSelf {
		sender = "**You**"
	}

	header := sender
	if msg.Timestamp != "" {
		header = fmt.Sprintf("%s _%s_", sender, msg.Timestamp)
	}

	return fmt.Sprintf("%s\n> %s\n", header, msg.Text)
}
