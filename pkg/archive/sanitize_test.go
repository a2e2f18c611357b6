package archive

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain name untouched", "Alex", "Alex"},
		{"invalid characters replaced", `A<b>c:"d"`, "A_b_c__d_"},
		{"path separators replaced", `a/b\c`, "a_b_c"},
		{"trailing dots trimmed", "name...", "name"},
		{"surrounding spaces trimmed", "  name  ", "name"},
		{"empty becomes unknown", "", "unknown"},
		{"only invalid runes", "...", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeName(tt.in))
		})
	}
}

func TestSanitizeNameCapsLength(t *testing.T) {
	long := strings.Repeat("a", 250)
	assert.Len(t, SanitizeName(long), maxDirNameLength)
}

func TestSanitizeNameCapsOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("日", 150)
	got := SanitizeName(long)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("日", maxDirNameLength), got)
}
