package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{"empty", "", 10, ""},
		{"short string", "hello", 10, "hello"},
		{"exact length", "hello", 5, "hello"},
		{"needs truncation", "hello world", 8, "hello..."},
		{"very short max", "hello", 3, "hel"},
		{"zero max", "hello", 0, "hello"},
		{"multibyte", "Design & Prototyping ✓✓", 8, "Desig..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Truncate(tt.input, tt.maxLen))
		})
	}
}

func TestPanel(t *testing.T) {
	t.Run("basic panel", func(t *testing.T) {
		result := NewPanel("Title", "Content").Render()
		assert.Contains(t, result, "Title")
		assert.Contains(t, result, "Content")
	})

	t.Run("panel without title", func(t *testing.T) {
		result := NewPanel("", "Content only").Render()
		assert.Contains(t, result, "Content only")
	})

	t.Run("panel with width", func(t *testing.T) {
		panel := NewPanel("Info", "Details").WithWidth(40)
		assert.Equal(t, 40, panel.Width)
		assert.Contains(t, panel.Render(), "Details")
	})
}

func TestRenderPageHeader(t *testing.T) {
	var buf bytes.Buffer
	RenderPageHeader(&buf, "Personas", "9 built-in")
	assert.Contains(t, buf.String(), "Personas")
	assert.Contains(t, buf.String(), "9 built-in")

	buf.Reset()
	RenderPageHeader(&buf, "Personas", "")
	assert.Equal(t, 3, strings.Count(buf.String(), "\n"), "bordered title only")
}

func TestFormatAge(t *testing.T) {
	assert.Equal(t, "moments", FormatAge(10*time.Second))
	assert.Equal(t, "5m", FormatAge(5*time.Minute))
	assert.Equal(t, "3h", FormatAge(3*time.Hour))
	assert.Equal(t, "4d", FormatAge(96*time.Hour))
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "0h", FormatHours(0))
	assert.Equal(t, "2.5h", FormatHours(2.5))
	assert.Equal(t, "16h", FormatHours(16))
}
