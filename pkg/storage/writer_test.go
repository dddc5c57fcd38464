package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fanarchive/pkg/fantia"
	"fanarchive/pkg/logger"
)

func testContent() *fantia.PostContent {
	return &fantia.PostContent{
		ID:          1001,
		Title:       "Chapter One",
		FanclubName: "Club (Author)",
		Blocks:      []string{"First section.", "Second section."},
	}
}

func TestWriterCreatesPostFile(t *testing.T) {
	root := t.TempDir()
	w, err := NewWriter(root, logger.NewTestLogger())
	require.NoError(t, err)

	result, err := w.Write(testContent())
	require.NoError(t, err)
	assert.Equal(t, Created, result)

	path := filepath.Join(root, "Club (Author)", "Chapter One.txt")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	want := "Title: Chapter One\n" +
		"URL: https://fantia.jp/posts/1001\n" +
		strings.Repeat("=", 40) + "\n\n" +
		"First section.\n\nSecond section."
	assert.Equal(t, want, string(data))
}

func TestWriterSkipsExistingFile(t *testing.T) {
	root := t.TempDir()
	w, err := NewWriter(root, logger.NewTestLogger())
	require.NoError(t, err)

	result, err := w.Write(testContent())
	require.NoError(t, err)
	require.Equal(t, Created, result)

	path := filepath.Join(root, "Club (Author)", "Chapter One.txt")
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	// A second write must leave the file untouched even if the content
	// changed upstream.
	changed := testContent()
	changed.Blocks = []string{"Revised text."}
	result, err = w.Write(changed)
	require.NoError(t, err)
	assert.Equal(t, Skipped, result)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestWriterSanitizesPathComponents(t *testing.T) {
	root := t.TempDir()
	w, err := NewWriter(root, logger.NewTestLogger())
	require.NoError(t, err)

	content := testContent()
	content.FanclubName = `Club: "Author"`
	content.Title = "What/If?"

	result, err := w.Write(content)
	require.NoError(t, err)
	assert.Equal(t, Created, result)

	path := filepath.Join(root, `Club- -Author-`, "What-If-.txt")
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestWriterCreatesRootDir(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "archive")
	_, err := NewWriter(root, logger.NewTestLogger())
	require.NoError(t, err)

	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestWriterLeavesNoTempFileBehind(t *testing.T) {
	root := t.TempDir()
	w, err := NewWriter(root, logger.NewTestLogger())
	require.NoError(t, err)

	_, err = w.Write(testContent())
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(root, "Club (Author)"))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), e.Name())
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Chapter One", "Chapter One"},
		{"forbidden chars", `a\b/c:d*e?f"g<h>i|j`, "a-b-c-d-e-f-g-h-i-j"},
		{"control chars dropped", "a\x00b\x1fc\x7fd", "abcd"},
		{"trailing dots and spaces", "title... ", "title"},
		{"reserved device name", "CON", "_CON"},
		{"reserved lowercase", "nul", "_nul"},
		{"empty", "", "untitled"},
		{"only forbidden", "???", "---"},
		{"unicode preserved", "物語 第1話", "物語 第1話"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestSanitizeBoundsLength(t *testing.T) {
	long := strings.Repeat("あ", 300)
	got := Sanitize(long)
	assert.Equal(t, 120, len([]rune(got)))

	// Truncation must not leave a trailing dot.
	dotted := strings.Repeat("a", 119) + ". tail"
	got = Sanitize(dotted)
	assert.False(t, strings.HasSuffix(got, "."))
	assert.False(t, strings.HasSuffix(got, " "))
	assert.LessOrEqual(t, len([]rune(got)), 120)
}
