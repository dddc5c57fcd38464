package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"fanarchive/pkg/fantia"
	"fanarchive/pkg/logger"
)

// Result reports what Write did with a post.
type Result int

const (
	// Created means the post was written to a new file.
	Created Result = iota
	// Skipped means the destination already existed and was left untouched.
	Skipped
)

const (
	// maxNameLen bounds sanitized path components, in runes, leaving
	// headroom for the extension within common filesystem limits.
	maxNameLen = 120

	separatorLine = "========================================"
)

var (
	invalidChars = regexp.MustCompile(`[\\/:*?"<>|]`)

	// Device names Windows reserves regardless of extension.
	reservedNames = map[string]bool{
		"CON": true, "PRN": true, "AUX": true, "NUL": true,
		"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
		"COM6": true, "COM7": true, "COM8": true, "COM9": true,
		"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
		"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
	}
)

// Writer archives extracted post text under a per-fanclub directory layout.
// Files are only ever created, never modified: an existing destination is
// the marker that the post was archived by an earlier run.
type Writer struct {
	rootDir string
	logger  logger.Logger
}

// NewWriter creates a writer rooted at rootDir, creating it if needed.
func NewWriter(rootDir string, log logger.Logger) (*Writer, error) {
	if log == nil {
		log = logger.GetLogger()
	}
	if err := os.MkdirAll(rootDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Writer{rootDir: rootDir, logger: log}, nil
}

// RootDir returns the root output directory.
func (w *Writer) RootDir() string {
	return w.rootDir
}

// Write persists a post's text under
// root/Sanitize(fanclub)/Sanitize(title).txt. If the destination already
// exists it returns Skipped and leaves the file untouched. Any filesystem
// failure is returned unwrapped in meaning: callers treat it as fatal.
func (w *Writer) Write(content *fantia.PostContent) (Result, error) {
	dir := filepath.Join(w.rootDir, Sanitize(content.FanclubName))
	path := filepath.Join(dir, Sanitize(content.Title)+".txt")

	if _, err := os.Stat(path); err == nil {
		w.logger.DebugWithFields("already archived, skipping", map[string]interface{}{
			"post_id": content.ID,
			"path":    path,
		})
		return Skipped, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create fanclub directory: %w", err)
	}

	data := renderPost(content)

	// Temp file plus rename keeps a killed run from leaving a truncated
	// archive behind.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return 0, fmt.Errorf("failed to write post file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("failed to finalize post file: %w", err)
	}

	w.logger.InfoWithFields("archived post", map[string]interface{}{
		"post_id": content.ID,
		"path":    path,
	})
	return Created, nil
}

// renderPost produces the archived file content: a small header followed by
// the body blocks separated by blank lines.
func renderPost(content *fantia.PostContent) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", content.Title)
	fmt.Fprintf(&b, "URL: %s\n", fantia.PostPageURL(content.ID))
	b.WriteString(separatorLine + "\n\n")
	b.WriteString(content.Body())
	return []byte(b.String())
}

// Sanitize makes a platform-supplied name safe to use as a single path
// component: forbidden characters become hyphens, control characters are
// dropped, the result is length-bounded and never empty.
func Sanitize(name string) string {
	s := invalidChars.ReplaceAllString(name, "-")

	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)

	s = strings.Trim(s, " .")

	if runes := []rune(s); len(runes) > maxNameLen {
		s = strings.TrimRight(string(runes[:maxNameLen]), " .")
	}

	if reservedNames[strings.ToUpper(s)] {
		s = "_" + s
	}

	if s == "" {
		return "untitled"
	}
	return s
}
