package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadTargets reads the target list file: one fantia.jp URL per line.
// Blank lines, comment lines and lines for other hosts are ignored.
func LoadTargets(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open targets file: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.Contains(line, "fantia.jp") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read targets file: %w", err)
	}

	if len(urls) == 0 {
		return nil, fmt.Errorf("no valid fantia.jp URLs found in %s", path)
	}

	return urls, nil
}
