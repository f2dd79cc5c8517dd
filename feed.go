// feed.go
package main

import (
	"os"
	"strings"
)

// The scout drops overnight headlines into a plain-text dump with a 3-line
// banner header. Lines shorter than minHeadlineLength are separator noise.
const (
	dumpHeaderLines   = 3
	minHeadlineLength = 20
	maxMenuHeadlines  = 5
)

const defaultTopic = "Life in the Northern Beaches"

// ReadNewsDump returns the dump body (header skipped) as background context
// for the editorial. A missing dump is not an error; the editorial simply
// runs without background material.
func ReadNewsDump(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	lines := strings.SplitAfter(string(data), "\n")
	if len(lines) > dumpHeaderLines {
		return strings.Join(lines[dumpHeaderLines:], "")
	}
	return string(data)
}

// DumpHeadlines lists candidate topics from the dump, newest first as the
// scout wrote them, capped for the menu.
func DumpHeadlines(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) > dumpHeaderLines {
		lines = lines[dumpHeaderLines:]
	}

	var headlines []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) > minHeadlineLength && !strings.HasPrefix(trimmed, "=") {
			headlines = append(headlines, trimmed)
		}
		if len(headlines) >= maxMenuHeadlines {
			break
		}
	}
	return headlines
}

// PickTopic resolves the editorial topic: an explicit override wins, then
// the freshest dump headline, then the standing default.
func PickTopic(override, dumpPath string) string {
	if strings.TrimSpace(override) != "" {
		return strings.TrimSpace(override)
	}
	if headlines := DumpHeadlines(dumpPath); len(headlines) > 0 {
		return headlines[0]
	}
	return defaultTopic
}
