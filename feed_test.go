// feed_test.go
package main

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleDump = `=== OVERNIGHT NEWS DUMP ===
Generated by the scout
===========================
Council approves third roundabout on the same corner
short line
Local man claims seagull owes him money after chip incident
`

func writeDump(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "news_dump.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadNewsDump(t *testing.T) {
	t.Run("skips the banner header", func(t *testing.T) {
		got := ReadNewsDump(writeDump(t, sampleDump))
		if got == "" {
			t.Fatal("expected dump body")
		}
		if got[:7] != "Council" {
			t.Errorf("body starts with %q, header not skipped", got[:7])
		}
	})

	t.Run("missing file is not an error", func(t *testing.T) {
		if got := ReadNewsDump(filepath.Join(t.TempDir(), "absent.txt")); got != "" {
			t.Errorf("got %q, want empty", got)
		}
	})
}

func TestDumpHeadlines(t *testing.T) {
	got := DumpHeadlines(writeDump(t, sampleDump))

	want := []string{
		"Council approves third roundabout on the same corner",
		"Local man claims seagull owes him money after chip incident",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d headlines %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("headline %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPickTopic(t *testing.T) {
	dump := writeDump(t, sampleDump)

	tests := []struct {
		name     string
		override string
		dumpPath string
		want     string
	}{
		{
			name:     "override wins",
			override: "  The Jetty Crisis  ",
			dumpPath: dump,
			want:     "The Jetty Crisis",
		},
		{
			name:     "freshest headline",
			dumpPath: dump,
			want:     "Council approves third roundabout on the same corner",
		},
		{
			name:     "default when nothing else",
			dumpPath: filepath.Join(t.TempDir(), "absent.txt"),
			want:     defaultTopic,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PickTopic(tt.override, tt.dumpPath); got != tt.want {
				t.Errorf("PickTopic = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveImage(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		defaultTag string
		want       string
	}{
		{
			name:       "keyword hit",
			text:       "Chaos at the netball courts again",
			defaultTag: "news",
			want:       "Netball Post Detail.jpg",
		},
		{
			name:       "case insensitive",
			text:       "PARKING WARS CONTINUE",
			defaultTag: "news",
			want:       "Badly Parked 4WD.jpg",
		},
		{
			name:       "falls back to section tag",
			text:       "Nothing of note occurred",
			defaultTag: "mystic",
			want:       "Gemini Concept.jpg",
		},
		{
			name:       "unknown tag hits the absolute fallback",
			text:       "Nothing of note occurred",
			defaultTag: "no-such-tag",
			want:       fallbackAsset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveImage(tt.text, tt.defaultTag); got != tt.want {
				t.Errorf("ResolveImage = %q, want %q", got, tt.want)
			}
		})
	}
}
