// issue.go
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// issueVersion is the schema tag the presentation layer checks before
// rendering an issue.
const issueVersion = "12.0"

const (
	liveIssueFile      = "current_issue.json"
	archiveIssuePrefix = "issue_"
)

// publishWeekday is the standing publication day. The dated archive copy is
// keyed by the next occurrence of this weekday; if the run happens on the
// day itself, that same day is used.
const publishWeekday = time.Wednesday

// Record is one finished section: the parsed field values plus the byline
// metadata the presentation layer renders around them. Records are never
// mutated after commissioning; the next run replaces them wholesale.
type Record struct {
	Fields      map[string]string
	Author      string
	Category    string
	GeneratedAt string
	Image       string
	Degraded    bool
}

// Field reports a parsed value and whether it was present, so callers are
// forced to handle the missing case explicitly.
func (r Record) Field(name string) (string, bool) {
	v, ok := r.Fields[name]
	return v, ok
}

// MarshalJSON flattens the parsed fields and the metadata into one object,
// the shape the site reads. Degradation is only marked when present.
func (r Record) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(r.Fields)+5)
	for k, v := range r.Fields {
		flat[k] = v
	}
	if r.Author != "" {
		flat["author"] = r.Author
	}
	if r.Category != "" {
		flat["category"] = r.Category
	}
	if r.GeneratedAt != "" {
		flat["generated_at"] = r.GeneratedAt
	}
	if r.Image != "" {
		flat["image"] = r.Image
	}
	if r.Degraded {
		flat["degraded"] = true
	}
	return json.Marshal(flat)
}

// Meta identifies one published issue.
type Meta struct {
	Version     string `json:"version"`
	GeneratedAt string `json:"generated_at"`
}

// Issue is the full publication document. Section keys are stable across
// runs; a failed section appears degraded rather than missing.
type Issue struct {
	Meta       Meta     `json:"meta"`
	Editorial  Record   `json:"editorial"`
	Letters    []Record `json:"letters"`
	Arts       Record   `json:"arts"`
	PITD       Record   `json:"pitd"`
	Blotter    Record   `json:"blotter"`
	Ads        []Record `json:"ads"`
	Advice     Record   `json:"advice"`
	Horoscopes []Record `json:"horoscopes"`
	DeepDive   Record   `json:"deep_dive"`
}

// Sections collects every commissioned record for assembly, in the fixed
// order the issue presents them.
type Sections struct {
	Editorial  Record
	Letters    []Record
	Arts       Record
	PITD       Record
	Blotter    Record
	Ads        []Record
	Advice     Record
	Horoscopes []Record
	DeepDive   Record
}

// Assemble builds the publication document from the commissioned sections.
func Assemble(s Sections, now time.Time) *Issue {
	return &Issue{
		Meta: Meta{
			Version:     issueVersion,
			GeneratedAt: now.Format(time.RFC3339),
		},
		Editorial:  s.Editorial,
		Letters:    s.Letters,
		Arts:       s.Arts,
		PITD:       s.PITD,
		Blotter:    s.Blotter,
		Ads:        s.Ads,
		Advice:     s.Advice,
		Horoscopes: s.Horoscopes,
		DeepDive:   s.DeepDive,
	}
}

// Publish writes the issue to the live path, overwriting the previous issue,
// and drops an immutable dated copy alongside it. The archive filename is
// keyed by the next publication day so each weekly cycle gets exactly one
// collision-free record.
func Publish(issue *Issue, dataDir string, now time.Time) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	data, err := json.MarshalIndent(issue, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding issue: %w", err)
	}

	livePath := filepath.Join(dataDir, liveIssueFile)
	if err := os.WriteFile(livePath, data, 0644); err != nil {
		return fmt.Errorf("writing live issue: %w", err)
	}
	log.Printf("✓ Published live issue: %s", livePath)

	issueDate := nextPublishDate(now).Format("2006-01-02")
	archivePath := filepath.Join(dataDir, fmt.Sprintf("%s%s.json", archiveIssuePrefix, issueDate))
	if err := os.WriteFile(archivePath, data, 0644); err != nil {
		return fmt.Errorf("writing issue archive: %w", err)
	}
	log.Printf("✓ Archived issue as: %s", filepath.Base(archivePath))

	return nil
}

// nextPublishDate returns the next occurrence of the publication weekday,
// counting today as a hit when the run lands on it.
func nextPublishDate(now time.Time) time.Time {
	daysAhead := (int(publishWeekday) - int(now.Weekday()) + 7) % 7
	return now.AddDate(0, 0, daysAhead)
}
