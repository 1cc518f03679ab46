// Package attribution pulls plausible player names out of free-text event
// messages. It is heuristic: the source data has no roster, so a
// goal may attribute to zero, one, or several names, and a miss simply
// leaves the goal uncredited. The Extractor interface lets the heuristic
// be swapped without touching any score/state invariants.
package attribution

import (
	"regexp"
	"strings"
)

// Attribution is the best-effort read of one message.
type Attribution struct {
	// Scorer is the most plausible scorer name, empty when none was found.
	Scorer string
	// Assister is set only when an assist pattern was present.
	Assister string
	// Names lists every plausible name seen, scorer and assister included.
	Names []string
}

// Extractor turns free text into candidate names.
type Extractor interface {
	Extract(message string) Attribution
}

var (
	// "Sam to Alex": thrower to receiver.
	toPattern = regexp.MustCompile(`\b([A-Z][a-z]+)\s+to\s+([A-Z][a-z]+)\b`)
	// "Alex from Sam": receiver from thrower.
	fromPattern = regexp.MustCompile(`\b([A-Z][a-z]+)\s+from\s+([A-Z][a-z]+)\b`)
	// "goal by Alex", "score by Alex".
	byPattern = regexp.MustCompile(`(?i)\b(?:goal|score|point)\s+by\s+([A-Z][a-z]+)\b`)
	// "Alex scores", "Alex scored".
	scoresPattern = regexp.MustCompile(`\b([A-Z][a-z]+)\s+scor(?:es|ed)\b`)

	namePattern = regexp.MustCompile(`\b[A-Z][a-z]+\b`)
)

// Words that look like names in match narration but never are.
var stopwords = map[string]bool{
	"Goal": true, "Point": true, "Score": true, "Break": true, "Hold": true,
	"Half": true, "Halftime": true, "Timeout": true, "Game": true,
	"They": true, "Them": true, "Their": true, "Our": true, "Ours": true,
	"Nice": true, "Great": true, "Huge": true, "Big": true, "The": true,
	"And": true, "But": true, "With": true, "From": true, "After": true,
	"Block": true, "Steal": true, "Callahan": true, "Universe": true,
}

// NameExtractor is the default regex-based Extractor.
type NameExtractor struct{}

// New returns the default extractor.
func New() *NameExtractor {
	return &NameExtractor{}
}

// Extract never fails; an unparseable message yields an empty Attribution.
func (e *NameExtractor) Extract(message string) Attribution {
	var att Attribution
	if strings.TrimSpace(message) == "" {
		return att
	}

	if m := fromPattern.FindStringSubmatch(message); m != nil && usable(m[1]) && usable(m[2]) {
		att.Scorer, att.Assister = m[1], m[2]
	} else if m := toPattern.FindStringSubmatch(message); m != nil && usable(m[1]) && usable(m[2]) {
		att.Assister, att.Scorer = m[1], m[2]
	} else if m := byPattern.FindStringSubmatch(message); m != nil && usable(m[1]) {
		att.Scorer = m[1]
	} else if m := scoresPattern.FindStringSubmatch(message); m != nil && usable(m[1]) {
		att.Scorer = m[1]
	}

	seen := map[string]bool{}
	for _, raw := range namePattern.FindAllString(message, -1) {
		if !usable(raw) || seen[raw] {
			continue
		}
		seen[raw] = true
		att.Names = append(att.Names, raw)
	}

	// A lone recognizable name on a goal message is the scorer.
	if att.Scorer == "" && len(att.Names) == 1 {
		att.Scorer = att.Names[0]
	}
	return att
}

func usable(word string) bool {
	return !stopwords[word]
}
