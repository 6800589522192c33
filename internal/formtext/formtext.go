// Package formtext converts between the plain-text field formats authored in
// the admin forms and the structured values persisted by the catalog store.
//
// Two formats exist: comma-separated lists ("GST Registration, PAN") and FAQ
// blocks where each line carries a "Q:" or "A:" prefix. Parsing is lenient on
// purpose: malformed input yields fewer entries, never an error. A question
// with no answer before the next "Q:" line (or end of input) is dropped, and
// lines matching neither prefix are ignored; multi-line answers are not
// supported.
package formtext

import "strings"

const (
	questionPrefix = "Q:"
	answerPrefix   = "A:"
)

// FAQ is one question/answer pair attached to a catalog record.
type FAQ struct {
	Question string `json:"question" db:"question"`
	Answer   string `json:"answer" db:"answer"`
}

// SplitList splits a comma-separated field into trimmed tokens, dropping
// tokens that are empty after trimming. Order and duplicates are preserved.
func SplitList(text string) []string {
	parts := strings.Split(text, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// JoinList renders tokens back into the canonical comma-separated form.
// This is the single serializer used everywhere a list field becomes text.
func JoinList(items []string) string {
	return strings.Join(items, ", ")
}

// ParseFAQ scans a text block for "Q:"/"A:" prefixed lines and returns the
// completed pairs in encounter order. A pair is emitted only when an answer
// line arrives while both accumulators are non-empty.
func ParseFAQ(text string) []FAQ {
	if text == "" {
		return []FAQ{}
	}

	entries := []FAQ{}
	var currentQuestion, currentAnswer string

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, questionPrefix) {
			currentQuestion = strings.TrimSpace(strings.TrimPrefix(line, questionPrefix))
		}
		if strings.HasPrefix(line, answerPrefix) {
			currentAnswer = strings.TrimSpace(strings.TrimPrefix(line, answerPrefix))
			if currentQuestion != "" && currentAnswer != "" {
				entries = append(entries, FAQ{Question: currentQuestion, Answer: currentAnswer})
				currentQuestion = ""
				currentAnswer = ""
			}
		}
	}

	return entries
}

// FormatFAQ renders pairs as "Q: ...\nA: ..." blocks separated by a blank
// line. ParseFAQ inverts this for entries whose text contains no newline and
// does not itself start with a "Q:" or "A:" prefix.
func FormatFAQ(entries []FAQ) string {
	if len(entries) == 0 {
		return ""
	}

	blocks := make([]string, 0, len(entries))
	for _, entry := range entries {
		blocks = append(blocks, questionPrefix+" "+entry.Question+"\n"+answerPrefix+" "+entry.Answer)
	}
	return strings.Join(blocks, "\n\n")
}
