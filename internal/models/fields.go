package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lexledger/lexledger-api/internal/formtext"
)

// StringList is a list-valued catalog field (features, requirements and the
// bundle marketing lists). It persists as a JSONB array and accepts either a
// JSON array or the comma-separated text authored in the admin form.
type StringList []string

// UnmarshalJSON accepts ["a","b"] or "a, b". Tokens are trimmed and empty
// tokens dropped in both forms, so the stored value is always canonical.
func (l *StringList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = nil
		return nil
	}

	var items []string
	if err := json.Unmarshal(data, &items); err == nil {
		cleaned := make([]string, 0, len(items))
		for _, item := range items {
			trimmed := strings.TrimSpace(item)
			if trimmed != "" {
				cleaned = append(cleaned, trimmed)
			}
		}
		*l = cleaned
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("list field must be an array of strings or a comma-separated string")
	}
	*l = formtext.SplitList(text)
	return nil
}

// MarshalJSON always emits the structured array form.
func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// Text renders the canonical comma-separated form for the edit UI.
func (l StringList) Text() string {
	return formtext.JoinList(l)
}

// Value implements driver.Valuer, storing the list as a JSONB array.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// Scan implements sql.Scanner for JSONB columns.
func (l *StringList) Scan(src interface{}) error {
	return scanJSON(src, l, "string list")
}

// FAQList is the ordered FAQ field of a service. It persists as a JSONB
// array and accepts either structured entries or the "Q:/A:" text block
// authored in the admin form.
type FAQList []formtext.FAQ

// UnmarshalJSON accepts [{"question":...,"answer":...}] or a "Q:/A:" block.
// Entries are trimmed; entries missing either side are dropped, mirroring
// the transcoder's leniency.
func (l *FAQList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = nil
		return nil
	}

	var entries []formtext.FAQ
	if err := json.Unmarshal(data, &entries); err == nil {
		cleaned := make([]formtext.FAQ, 0, len(entries))
		for _, entry := range entries {
			entry.Question = strings.TrimSpace(entry.Question)
			entry.Answer = strings.TrimSpace(entry.Answer)
			if entry.Question != "" && entry.Answer != "" {
				cleaned = append(cleaned, entry)
			}
		}
		*l = cleaned
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("faq field must be an array of question/answer pairs or a Q:/A: text block")
	}
	*l = ParseFAQText(text)
	return nil
}

// MarshalJSON always emits the structured array form.
func (l FAQList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]formtext.FAQ(l))
}

// Text renders the "Q:/A:" block form for the edit UI.
func (l FAQList) Text() string {
	return formtext.FormatFAQ(l)
}

// Value implements driver.Valuer, storing the entries as a JSONB array.
func (l FAQList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]formtext.FAQ(l))
}

// Scan implements sql.Scanner for JSONB columns.
func (l *FAQList) Scan(src interface{}) error {
	return scanJSON(src, l, "faq list")
}

// ParseFAQText converts an authored FAQ block into a FAQList.
func ParseFAQText(text string) FAQList {
	return FAQList(formtext.ParseFAQ(text))
}

func scanJSON(src, dest interface{}, what string) error {
	switch raw := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(raw, dest)
	case string:
		return json.Unmarshal([]byte(raw), dest)
	default:
		return fmt.Errorf("unsupported %s column type %T", what, src)
	}
}
