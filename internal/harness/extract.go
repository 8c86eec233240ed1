package harness

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/mrz1836/taskmux/internal/domain"
	"github.com/mrz1836/taskmux/internal/errors"
)

// fencedBlockRegex matches the first fenced code block in markdown text,
// with or without a language tag. The body is capture group 1.
var fencedBlockRegex = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*\\n(.*?)```")

// ExtractDraft parses a plan draft out of model-produced text.
//
// The text may be a raw JSON object or markdown that embeds the object in a
// fenced code block. The fenced block is tried first because models usually
// wrap JSON in one; the raw text is tried second so plain JSON responses
// still parse. Fails with ErrParse when neither attempt yields a valid
// draft object.
//
// ExtractDraft performs no filtering and has no side effects; feed the
// returned draft to Compile for checklist and gate vetting.
func ExtractDraft(text string) (domain.Draft, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return domain.Draft{}, errors.Wrap(errors.ErrParse, "empty draft text")
	}

	if match := fencedBlockRegex.FindStringSubmatch(trimmed); match != nil {
		if draft, err := parseDraftObject(match[1]); err == nil {
			return draft, nil
		}
	}

	draft, err := parseDraftObject(trimmed)
	if err != nil {
		return domain.Draft{}, errors.Wrap(errors.ErrParse, "no JSON draft object found")
	}
	return draft, nil
}

// parseDraftObject unmarshals a draft from the first {...} span in text.
func parseDraftObject(text string) (domain.Draft, error) {
	trimmed := strings.TrimSpace(text)

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end <= start {
		return domain.Draft{}, errors.Wrap(errors.ErrParse, "no object delimiters")
	}

	var draft domain.Draft
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &draft); err != nil {
		return domain.Draft{}, errors.Wrap(errors.ErrParse, err.Error())
	}
	return draft, nil
}
