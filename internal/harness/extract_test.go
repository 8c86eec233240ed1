package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/taskmux/internal/domain"
	"github.com/mrz1836/taskmux/internal/errors"
)

func TestExtractDraftFencedBlock(t *testing.T) {
	t.Parallel()

	text := "Here is the plan:\n\n```json\n" +
		`{"checklist":[{"title":"Add schema"}],"gates":[{"command":"make test"}]}` +
		"\n```\n\nLet me know if it works."

	draft, err := ExtractDraft(text)
	require.NoError(t, err)
	require.Len(t, draft.Checklist, 1)
	assert.Equal(t, "Add schema", draft.Checklist[0].Title)
	require.Len(t, draft.Gates, 1)
	assert.Equal(t, "make test", draft.Gates[0].Command)
}

func TestExtractDraftFencedBlockWithoutLanguageTag(t *testing.T) {
	t.Parallel()

	text := "```\n{\"checklist\":[{\"title\":\"Update router\"}]}\n```"

	draft, err := ExtractDraft(text)
	require.NoError(t, err)
	require.Len(t, draft.Checklist, 1)
	assert.Equal(t, "Update router", draft.Checklist[0].Title)
}

func TestExtractDraftRawJSON(t *testing.T) {
	t.Parallel()

	draft, err := ExtractDraft(`{"checklist":[{"title":"Fix login"}]}`)
	require.NoError(t, err)
	require.Len(t, draft.Checklist, 1)
	assert.Equal(t, "Fix login", draft.Checklist[0].Title)
}

func TestExtractDraftJSONWithSurroundingProse(t *testing.T) {
	t.Parallel()

	text := `Sure! {"checklist":[{"title":"Fix login"}],"gates":[]} Hope that helps.`

	draft, err := ExtractDraft(text)
	require.NoError(t, err)
	require.Len(t, draft.Checklist, 1)
}

func TestExtractDraftFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
	}{
		{"empty text", ""},
		{"whitespace only", "   \n\t"},
		{"no json at all", "I could not produce a plan."},
		{"malformed json", `{"checklist": [}`},
		{"fenced block with invalid body and no raw object", "```json\nnot json\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ExtractDraft(tt.text)
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrParse)
		})
	}
}

func TestExtractDraftEmptyObject(t *testing.T) {
	t.Parallel()

	draft, err := ExtractDraft("{}")
	require.NoError(t, err)
	assert.Equal(t, domain.Draft{}, draft)
}

func TestExtractDraftInvalidFencedBodyFallsBackToRawText(t *testing.T) {
	t.Parallel()

	// The fenced body carries no object but the prose does; the raw-text
	// pass should still find it.
	text := "```json\nno object here\n```\n" +
		`{"checklist":[{"title":"Recover"}]}`

	draft, err := ExtractDraft(text)
	require.NoError(t, err)
	require.Len(t, draft.Checklist, 1)
	assert.Equal(t, "Recover", draft.Checklist[0].Title)
}
