// Package harness compiles a loosely-structured plan draft into a safe,
// deterministic execution harness: a checklist, a gated command list, and an
// auto-commit decision.
//
// Compilation is a pure, single-pass function. The same draft always
// produces an identical HarnessConfig, so callers may compile at any point
// without coordinating with each other.
package harness

import (
	"fmt"
	"strings"

	"github.com/mrz1836/taskmux/internal/constants"
	"github.com/mrz1836/taskmux/internal/domain"
)

// FallbackItemTitle is the single checklist item synthesized when filtering
// leaves an empty checklist.
const FallbackItemTitle = "Implement the plan"

// placeholderTitles are normalized checklist titles that carry no content.
// Items with these titles are dropped during checklist derivation.
var placeholderTitles = map[string]bool{ //nolint:gochecknoglobals // Read-only lookup table
	"todo":        true,
	"to do":       true,
	"tbd":         true,
	"tba":         true,
	"n/a":         true,
	"na":          true,
	"placeholder": true,
	"...":         true,
	"-":           true,
}

// Compile derives a HarnessConfig from a plan draft.
//
// Checklist derivation keeps draft items in order, trims their titles, and
// drops items whose normalized title is empty, a known placeholder, or a
// duplicate of an earlier surviving title. Survivors get sequential ids
// (item-1, item-2, ...) and start in the todo status. If nothing survives,
// a single fallback item is synthesized and UsedFallback is set.
//
// Gate commands that the safety classifier flags as destructive are dropped
// and DroppedUnsafeGates is set; the order of surviving gates is preserved.
//
// AutoCommit is enabled only when the draft was well-formed input: no
// fallback was needed and no gate had to be forcibly removed.
func Compile(draft domain.Draft) *domain.HarnessConfig {
	cfg := &domain.HarnessConfig{
		Checklist: deriveChecklist(draft.Checklist),
		Gates:     make([]domain.Gate, 0, len(draft.Gates)),
	}

	if len(cfg.Checklist) == 0 {
		cfg.Checklist = []domain.ChecklistItem{{
			ID:     "item-1",
			Title:  FallbackItemTitle,
			Status: constants.ChecklistStatusTodo,
		}}
		cfg.UsedFallback = true
	}

	for _, gate := range draft.Gates {
		command := strings.TrimSpace(gate.Command)
		if command == "" {
			continue
		}
		if IsUnsafeCommand(command) {
			cfg.DroppedUnsafeGates = true
			continue
		}
		cfg.Gates = append(cfg.Gates, domain.Gate{Command: command})
	}

	cfg.Loop.AutoCommit = !cfg.UsedFallback && !cfg.DroppedUnsafeGates
	return cfg
}

// deriveChecklist filters draft items and assigns sequential ids to the
// survivors in original order.
func deriveChecklist(items []domain.DraftItem) []domain.ChecklistItem {
	checklist := make([]domain.ChecklistItem, 0, len(items))
	seen := make(map[string]bool, len(items))

	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		normalized := normalizeTitle(title)
		if normalized == "" || placeholderTitles[normalized] || seen[normalized] {
			continue
		}
		seen[normalized] = true
		checklist = append(checklist, domain.ChecklistItem{
			ID:     fmt.Sprintf("item-%d", len(checklist)+1),
			Title:  title,
			Status: constants.ChecklistStatusTodo,
		})
	}

	return checklist
}

// normalizeTitle lowercases a title and collapses internal whitespace runs
// so duplicate detection is case- and whitespace-insensitive.
func normalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}
