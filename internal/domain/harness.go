package domain

import "github.com/mrz1836/taskmux/internal/constants"

// Draft is the loosely-structured plan produced upstream that the harness
// compiler turns into an executable configuration. Both fields are optional;
// an empty draft compiles to the fallback harness.
type Draft struct {
	// Checklist holds the proposed work items in plan order.
	Checklist []DraftItem `json:"checklist,omitempty" yaml:"checklist,omitempty"`

	// Gates holds the proposed gate commands in plan order.
	Gates []DraftGate `json:"gates,omitempty" yaml:"gates,omitempty"`
}

// DraftItem is one unvetted checklist entry from a plan draft.
type DraftItem struct {
	// Title is the raw item text; may be blank, placeholder, or duplicated.
	Title string `json:"title" yaml:"title"`
}

// DraftGate is one unvetted gate command from a plan draft.
type DraftGate struct {
	// Command is the raw shell command; may be unsafe.
	Command string `json:"command" yaml:"command"`
}

// HarnessConfig is the derived, safety-filtered configuration that drives an
// automated execution loop. Immutable once produced by the compiler.
//
// Example JSON representation:
//
//	{
//	    "checklist": [{"id": "item-1", "title": "Add schema", "status": "todo"}],
//	    "gates": [{"command": "make typecheck"}],
//	    "loop": {"auto_commit": true},
//	    "used_fallback": false,
//	    "dropped_unsafe_gates": false
//	}
type HarnessConfig struct {
	// Checklist is the ordered, deduplicated list of vetted work items.
	// Item ids are stable and sequential (item-1, item-2, ...) in input
	// order after filtering.
	Checklist []ChecklistItem `json:"checklist"`

	// Gates is the ordered list of commands vetted safe. A gate must
	// succeed before the loop proceeds to the next checklist item.
	Gates []Gate `json:"gates"`

	// Loop configures the automated execution loop.
	Loop LoopConfig `json:"loop"`

	// UsedFallback is true when filtering left zero checklist items and a
	// single generic item was synthesized instead.
	UsedFallback bool `json:"used_fallback"`

	// DroppedUnsafeGates is true when at least one gate command was removed
	// by the safety filter.
	DroppedUnsafeGates bool `json:"dropped_unsafe_gates"`
}

// ChecklistItem is one vetted work item in a harness checklist.
type ChecklistItem struct {
	// ID is the stable sequential identifier (item-1, item-2, ...).
	ID string `json:"id"`

	// Title is the trimmed item text.
	Title string `json:"title"`

	// Status is the item's progress state, initially todo.
	Status constants.ChecklistStatus `json:"status"`
}

// Gate is one vetted gate command.
type Gate struct {
	// Command is the shell command that must succeed before the loop
	// advances.
	Command string `json:"command"`
}

// LoopConfig holds settings for the gated command loop.
type LoopConfig struct {
	// AutoCommit is true only when the draft was well-formed (no fallback)
	// and no gate was dropped for safety.
	AutoCommit bool `json:"auto_commit"`
}
