// Package workflow classifies raw tracker state names into configured
// workflow categories (active, done, blocked, final).
package workflow

// Category is a named bucket of raw tracker states sharing flow
// semantics. Loaded from the workflow-state configuration document.
type Category struct {
	Name         string   `json:"name" yaml:"name"`
	States       []string `json:"states" yaml:"states"`
	IsActive     bool     `json:"is_active" yaml:"is_active"`
	IsCompleted  bool     `json:"is_completed" yaml:"is_completed"`
	IsBlocked    bool     `json:"is_blocked" yaml:"is_blocked"`
	IsFinal      bool     `json:"is_final" yaml:"is_final"`
	FlowPosition int      `json:"flow_position" yaml:"flow_position"`
	Weight       float64  `json:"weight" yaml:"weight"`

	// Color is a presentation hint carried through for report
	// assemblers; the engine never interprets it.
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
}
