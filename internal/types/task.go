package types

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// SourceKind identifies which domain a virtual task was derived from.
type SourceKind string

// Source kinds, in projection order
const (
	SourceManual   SourceKind = "manual"
	SourceLearning SourceKind = "learning"
	SourceContent  SourceKind = "content"
	SourceProject  SourceKind = "project"
)

// SourceKinds lists every kind in the order the projector emits them.
var SourceKinds = []SourceKind{SourceManual, SourceLearning, SourceContent, SourceProject}

// Valid reports whether k is a known source kind.
func (k SourceKind) Valid() bool {
	switch k {
	case SourceManual, SourceLearning, SourceContent, SourceProject:
		return true
	}
	return false
}

// VirtualTask is a recomputed-on-read unit of work. It is never stored.
type VirtualTask struct {
	Key        string     `json:"key"`
	OccursOn   Date       `json:"occurs_on"`
	Label      string     `json:"label"`
	SourceKind SourceKind `json:"source_kind"`
	SourceID   *uuid.UUID `json:"source_id"`
	Completed  bool       `json:"completed"`
}

// TaskKey builds the stable key for a source row. Only project keys embed
// the date, since an active project yields a fresh instance every day.
func TaskKey(kind SourceKind, id uuid.UUID, date Date) string {
	if kind == SourceProject {
		return fmt.Sprintf("%s:%s:%s", kind, id, date)
	}
	return fmt.Sprintf("%s:%s", kind, id)
}

// ParsedKey is the decomposition of a task key.
type ParsedKey struct {
	Kind     SourceKind
	SourceID uuid.UUID
	Date     Date
}

// ParseTaskKey reconstructs the kind, source id and (for projects) date of a key.
func ParseTaskKey(key string) (ParsedKey, error) {
	parts := strings.Split(key, ":")
	if len(parts) < 2 {
		return ParsedKey{}, fmt.Errorf("malformed task key: %q", key)
	}
	kind := SourceKind(parts[0])
	if !kind.Valid() {
		return ParsedKey{}, fmt.Errorf("unknown source kind in task key: %q", key)
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return ParsedKey{}, fmt.Errorf("invalid source id in task key %q: %w", key, err)
	}
	parsed := ParsedKey{Kind: kind, SourceID: id}

	switch {
	case kind == SourceProject && len(parts) == 3:
		d, err := ParseDate(parts[2])
		if err != nil {
			return ParsedKey{}, fmt.Errorf("invalid date in task key %q: %w", key, err)
		}
		parsed.Date = d
	case kind == SourceProject:
		return ParsedKey{}, fmt.Errorf("project task key missing date: %q", key)
	case len(parts) != 2:
		return ParsedKey{}, fmt.Errorf("malformed task key: %q", key)
	}
	return parsed, nil
}

// SourceWarning reports that one source could not be read and was treated as empty.
type SourceWarning struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

// Projection is the task list for one day, annotated with completion state.
type Projection struct {
	Date          Date            `json:"date"`
	Tasks         []VirtualTask   `json:"tasks"`
	CompletedKeys []string        `json:"completed_keys"`
	Warnings      []SourceWarning `json:"warnings,omitempty"`
}

// Partial reports whether any source was degraded to empty.
func (p *Projection) Partial() bool {
	return len(p.Warnings) > 0
}
