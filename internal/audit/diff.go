package audit

import "reflect"

// FieldChange records the before and after value of a single field.
type FieldChange struct {
	From any `json:"from"`
	To   any `json:"to"`
}

// Changes accumulates per-field diffs for an update summary.
type Changes map[string]FieldChange

// Track records a change for field when from and to differ. Pointer values
// are compared by pointee, so two distinct *string with equal contents do
// not produce a change.
func (c Changes) Track(field string, from, to any) {
	if reflect.DeepEqual(from, to) {
		return
	}
	c[field] = FieldChange{From: from, To: to}
}
