package people

import "strings"

// NormalizePhone strips every non-digit character from a raw phone value.
// Returns nil when the input is nil or carries no digits. Both storage and
// lookup go through this so "(11) 98888-7777" and "11988887777" collide.
func NormalizePhone(raw *string) *string {
	if raw == nil {
		return nil
	}
	var b strings.Builder
	for _, r := range *raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return nil
	}
	digits := b.String()
	return &digits
}
