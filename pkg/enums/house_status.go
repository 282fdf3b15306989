package enums

import "fmt"

// HouseStatus tracks whether a house is currently billable.
type HouseStatus string

const (
	HouseStatusActive   HouseStatus = "active"
	HouseStatusInactive HouseStatus = "inactive"
	HouseStatusPending  HouseStatus = "pending"
)

var validHouseStatuses = []HouseStatus{
	HouseStatusActive,
	HouseStatusInactive,
	HouseStatusPending,
}

// String implements fmt.Stringer.
func (h HouseStatus) String() string {
	return string(h)
}

// IsValid reports whether the value is known.
func (h HouseStatus) IsValid() bool {
	for _, candidate := range validHouseStatuses {
		if candidate == h {
			return true
		}
	}
	return false
}

// ParseHouseStatus converts raw input into a HouseStatus.
func ParseHouseStatus(value string) (HouseStatus, error) {
	for _, candidate := range validHouseStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid house status %q", value)
}
