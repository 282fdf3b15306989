package enums

// PendingReason explains why a house shows up on the pending report.
type PendingReason string

const (
	PendingReasonMissingStreet      PendingReason = "missing_street"
	PendingReasonMissingHouseNumber PendingReason = "missing_house_number"
	PendingReasonMissingResponsible PendingReason = "missing_responsible"
)

// String implements fmt.Stringer.
func (p PendingReason) String() string {
	return string(p)
}
