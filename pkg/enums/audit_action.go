package enums

// AuditAction tags an audit entry with the mutation that produced it.
type AuditAction string

const (
	AuditActionCreateHouse      AuditAction = "create_house"
	AuditActionUpdateHouse      AuditAction = "update_house"
	AuditActionDeleteHouse      AuditAction = "delete_house"
	AuditActionSetResponsible   AuditAction = "set_responsible"
	AuditActionCreatePerson     AuditAction = "create_person"
	AuditActionUpdatePerson     AuditAction = "update_person"
	AuditActionGenerateInvoices AuditAction = "generate_invoices"
	AuditActionPayInvoice       AuditAction = "pay_invoice"
)

// String implements fmt.Stringer.
func (a AuditAction) String() string {
	return string(a)
}
