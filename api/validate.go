package api

import "github.com/diewo77/go-crm/validation"

// NewValidator returns the rule set for every input type in this package.
// Server handlers and client forms share it.
func NewValidator() *validation.Validator {
	v := validation.New()
	v.RegisterValuer(NullInt{}, NullFloat{}, DateTime{})
	v.RegisterEnum("user_role", Roles...)
	v.RegisterEnum("user_status", UserStatuses...)
	v.RegisterEnum("company_status", CompanyStatuses...)
	v.RegisterEnum("call_priority", CallPriorities...)
	v.RegisterEnum("call_status", CallStatuses...)
	v.RegisterEnum("appointment_status", AppointmentStatuses...)
	return v
}
