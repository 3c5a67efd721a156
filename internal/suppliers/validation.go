package suppliers

import (
	"strings"

	"github.com/mawrid/mawrid/internal/validation"
)

// Field names as they appear in forms and storage.
const (
	FieldCompanyName           = "company_name"
	FieldResponsiblePersonName = "responsible_person_name"
	FieldAddress               = "address"
	FieldMobile1               = "mobile_1"
	FieldMobile2               = "mobile_2"
	FieldEmail                 = "email"
)

// Human-readable reasons. They double as translation keys.
const (
	MsgCompanyNameRequired = "Company name is required"
	MsgPersonRequired      = "Responsible person name is required"
	MsgAddressRequired     = "Address is required"
	MsgMobile1Required     = "Primary mobile number is required"
	MsgMobile1Invalid      = "Invalid mobile number format (use 01x-xxxx-xxxx)"
	MsgMobile2Invalid      = "Invalid secondary mobile number format"
	MsgEmailInvalid        = "Invalid email address"
)

var requiredFields = []struct {
	field string
	msg   string
	get   func(Input) string
}{
	{FieldCompanyName, MsgCompanyNameRequired, func(in Input) string { return in.CompanyName }},
	{FieldResponsiblePersonName, MsgPersonRequired, func(in Input) string { return in.ResponsiblePersonName }},
	{FieldAddress, MsgAddressRequired, func(in Input) string { return in.Address }},
	{FieldMobile1, MsgMobile1Required, func(in Input) string { return in.Mobile1 }},
}

// Validate checks required fields in order and stops at the first missing
// one. Format checks run afterwards and accumulate.
func Validate(in Input) error {
	for _, rf := range requiredFields {
		if strings.TrimSpace(rf.get(in)) == "" {
			return &ValidationError{Errors: []FieldError{{Field: rf.field, Message: rf.msg}}}
		}
	}

	var errs []FieldError
	if !validation.IsValidPhone(in.Mobile1) {
		errs = append(errs, FieldError{Field: FieldMobile1, Message: MsgMobile1Invalid})
	}
	if m2 := strings.TrimSpace(in.Mobile2); m2 != "" && !validation.IsValidPhone(m2) {
		errs = append(errs, FieldError{Field: FieldMobile2, Message: MsgMobile2Invalid})
	}
	if email := strings.TrimSpace(in.Email); email != "" && !validation.IsValidEmail(email) {
		errs = append(errs, FieldError{Field: FieldEmail, Message: MsgEmailInvalid})
	}
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// Normalize trims text, stores phones in canonical national form and turns
// empty optional fields into nil.
func Normalize(in Input) Record {
	return Record{
		CompanyName:           strings.TrimSpace(in.CompanyName),
		ResponsiblePersonName: strings.TrimSpace(in.ResponsiblePersonName),
		Address:               strings.TrimSpace(in.Address),
		Mobile1:               CanonicalPhone(in.Mobile1),
		Mobile2:               optional(CanonicalPhone(in.Mobile2)),
		Email:                 optional(in.Email),
		Category:              optional(NormalizeCategory(in.Category)),
		City:                  optional(in.City),
	}
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
