package suppliers

import (
	"time"
)

// Supplier is a stored directory entry.
type Supplier struct {
	ID                    string    `json:"id"`
	CompanyName           string    `json:"company_name"`
	ResponsiblePersonName string    `json:"responsible_person_name"`
	Address               string    `json:"address"`
	Mobile1               string    `json:"mobile_1"`
	Mobile2               *string   `json:"mobile_2"`
	Email                 *string   `json:"email"`
	Category              *string   `json:"category"`
	City                  *string   `json:"city"`
	CreatedAt             time.Time `json:"created_at"`
}

// Input carries raw form values for create and update.
type Input struct {
	CompanyName           string
	ResponsiblePersonName string
	Address               string
	Mobile1               string
	Mobile2               string
	Email                 string
	Category              string
	City                  string
}

// Record is the normalized write payload. Nil pointers are sent as null.
type Record struct {
	CompanyName           string  `json:"company_name"`
	ResponsiblePersonName string  `json:"responsible_person_name"`
	Address               string  `json:"address"`
	Mobile1               string  `json:"mobile_1"`
	Mobile2               *string `json:"mobile_2"`
	Email                 *string `json:"email"`
	Category              *string `json:"category"`
	City                  *string `json:"city"`
}

// Value dereferences an optional field, returning "" when absent.
func Value(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Mobile2Value returns the secondary mobile or "".
func (s Supplier) Mobile2Value() string { return Value(s.Mobile2) }

// EmailValue returns the email or "".
func (s Supplier) EmailValue() string { return Value(s.Email) }

// CategoryValue returns the category key or "".
func (s Supplier) CategoryValue() string { return Value(s.Category) }

// CityValue returns the city or "".
func (s Supplier) CityValue() string { return Value(s.City) }

// InputFrom converts a stored supplier back into form values.
func InputFrom(s Supplier) Input {
	return Input{
		CompanyName:           s.CompanyName,
		ResponsiblePersonName: s.ResponsiblePersonName,
		Address:               s.Address,
		Mobile1:               s.Mobile1,
		Mobile2:               s.Mobile2Value(),
		Email:                 s.EmailValue(),
		Category:              s.CategoryValue(),
		City:                  s.CityValue(),
	}
}
