package models

import (
	"fmt"
	"regexp"
	"strings"
)

// Status values for ContactDetails.
const (
	StatusProvincial = "provincial"
	StatusKabupaten  = "kabupaten"
)

// PhonePrefix is the country calling code prepended to submitted phone numbers.
const PhonePrefix = "+62"

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^[0-9]{9,14}$`)
)

// ContactDetails holds the shared form fields submitted with every section.
type ContactDetails struct {
	Status        string `json:"status"`
	Province      string `json:"province"`
	ProvinceCode  int    `json:"provinceCode"`
	Kabupaten     string `json:"kabupaten"`
	KabupatenCode int    `json:"kabupatenCode"`
	LGName        string `json:"lgName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
}

// Validate checks the contact fields locally, before any network call.
// It returns a map of field name to message, empty when everything passes.
func (c ContactDetails) Validate() map[string]string {
	errs := make(map[string]string)

	if c.Status == "" {
		errs["status"] = "Please select a status"
	} else if c.Status != StatusProvincial && c.Status != StatusKabupaten {
		errs["status"] = fmt.Sprintf("Unknown status %q", c.Status)
	}

	if c.Province == "" {
		errs["province"] = "Please select a province"
	}

	if c.Status == StatusKabupaten && c.Kabupaten == "" {
		errs["kabupaten"] = "Please select a kabupaten"
	}

	if strings.TrimSpace(c.LGName) == "" {
		errs["lgName"] = "LG Name is required"
	}

	if !emailRegex.MatchString(c.Email) {
		errs["email"] = "Please enter a valid email address"
	}

	if !phoneRegex.MatchString(strings.TrimPrefix(c.Phone, PhonePrefix)) {
		errs["phone"] = "Phone number must be 9 to 14 digits"
	}

	return errs
}

// NormalizedPhone returns the phone number in +62 form, stripping any
// leading zeros from the national part.
func (c ContactDetails) NormalizedPhone() string {
	if c.Phone == "" {
		return ""
	}
	if strings.HasPrefix(c.Phone, PhonePrefix) {
		return c.Phone
	}
	return PhonePrefix + strings.TrimLeft(c.Phone, "0")
}

// AdminCode derives the combined administrative code: the province code
// followed by the two-digit kabupaten code when one is selected, the bare
// province code otherwise.
func (c ContactDetails) AdminCode() int {
	if c.Status == StatusKabupaten && c.KabupatenCode != 0 {
		return c.ProvinceCode*100 + c.KabupatenCode
	}
	return c.ProvinceCode
}

// Payload returns the record submitted under the ContactDetails key.
func (c ContactDetails) Payload() Record {
	return Record{
		"status":     c.Status,
		"admin_code": c.AdminCode(),
		"lg_name":    c.LGName,
		"email":      c.Email,
		"phone":      c.NormalizedPhone(),
	}
}
