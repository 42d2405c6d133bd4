// Package identity handles caller-supplied identity data and the derived
// projections (commitments, field hashes, coarsened plaintext values) that
// feed the downstream proof circuits.
package identity

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/ethereum/go-ethereum/common"

	"verikyc/internal/ekyc"
	"verikyc/internal/verhoeff"
)

// ManualIdentityData is identity information entered by the holder rather
// than extracted from a verified document.
type ManualIdentityData struct {
	FullName    string      `json:"full_name"`
	DateOfBirth ekyc.Date   `json:"date_of_birth"`
	Gender      ekyc.Gender `json:"gender"`
	Nationality string      `json:"nationality"`

	AddressLine1  string `json:"address_line_1"`
	AddressLine2  string `json:"address_line_2,omitempty"`
	City          string `json:"city"`
	StateProvince string `json:"state_province"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country"`

	NationalIDNumber    string `json:"national_id_number,omitempty"`
	PassportNumber      string `json:"passport_number,omitempty"`
	DriverLicenseNumber string `json:"driver_license_number,omitempty"`

	PhoneNumber string `json:"phone_number,omitempty"`
	Email       string `json:"email,omitempty"`

	InputTimestamp    uint64 `json:"input_timestamp"`
	UserWalletAddress string `json:"user_wallet_address"`
}

// ValidationResult collects every issue found in one pass so the caller can
// surface all of them at once.
type ValidationResult struct {
	Issues []string `json:"issues"`
}

func (r ValidationResult) IsValid() bool { return len(r.Issues) == 0 }

// ValidateInput checks the manual identity payload against the input rules.
// now is passed explicitly so the age checks are reproducible in tests.
func ValidateInput(data ManualIdentityData, now time.Time) ValidationResult {
	var issues []string
	add := func(format string, args ...any) {
		issues = append(issues, fmt.Sprintf(format, args...))
	}

	name := strings.TrimSpace(data.FullName)
	if name == "" {
		add("full name is required")
	} else if len(name) < 2 {
		add("full name must be at least 2 characters")
	}

	if data.DateOfBirth.IsZero() {
		add("date of birth is required")
	} else {
		if data.DateOfBirth.Time().After(now) {
			add("birth date cannot be in the future")
		}
		years := int64(now.Sub(data.DateOfBirth.Time()).Hours() / 24 / 365)
		if years < 13 {
			add("age must be at least 13 years")
		}
		if years > 120 {
			add("age cannot exceed 120 years")
		}
	}

	if strings.TrimSpace(data.City) == "" {
		add("city is required")
	}
	if strings.TrimSpace(data.Country) == "" {
		add("country is required")
	}
	if strings.TrimSpace(data.AddressLine1) == "" {
		add("address line 1 is required")
	}
	if !validPostalCode(data.PostalCode, data.Country) {
		add("invalid postal code format for country: %s", data.Country)
	}
	if !ValidWalletAddress(data.UserWalletAddress) {
		add("invalid wallet address")
	}
	if e := strings.TrimSpace(data.Email); e != "" && !validEmail(e) {
		add("invalid email format")
	}
	if p := strings.TrimSpace(data.PhoneNumber); p != "" && !validPhone(p) {
		add("invalid phone number format")
	}

	if data.NationalIDNumber != "" && !ekycIDPlausible(data.NationalIDNumber) {
		add("national id number failed checksum validation")
	}

	return ValidationResult{Issues: issues}
}

// ekycIDPlausible accepts either a Verhoeff-valid 12-digit number or a
// masked fragment (documents usually expose only the last four digits).
func ekycIDPlausible(id string) bool {
	cleaned := strings.TrimSpace(id)
	digits := 0
	for _, r := range cleaned {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if digits < 12 {
		return digits >= 4
	}
	return verhoeff.Validate(cleaned)
}

// ValidWalletAddress requires a 0x-prefixed 20-byte hex address.
func ValidWalletAddress(addr string) bool {
	return strings.HasPrefix(addr, "0x") && common.IsHexAddress(addr)
}

// validPostalCode applies per-country format rules, falling back to a
// non-empty check for countries without a specific rule.
func validPostalCode(postal, country string) bool {
	trimmed := strings.TrimSpace(postal)
	if trimmed == "" {
		return false
	}

	switch strings.ToUpper(strings.TrimSpace(country)) {
	case "INDIA", "IN":
		return len(trimmed) == 6 && allDigits(trimmed)
	case "USA", "UNITED STATES", "US":
		if len(trimmed) != 5 && len(trimmed) != 10 {
			return false
		}
		return countDigits(trimmed) >= 5
	case "CANADA", "CA":
		if len(trimmed) != 6 {
			return false
		}
		for i, r := range trimmed {
			if i%2 == 0 {
				if !unicode.IsLetter(r) {
					return false
				}
			} else if !unicode.IsDigit(r) {
				return false
			}
		}
		return true
	case "UNITED KINGDOM", "UK", "GB":
		return len(trimmed) >= 5 && len(trimmed) <= 8
	case "GERMANY", "DE", "FRANCE", "FR", "ITALY", "IT", "SPAIN", "ES":
		return len(trimmed) == 5 && allDigits(trimmed)
	default:
		return true
	}
}

func validEmail(email string) bool {
	parts := strings.Split(strings.TrimSpace(email), "@")
	return len(parts) == 2 && parts[0] != "" && strings.Contains(parts[1], ".")
}

func validPhone(phone string) bool {
	n := countDigits(phone)
	return n >= 10 && n <= 15
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
