package ekyc

import (
	"fmt"
	"strings"
	"time"
)

// dobLayouts are the layouts the issuer has been observed to emit for the
// date-of-birth field.
var dobLayouts = []string{"02-01-2006", "02/01/2006", "2006-01-02"}

// Date is a calendar date (no time-of-day, no zone) validated at
// construction. Serialized as DD-MM-YYYY, the issuer's own format.
type Date struct {
	t time.Time
}

// ParseDate validates raw against the known issuer layouts.
func ParseDate(raw string) (Date, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range dobLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{t: t}, nil
		}
	}
	return Date{}, fmt.Errorf("%w: unparseable date %q", ErrMalformedDocument, raw)
}

// NewDate builds a Date from components, rejecting impossible calendar days.
func NewDate(year int, month time.Month, day int) (Date, error) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Date{}, fmt.Errorf("%w: impossible calendar date %04d-%02d-%02d", ErrMalformedDocument, year, month, day)
	}
	return Date{t: t}, nil
}

func (d Date) IsZero() bool         { return d.t.IsZero() }
func (d Date) Year() int            { return d.t.Year() }
func (d Date) Month() time.Month    { return d.t.Month() }
func (d Date) Day() int             { return d.t.Day() }
func (d Date) Time() time.Time      { return d.t }
func (d Date) String() string       { return d.t.Format("02-01-2006") }
func (d Date) Before(t time.Time) bool { return d.t.Before(t) }

// Numeric renders the date as YYYYMMDD, the form circuit inputs expect.
func (d Date) Numeric() uint32 {
	return uint32(d.t.Year())*10000 + uint32(d.t.Month())*100 + uint32(d.t.Day())
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// GenderKind is the closed set of recognized gender categories.
type GenderKind string

const (
	GenderMale         GenderKind = "male"
	GenderFemale       GenderKind = "female"
	GenderOther        GenderKind = "other"
	GenderUndisclosed  GenderKind = "undisclosed"
	GenderUnrecognized GenderKind = "unrecognized"
)

// Gender is a tagged value rather than a bare string so unrecognized input
// can never be confused with a valid category. Label carries the original
// text for the other/unrecognized variants.
type Gender struct {
	Kind  GenderKind `json:"kind"`
	Label string     `json:"label,omitempty"`
}

// ParseGender interprets the issuer's single-letter codes and common long
// forms. Unknown input is preserved, not erased.
func ParseGender(raw string) Gender {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "M", "MALE":
		return Gender{Kind: GenderMale}
	case "F", "FEMALE":
		return Gender{Kind: GenderFemale}
	case "T", "TRANSGENDER":
		return Gender{Kind: GenderOther, Label: "Transgender"}
	case "O", "OTHER":
		return Gender{Kind: GenderOther, Label: strings.TrimSpace(raw)}
	case "", "PREFERNOTTOSAY", "UNDISCLOSED":
		return Gender{Kind: GenderUndisclosed}
	default:
		return Gender{Kind: GenderUnrecognized, Label: strings.TrimSpace(raw)}
	}
}

// Code returns the numeric gender code used by circuit inputs. Unrecognized
// and undisclosed both map to 0; callers must treat 0 as "not a valid code".
func (g Gender) Code() uint32 {
	switch g.Kind {
	case GenderMale:
		return 1
	case GenderFemale:
		return 2
	case GenderOther:
		return 3
	default:
		return 0
	}
}

func (g Gender) String() string {
	if g.Label != "" {
		return g.Label
	}
	return string(g.Kind)
}

// VerifiedIdentityRecord is the verified output of the pipeline. It is
// constructed once per successful verification and never mutated afterwards;
// a changed credential requires a fresh verification pass.
//
// SignatureValid and CertificateChainValid are set exactly once by the
// orchestrator, never by the field mapper. The full identity number is never
// retained: only the last four digits survive in IDLast4.
type VerifiedIdentityRecord struct {
	Name        string  `json:"name"`
	DateOfBirth Date    `json:"date_of_birth"`
	Gender      Gender  `json:"gender"`
	Address     Address `json:"address"`

	PhotoBase64 string `json:"photo_base64,omitempty"`
	MobileHash  string `json:"mobile_hash,omitempty"`
	EmailHash   string `json:"email_hash,omitempty"`

	ReferenceID   string `json:"reference_id"`
	GeneratedDate string `json:"generated_date"`

	SignatureValid        bool `json:"signature_valid"`
	CertificateChainValid bool `json:"certificate_chain_valid"`

	IDLast4 string `json:"id_last_4"`
}

// AgeAt computes full years between the date of birth and asOf, decrementing
// by one when asOf falls before the birthday anniversary in its year.
// Returns ErrImpossibleDate when asOf precedes the date of birth.
func (r *VerifiedIdentityRecord) AgeAt(asOf time.Time) (int, error) {
	if asOf.Before(r.DateOfBirth.Time()) {
		return 0, ErrImpossibleDate
	}
	age := asOf.Year() - r.DateOfBirth.Year()
	if asOf.Month() < r.DateOfBirth.Month() ||
		(asOf.Month() == r.DateOfBirth.Month() && asOf.Day() < r.DateOfBirth.Day()) {
		age--
	}
	return age, nil
}

// AgeInDays is the whole-day difference between asOf and the date of birth,
// computed against an explicit reference time so projections stay
// reproducible.
func (r *VerifiedIdentityRecord) AgeInDays(asOf time.Time) (int64, error) {
	if asOf.Before(r.DateOfBirth.Time()) {
		return 0, ErrImpossibleDate
	}
	return int64(asOf.Sub(r.DateOfBirth.Time()).Hours() / 24), nil
}
