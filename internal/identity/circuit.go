package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"verikyc/internal/ekyc"
)

// FieldHashes carries independent one-way hashes of the private identity
// fields fed to proof circuits.
type FieldHashes struct {
	NameHash        string `json:"name_hash"`
	NationalityHash string `json:"nationality_hash"`
	CountryHash     string `json:"country_hash"`
	AddressHash     string `json:"address_hash"`
}

// CircuitInputs is the staged projection consumed by the proof boundary:
// field-level hashes, coarsened plaintext values, and the global identity
// commitment. Every field is a deterministic pure function of the inputs,
// so identical data always produces byte-identical projections. Prover
// reproducibility and duplicate-submission detection both depend on that.
type CircuitInputs struct {
	NameHash        string `json:"name_hash"`
	BirthDate       uint32 `json:"birth_date"` // YYYYMMDD
	NationalityHash string `json:"nationality_hash"`
	CountryHash     string `json:"country_hash"`
	AddressHash     string `json:"address_hash"`

	AgeInDays        int64  `json:"age_in_days"`
	CountryCode      uint32 `json:"country_code"`
	PostalCodeRegion uint32 `json:"postal_code_region"`

	WalletAddress      string `json:"wallet_address"`
	InputTimestamp     uint64 `json:"input_timestamp"`
	IdentityCommitment string `json:"identity_commitment"`
}

// Commitment computes the global identity commitment: a SHA-256 digest over
// a fixed, ordered concatenation of normalized identity fields, the wallet
// address, and the input timestamp. 0x-prefixed hex.
func Commitment(data ManualIdentityData) string {
	h := sha256.New()
	h.Write([]byte(norm(data.FullName)))
	h.Write([]byte(fmt.Sprintf("%08d", data.DateOfBirth.Numeric())))
	h.Write([]byte(data.Gender.String()))
	h.Write([]byte(norm(data.Nationality)))
	h.Write([]byte(norm(data.Country)))
	h.Write([]byte(norm(data.City)))
	h.Write([]byte(strings.TrimSpace(data.PostalCode)))
	h.Write([]byte(strings.ToLower(data.UserWalletAddress)))
	h.Write([]byte(fmt.Sprintf("%d", data.InputTimestamp)))
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

// Hashes computes the per-field one-way hashes. The address hash covers the
// first address line, the city, and the postal code.
func Hashes(data ManualIdentityData) FieldHashes {
	addr := sha256.New()
	addr.Write([]byte(norm(data.AddressLine1)))
	addr.Write([]byte(norm(data.City)))
	addr.Write([]byte(strings.TrimSpace(data.PostalCode)))

	return FieldHashes{
		NameHash:        hexSHA256(norm(data.FullName)),
		NationalityHash: hexSHA256(norm(data.Nationality)),
		CountryHash:     hexSHA256(norm(data.Country)),
		AddressHash:     hex.EncodeToString(addr.Sum(nil)),
	}
}

// NewCircuitInputs stages the projection from manual identity data. asOf is
// the explicit reference time for the age computation so two callers staging
// the same data at the same reference instant get identical projections.
func NewCircuitInputs(data ManualIdentityData, asOf time.Time) (*CircuitInputs, error) {
	if data.DateOfBirth.IsZero() {
		return nil, fmt.Errorf("identity: date of birth is required")
	}
	if asOf.Before(data.DateOfBirth.Time()) {
		return nil, ekyc.ErrImpossibleDate
	}

	hashes := Hashes(data)
	return &CircuitInputs{
		NameHash:           hashes.NameHash,
		BirthDate:          data.DateOfBirth.Numeric(),
		NationalityHash:    hashes.NationalityHash,
		CountryHash:        hashes.CountryHash,
		AddressHash:        hashes.AddressHash,
		AgeInDays:          int64(asOf.Sub(data.DateOfBirth.Time()).Hours() / 24),
		CountryCode:        CountryCode(data.Country),
		PostalCodeRegion:   PostalRegion(data.PostalCode),
		WalletAddress:      data.UserWalletAddress,
		InputTimestamp:     data.InputTimestamp,
		IdentityCommitment: Commitment(data),
	}, nil
}

// FromRecord stages circuit inputs from a document-verified record instead
// of manual input. Wallet and timestamp come from the caller because the
// document knows nothing about the holder's account.
func FromRecord(rec *ekyc.VerifiedIdentityRecord, wallet string, inputTimestamp uint64, asOf time.Time) (*CircuitInputs, error) {
	data := ManualIdentityData{
		FullName:          rec.Name,
		DateOfBirth:       rec.DateOfBirth,
		Gender:            rec.Gender,
		Nationality:       rec.Address.Country,
		AddressLine1:      rec.Address.FullAddress(),
		City:              rec.Address.VTC,
		StateProvince:     rec.Address.State,
		PostalCode:        rec.Address.Pincode,
		Country:           rec.Address.Country,
		InputTimestamp:    inputTimestamp,
		UserWalletAddress: wallet,
	}
	return NewCircuitInputs(data, asOf)
}

// JSON renders the projection with stable field names for the prover.
func (c *CircuitInputs) JSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// countryCodes holds ISO 3166-1 numeric codes for the countries the input
// form recognizes. Closed set; unknown input maps to 0, never an error.
var countryCodes = map[string]uint32{
	"INDIA": 356, "IN": 356,
	"UNITED STATES": 840, "USA": 840, "US": 840,
	"UNITED KINGDOM": 826, "UK": 826, "GB": 826,
	"CANADA": 124, "CA": 124,
	"GERMANY": 276, "DE": 276,
	"FRANCE": 250, "FR": 250,
	"ITALY": 380, "IT": 380,
	"SPAIN": 724, "ES": 724,
	"JAPAN": 392, "JP": 392,
	"CHINA": 156, "CN": 156,
	"AUSTRALIA": 36, "AU": 36,
	"BRAZIL": 76, "BR": 76,
}

// CountryCode maps a country name or alpha-2 code to its ISO numeric code.
// Case-insensitive, trimmed; unknown input returns 0.
func CountryCode(country string) uint32 {
	return countryCodes[strings.ToUpper(strings.TrimSpace(country))]
}

// PostalRegion coarsens a postal code to its first three digits.
func PostalRegion(postal string) uint32 {
	var region uint32
	n := 0
	for _, r := range postal {
		if r >= '0' && r <= '9' {
			region = region*10 + uint32(r-'0')
			n++
			if n == 3 {
				break
			}
		}
	}
	if n == 0 {
		return 0
	}
	return region
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func hexSHA256(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
