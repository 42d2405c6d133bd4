package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validationNow = time.Date(2025, 8, 26, 0, 0, 0, 0, time.UTC)

func TestValidateInputValid(t *testing.T) {
	data := sampleData(t)
	data.Email = "test@example.com"
	data.PhoneNumber = "+91 98450 12345"

	res := ValidateInput(data, validationNow)
	assert.True(t, res.IsValid(), "unexpected issues: %v", res.Issues)
}

func TestValidateInputCollectsAllIssues(t *testing.T) {
	data := sampleData(t)
	data.FullName = ""
	data.City = ""
	data.UserWalletAddress = "not-a-wallet"

	res := ValidateInput(data, validationNow)
	require.False(t, res.IsValid())
	assert.GreaterOrEqual(t, len(res.Issues), 3, "every failing rule reports: %v", res.Issues)
}

func TestValidateInputAgeBoundaries(t *testing.T) {
	t.Run("under 13 rejected", func(t *testing.T) {
		data := sampleData(t)
		data.DateOfBirth = mustDate(t, "01-01-2020")
		res := ValidateInput(data, validationNow)
		assert.Contains(t, res.Issues, "age must be at least 13 years")
	})

	t.Run("future birth date rejected", func(t *testing.T) {
		data := sampleData(t)
		data.DateOfBirth = mustDate(t, "01-01-2030")
		res := ValidateInput(data, validationNow)
		assert.Contains(t, res.Issues, "birth date cannot be in the future")
	})

	t.Run("over 120 rejected", func(t *testing.T) {
		data := sampleData(t)
		data.DateOfBirth = mustDate(t, "01-01-1890")
		res := ValidateInput(data, validationNow)
		assert.Contains(t, res.Issues, "age cannot exceed 120 years")
	})
}

func TestValidPostalCodes(t *testing.T) {
	cases := []struct {
		postal, country string
		want            bool
	}{
		{"560001", "India", true},
		{"123", "India", false},
		{"56000A", "India", false},
		{"10001", "USA", true},
		{"10001-1234", "USA", true},
		{"M5H2N2", "Canada", true},
		{"55H2N2", "Canada", false},
		{"SW1A1AA", "United Kingdom", true},
		{"75001", "France", true},
		{"7500", "Germany", false},
		{"anything", "Elbonia", true},
		{"", "Elbonia", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, validPostalCode(tc.postal, tc.country),
			"postal %q country %q", tc.postal, tc.country)
	}
}

func TestValidWalletAddress(t *testing.T) {
	assert.True(t, ValidWalletAddress("0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb7"))
	assert.False(t, ValidWalletAddress("742d35Cc6634C0532925a3b844Bc9e7595f0bEb7"), "missing 0x prefix")
	assert.False(t, ValidWalletAddress("0xinvalid"))
	assert.False(t, ValidWalletAddress(""))
}

func TestNationalIDChecksumRule(t *testing.T) {
	data := sampleData(t)

	data.NationalIDNumber = "9999 9999 0019" // Verhoeff-valid test number
	assert.True(t, ValidateInput(data, validationNow).IsValid())

	data.NationalIDNumber = "9999 9999 0018"
	res := ValidateInput(data, validationNow)
	assert.Contains(t, res.Issues, "national id number failed checksum validation")

	data.NationalIDNumber = "XXXX XXXX 1234" // masked fragment is acceptable
	assert.True(t, ValidateInput(data, validationNow).IsValid())
}
