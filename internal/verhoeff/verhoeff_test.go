package verhoeff

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateKnownNumber(t *testing.T) {
	// UIDAI-published test number with a correct check digit.
	assert.True(t, Validate("999999990019"))
	assert.True(t, Validate("9999 9999 0019"))
	assert.True(t, Validate("9999-9999-0019"))
}

func TestValidateRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"too short":      "99999999001",
		"too long":       "9999999900190",
		"letters":        "99999999001A",
		"empty":          "",
		"only separator": "---- ---- ----",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			assert.False(t, Validate(in))
		})
	}
}

func TestCheckDigitRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for n := 0; n < 500; n++ {
		base := ""
		for i := 0; i < 11; i++ {
			base += fmt.Sprintf("%d", rng.Intn(10))
		}
		cd := CheckDigit(base)
		require.GreaterOrEqual(t, cd, 0)

		full := fmt.Sprintf("%s%d", base, cd)
		require.True(t, Validate(full), "generated number %s must validate", full)

		// Mutating any single digit must break validation.
		pos := rng.Intn(12)
		mutated := []byte(full)
		mutated[pos] = byte('0' + (int(mutated[pos]-'0')+1+rng.Intn(9))%10)
		assert.False(t, Validate(string(mutated)),
			"single-digit mutation at %d of %s must fail", pos, full)
	}
}

func TestCheckDigitRejectsBadBase(t *testing.T) {
	assert.Equal(t, -1, CheckDigit("123"))
	assert.Equal(t, -1, CheckDigit("1234567890ab"))
}
