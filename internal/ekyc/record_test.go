package ekyc

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgeAt(t *testing.T) {
	dob, err := ParseDate("15-08-1990")
	require.NoError(t, err)
	rec := &VerifiedIdentityRecord{DateOfBirth: dob}

	t.Run("after anniversary", func(t *testing.T) {
		age, err := rec.AgeAt(time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, 35, age)
	})

	t.Run("day before anniversary", func(t *testing.T) {
		age, err := rec.AgeAt(time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, 34, age)
	})

	t.Run("on the anniversary", func(t *testing.T) {
		age, err := rec.AgeAt(time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, 35, age)
	})

	t.Run("as-of before birth is a domain error", func(t *testing.T) {
		_, err := rec.AgeAt(time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC))
		require.ErrorIs(t, err, ErrImpossibleDate)
		assert.Equal(t, KindDomain, KindOf(err))
	})
}

func TestAgeInDays(t *testing.T) {
	dob, err := ParseDate("01-01-2000")
	require.NoError(t, err)
	rec := &VerifiedIdentityRecord{DateOfBirth: dob}

	days, err := rec.AgeInDays(time.Date(2000, 1, 11, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(10), days)

	_, err = rec.AgeInDays(time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC))
	require.ErrorIs(t, err, ErrImpossibleDate)
}

func TestParseGender(t *testing.T) {
	cases := []struct {
		in   string
		kind GenderKind
		code uint32
	}{
		{"M", GenderMale, 1},
		{"male", GenderMale, 1},
		{"F", GenderFemale, 2},
		{"FEMALE", GenderFemale, 2},
		{"T", GenderOther, 3},
		{"Transgender", GenderOther, 3},
		{"", GenderUndisclosed, 0},
		{"PreferNotToSay", GenderUndisclosed, 0},
		{"attack-helicopter", GenderUnrecognized, 0},
	}
	for _, tc := range cases {
		g := ParseGender(tc.in)
		assert.Equal(t, tc.kind, g.Kind, "input %q", tc.in)
		assert.Equal(t, tc.code, g.Code(), "input %q", tc.in)
	}

	// Unrecognized input keeps the original text.
	g := ParseGender("attack-helicopter")
	assert.Equal(t, "attack-helicopter", g.Label)
}

func TestDateJSONRoundTrip(t *testing.T) {
	d, err := ParseDate("15-08-1990")
	require.NoError(t, err)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"15-08-1990"`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, d, back)
}

func TestNewDateRejectsImpossible(t *testing.T) {
	_, err := NewDate(1990, time.February, 31)
	require.Error(t, err)

	d, err := NewDate(2000, time.February, 29)
	require.NoError(t, err)
	assert.Equal(t, uint32(20000229), d.Numeric())
}
