package ekyc

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shareCode = "1947"

func TestVerifyDocument(t *testing.T) {
	issuer := newTestIssuer(t)
	verifier, err := NewVerifier(issuer.trust)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("trusted path returns a fully verified record", func(t *testing.T) {
		archive := encryptedArchive(t, shareCode, map[string][]byte{
			"offline-ekyc.xml": issuer.signedFixture(t),
		})

		rec, err := verifier.VerifyDocument(ctx, archive, shareCode)
		require.NoError(t, err)
		assert.True(t, rec.SignatureValid)
		assert.True(t, rec.CertificateChainValid)
		assert.Equal(t, "Sunita Sharma", rec.Name)
		assert.Equal(t, GenderFemale, rec.Gender.Kind)
		assert.Equal(t, "1234", rec.IDLast4)
		assert.Equal(t, uint32(29), rec.Address.StateCode())
		assert.Equal(t, "516820250801000000", rec.ReferenceID)
		assert.Equal(t, "2b9c5f", rec.MobileHash)
	})

	t.Run("one flipped byte in the signed scope is a trust error", func(t *testing.T) {
		doc := issuer.signedFixture(t)
		// Flip a content byte well before the signature block, leaving the
		// signature itself untouched.
		tampered := append([]byte(nil), doc...)
		idx := bytes.Index(tampered, []byte("Sunita"))
		require.Positive(t, idx)
		tampered[idx] ^= 0x01

		archive := encryptedArchive(t, shareCode, map[string][]byte{
			"offline-ekyc.xml": tampered,
		})

		rec, err := verifier.VerifyDocument(ctx, archive, shareCode)
		require.ErrorIs(t, err, ErrSignatureMismatch)
		assert.Equal(t, KindTrust, KindOf(err))
		assert.Nil(t, rec, "trusted path never returns a record on trust failure")
	})

	t.Run("wrong share code is an authentication error, not not-found", func(t *testing.T) {
		archive := encryptedArchive(t, shareCode, map[string][]byte{
			"offline-ekyc.xml": issuer.signedFixture(t),
		})
		_, err := verifier.VerifyDocument(ctx, archive, "0000")
		require.ErrorIs(t, err, ErrWrongSecretOrCorrupt)
		assert.Equal(t, KindAuthentication, KindOf(err))
	})

	t.Run("document without a signature block fails on the trusted path", func(t *testing.T) {
		archive := encryptedArchive(t, shareCode, map[string][]byte{
			"offline-ekyc.xml": []byte(demographicPrefix + "</OfflinePaperlessKyc>"),
		})
		_, err := verifier.VerifyDocument(ctx, archive, shareCode)
		require.ErrorIs(t, err, ErrSignatureNotFound)
	})

	t.Run("schema failure names the missing field", func(t *testing.T) {
		prefix := `<?xml version="1.0"?>
<OfflinePaperlessKyc name="A" dob="01-01-2000" gender="M" vtc="X" dist="Y" state="Karnataka">
`
		archive := encryptedArchive(t, shareCode, map[string][]byte{
			"offline-ekyc.xml": issuer.signDocument(t, prefix),
		})
		_, err := verifier.VerifyDocument(ctx, archive, shareCode)
		var missing *MissingFieldError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "pc", missing.Field)
	})
}

func TestInspectDocument(t *testing.T) {
	issuer := newTestIssuer(t)
	verifier, err := NewVerifier(issuer.trust)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("tampered document yields a record with false flags", func(t *testing.T) {
		doc := issuer.signedFixture(t)
		tampered := append([]byte(nil), doc...)
		idx := bytes.Index(tampered, []byte("Sunita"))
		tampered[idx] ^= 0x01

		archive := encryptedArchive(t, shareCode, map[string][]byte{
			"offline-ekyc.xml": tampered,
		})

		rec, err := verifier.InspectDocument(ctx, archive, shareCode)
		require.NoError(t, err)
		assert.False(t, rec.SignatureValid)
		assert.False(t, rec.CertificateChainValid)
	})

	t.Run("authentication failures still abort", func(t *testing.T) {
		archive := encryptedArchive(t, shareCode, map[string][]byte{
			"offline-ekyc.xml": issuer.signedFixture(t),
		})
		_, err := verifier.InspectDocument(ctx, archive, "0000")
		require.ErrorIs(t, err, ErrWrongSecretOrCorrupt)
	})

	t.Run("valid document reports true flags", func(t *testing.T) {
		archive := encryptedArchive(t, shareCode, map[string][]byte{
			"offline-ekyc.xml": issuer.signedFixture(t),
		})
		rec, err := verifier.InspectDocument(ctx, archive, shareCode)
		require.NoError(t, err)
		assert.True(t, rec.SignatureValid)
	})
}

func TestNewVerifierFailsClosed(t *testing.T) {
	_, err := NewVerifier(nil)
	require.Error(t, err)
	assert.Equal(t, KindTrust, KindOf(err))
}

func TestRoundTripCanonicalizeSignedScope(t *testing.T) {
	issuer := newTestIssuer(t)
	archive := encryptedArchive(t, shareCode, map[string][]byte{
		"offline-ekyc.xml": issuer.signedFixture(t),
	})

	doc, err := ExtractDocument(archive, shareCode)
	require.NoError(t, err)
	scope, err := signedScope(doc)
	require.NoError(t, err)

	once := canonicalize(scope)
	twice := canonicalize(once)
	assert.Equal(t, once, twice)
}
