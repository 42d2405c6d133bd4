package ekyc

import (
	"bytes"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yeka/zip"
)

// testIssuer plays the document issuer: it owns an RSA key, a self-signed
// certificate pinned into a trust store, and signs documents the same way
// the real issuer does (SHA-256 digest of the canonicalized signed scope,
// PKCS#1 v1.5).
type testIssuer struct {
	key     *rsa.PrivateKey
	certPEM []byte
	trust   *TrustStore
}

func newTestIssuer(t *testing.T) *testIssuer {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "Test e-KYC Issuer", Organization: []string{"verikyc test"}},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	trust, err := NewTrustStore(certPEM)
	require.NoError(t, err)

	return &testIssuer{key: key, certPEM: certPEM, trust: trust}
}

// demographicPrefix is the signed scope of the fixture document: the root
// element open tag with all demographic attributes, before the signature
// block begins.
const demographicPrefix = `<?xml version="1.0" encoding="UTF-8"?>
<OfflinePaperlessKyc referenceId="516820250801000000" uid="xxxx xxxx 1234" name="Sunita Sharma" dob="15-08-1990" gender="F" co="D/O Ram Sharma" house="12" street="MG Road" vtc="Bengaluru" po="Shivajinagar" dist="Bangalore Urban" state="Karnataka" pc="560001" country="India" generatedDate="2025-08-01" mobileHash="2b9c5f" emailHash="7d1a44">
`

// signDocument appends a signature block signing the given prefix and
// returns the complete document bytes.
func (i *testIssuer) signDocument(t *testing.T, prefix string) []byte {
	t.Helper()

	digest := sha256.Sum256(canonicalize([]byte(prefix)))
	sig, err := rsa.SignPKCS1v15(rand.Reader, i.key, crypto.SHA256, digest[:])
	require.NoError(t, err)

	block := fmt.Sprintf(`<Signature xmlns="http://www.w3.org/2000/09/xmldsig#">
  <SignedInfo>
    <DigestMethod Algorithm="http://www.w3.org/2001/04/xmlenc#sha256"/>
    <SignatureMethod Algorithm="http://www.w3.org/2001/04/xmldsig-more#rsa-sha256"/>
  </SignedInfo>
  <SignatureValue>%s</SignatureValue>
</Signature>
</OfflinePaperlessKyc>`, base64.StdEncoding.EncodeToString(sig))

	return []byte(prefix + block)
}

func (i *testIssuer) signedFixture(t *testing.T) []byte {
	return i.signDocument(t, demographicPrefix)
}

// encryptedArchive wraps entries into an AES-256 password-protected ZIP,
// mirroring the issuer's distribution format.
func encryptedArchive(t *testing.T, password string, entries map[string][]byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Encrypt(name, password, zip.AES256Encryption)
		require.NoError(t, err)
		_, err = w.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
