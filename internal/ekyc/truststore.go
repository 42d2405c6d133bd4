package ekyc

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
)

// TrustStore is the fixed set of pinned issuer certificates. It is loaded
// once at construction, immutable afterwards, and therefore safe to share
// across goroutines without locking. Verification fails closed: an empty
// store or an unparseable certificate is a construction error, never a
// silently skipped check.
type TrustStore struct {
	certs []*x509.Certificate
}

// NewTrustStore parses one or more PEM-encoded certificate bundles. Every
// CERTIFICATE block in every bundle must parse.
func NewTrustStore(pemBundles ...[]byte) (*TrustStore, error) {
	var certs []*x509.Certificate
	for _, bundle := range pemBundles {
		rest := bundle
		for {
			var block *pem.Block
			block, rest = pem.Decode(rest)
			if block == nil {
				break
			}
			if block.Type != "CERTIFICATE" {
				continue
			}
			cert, err := x509.ParseCertificate(block.Bytes)
			if err != nil {
				return nil, fmt.Errorf("%w: parse pinned certificate: %v", ErrCertificate, err)
			}
			certs = append(certs, cert)
		}
	}
	if len(certs) == 0 {
		return nil, fmt.Errorf("%w: trust store is empty", ErrCertificate)
	}
	return &TrustStore{certs: certs}, nil
}

// NewTrustStoreFromFile loads a PEM bundle from disk. This is the one
// blocking operation in the package and happens only at initialization.
func NewTrustStoreFromFile(path string) (*TrustStore, error) {
	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read trust store %q: %v", ErrCertificate, path, err)
	}
	return NewTrustStore(pemBytes)
}

// Len reports the number of pinned certificates.
func (ts *TrustStore) Len() int { return len(ts.certs) }

// Certificates returns a copy of the pinned set so callers cannot mutate it.
func (ts *TrustStore) Certificates() []*x509.Certificate {
	out := make([]*x509.Certificate, len(ts.certs))
	copy(out, ts.certs)
	return out
}
