package ekyc

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// signatureOpenTag delimits the enveloped signature block. The issuer signs
// everything that precedes it.
var signatureOpenTag = []byte("<Signature")

// SignatureDescriptor carries the signature value exactly as transported
// (still base64 text) plus the declared algorithm identifiers. It is
// transient: produced here, consumed immediately by the verifier, never
// persisted.
type SignatureDescriptor struct {
	Value              []byte
	DigestAlgorithm    string
	SignatureAlgorithm string
}

// signedScope returns the exact byte prefix the issuer digested: everything
// before the first occurrence of the signature open tag.
func signedScope(doc []byte) ([]byte, error) {
	idx := bytes.Index(doc, signatureOpenTag)
	if idx < 0 {
		return nil, ErrSignatureNotFound
	}
	return doc[:idx], nil
}

// canonicalize normalizes the signed scope: each line is trimmed of
// surrounding whitespace, empty lines are dropped, and the remainder is
// concatenated without separators. Idempotent by construction.
//
// This is the issuer's simplified canonicalization rule, not standard
// XML C14N. It only matches signers known to apply the same rule; a signer
// using real C14N requires a standards-compliant canonicalizer instead.
func canonicalize(scope []byte) []byte {
	var out bytes.Buffer
	for _, line := range bytes.Split(scope, []byte("\n")) {
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) > 0 {
			out.Write(trimmed)
		}
	}
	return out.Bytes()
}

// Algorithm URIs from the XMLDSig profile the issuer declares. Anything
// else is rejected rather than guessed at.
const (
	uriDigestSHA256  = "http://www.w3.org/2001/04/xmlenc#sha256"
	uriSigRSASHA256  = "http://www.w3.org/2001/04/xmldsig-more#rsa-sha256"
	algoDigestSHA256 = "SHA256"
	algoRSASHA256    = "RSA-SHA256"
)

// extractSignature pulls the SignatureValue text and the declared algorithm
// identifiers out of the signature block with one streaming pass.
func extractSignature(doc []byte) (SignatureDescriptor, error) {
	dec := xml.NewDecoder(bytes.NewReader(doc))

	desc := SignatureDescriptor{
		DigestAlgorithm:    algoDigestSHA256,
		SignatureAlgorithm: algoRSASHA256,
	}
	var (
		inSignature bool
		inValue     bool
		value       strings.Builder
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return SignatureDescriptor{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "Signature":
				inSignature = true
			case "SignatureValue":
				if inSignature {
					inValue = true
				}
			case "DigestMethod":
				if inSignature {
					if uri := xmlAttr(t, "Algorithm"); uri != "" && uri != uriDigestSHA256 {
						return SignatureDescriptor{}, fmt.Errorf("%w: digest %q", ErrUnsupportedAlgorithm, uri)
					}
				}
			case "SignatureMethod":
				if inSignature {
					if uri := xmlAttr(t, "Algorithm"); uri != "" && uri != uriSigRSASHA256 {
						return SignatureDescriptor{}, fmt.Errorf("%w: signature %q", ErrUnsupportedAlgorithm, uri)
					}
				}
			}
		case xml.CharData:
			if inValue {
				value.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "SignatureValue":
				inValue = false
			case "Signature":
				inSignature = false
			}
		}
	}

	v := strings.TrimSpace(value.String())
	if v == "" {
		return SignatureDescriptor{}, ErrSignatureNotFound
	}
	desc.Value = []byte(v)
	return desc, nil
}

func xmlAttr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
