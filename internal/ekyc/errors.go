package ekyc

import (
	"errors"
	"fmt"
)

// Kind classifies a verification failure so handlers can map it to a stable
// response code without string matching.
type Kind string

const (
	KindInputFormat    Kind = "input_format_error"
	KindAuthentication Kind = "authentication_error"
	KindTrust          Kind = "trust_error"
	KindSchema         Kind = "schema_error"
	KindDomain         Kind = "domain_error"
	KindUnknown        Kind = "unknown_error"
)

var (
	// ErrInvalidArchive means the container structure itself could not be
	// parsed. Distinct from a wrong share code.
	ErrInvalidArchive = errors.New("ekyc: invalid archive")

	// ErrWrongSecretOrCorrupt covers per-entry decryption failures. A wrong
	// share code and a corrupt payload are indistinguishable by design of
	// the encryption scheme, so they share one error.
	ErrWrongSecretOrCorrupt = errors.New("ekyc: wrong share code or corrupt archive")

	// ErrDocumentNotFound means the archive parsed and decrypted but held
	// no entry with the expected document extension.
	ErrDocumentNotFound = errors.New("ekyc: no XML document found in archive")

	// ErrMalformedDocument means the payload is not well-formed XML.
	ErrMalformedDocument = errors.New("ekyc: malformed document")

	// ErrSignatureNotFound means the document carries no signature block.
	ErrSignatureNotFound = errors.New("ekyc: signature block not found")

	// ErrSignatureDecode means the signature value did not decode from its
	// transport encoding.
	ErrSignatureDecode = errors.New("ekyc: signature value decode failed")

	// ErrUnsupportedAlgorithm means the document declares a digest or
	// signature algorithm outside the issuer's fixed profile.
	ErrUnsupportedAlgorithm = errors.New("ekyc: unsupported signature algorithm")

	// ErrCertificate means a pinned certificate is unusable.
	ErrCertificate = errors.New("ekyc: certificate error")

	// ErrSignatureMismatch means no pinned certificate validates the
	// declared signature over the canonical content.
	ErrSignatureMismatch = errors.New("ekyc: signature does not verify against trust store")

	// ErrImpossibleDate means date arithmetic was requested for a point in
	// time before the recorded date of birth.
	ErrImpossibleDate = errors.New("ekyc: as-of date precedes date of birth")
)

// MissingFieldError reports a well-formed document lacking a required
// demographic field, naming the specific key.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("ekyc: required demographic field %q missing", e.Field)
}

// KindOf maps any error returned by this package onto the failure taxonomy.
func KindOf(err error) Kind {
	var missing *MissingFieldError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrWrongSecretOrCorrupt):
		return KindAuthentication
	case errors.Is(err, ErrInvalidArchive),
		errors.Is(err, ErrDocumentNotFound),
		errors.Is(err, ErrMalformedDocument):
		return KindInputFormat
	case errors.Is(err, ErrSignatureNotFound),
		errors.Is(err, ErrSignatureDecode),
		errors.Is(err, ErrUnsupportedAlgorithm),
		errors.Is(err, ErrCertificate),
		errors.Is(err, ErrSignatureMismatch):
		return KindTrust
	case errors.As(err, &missing):
		return KindSchema
	case errors.Is(err, ErrImpossibleDate):
		return KindDomain
	default:
		return KindUnknown
	}
}
