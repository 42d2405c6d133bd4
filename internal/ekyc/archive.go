package ekyc

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yeka/zip"
)

// documentExtension is the entry suffix the issuer uses for the signed
// payload inside the archive.
const documentExtension = ".xml"

// ExtractDocument opens a password-protected ZIP archive and returns the raw
// bytes of the first entry carrying the expected document extension.
//
// Exactly one share code is tried per call; this function never guesses.
// A wrong share code and a corrupt entry are reported identically as
// ErrWrongSecretOrCorrupt because the archive encryption cannot tell them
// apart.
func ExtractDocument(archive []byte, shareCode string) ([]byte, error) {
	r, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}

	for _, f := range r.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), documentExtension) {
			continue
		}

		if f.IsEncrypted() {
			f.SetPassword(shareCode)
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open %q: %v", ErrWrongSecretOrCorrupt, f.Name, err)
		}
		doc, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			// AES entries authenticate on read, so a bad share code can
			// surface here rather than at Open.
			return nil, fmt.Errorf("%w: read %q: %v", ErrWrongSecretOrCorrupt, f.Name, err)
		}
		return doc, nil
	}

	return nil, ErrDocumentNotFound
}
