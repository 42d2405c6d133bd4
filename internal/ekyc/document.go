package ekyc

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// rootElements are the document roots whose attributes carry the demographic
// fields, one per issuer document generation.
var rootElements = map[string]bool{
	"OfflinePaperlessKyc":    true,
	"PrintLetterBarcodeData": true,
}

// parseFields streams the document and flattens it into a name -> value map:
// attributes of the root element are captured directly, and every other
// element contributes its trimmed inner text keyed by local name. Repeats
// overwrite (last occurrence wins), matching the field-per-element shape of
// the document. Any structural error aborts immediately.
func parseFields(doc []byte) (map[string]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(doc))
	fields := make(map[string]string)
	current := ""

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			current = t.Name.Local
			if rootElements[t.Name.Local] {
				for _, attr := range t.Attr {
					fields[attr.Name.Local] = attr.Value
				}
			}
		case xml.CharData:
			if current == "" {
				continue
			}
			if text := strings.TrimSpace(string(t)); text != "" {
				fields[current] = text
			}
		case xml.EndElement:
			current = ""
		}
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: document carries no fields", ErrMalformedDocument)
	}
	return fields, nil
}

// requiredFields are checked individually so a schema failure names the
// exact missing key.
var requiredFields = []string{"name", "dob", "gender", "vtc", "dist", "state", "pc"}

// buildRecord converts the raw field map into a typed record. Trust flags
// are left false here; only the orchestrator sets them.
func buildRecord(fields map[string]string) (*VerifiedIdentityRecord, error) {
	for _, key := range requiredFields {
		if strings.TrimSpace(fields[key]) == "" {
			return nil, &MissingFieldError{Field: key}
		}
	}

	dob, err := ParseDate(fields["dob"])
	if err != nil {
		return nil, err
	}

	addr := Address{
		CareOf:     fields["co"],
		House:      fields["house"],
		Street:     fields["street"],
		Landmark:   fields["lm"],
		Locality:   fields["loc"],
		VTC:        fields["vtc"],
		PostOffice: fields["po"],
		Subdist:    fields["subdist"],
		District:   fields["dist"],
		State:      fields["state"],
		Pincode:    fields["pc"],
		Country:    fields["country"],
	}
	if addr.Country == "" {
		addr.Country = "India"
	}

	refID := fields["referenceId"]
	if refID == "" {
		refID = fields["uid"]
	}
	if refID == "" {
		refID = "N/A"
	}

	generated := fields["generatedDate"]
	if generated == "" {
		generated = time.Now().Format("2006-01-02")
	}

	return &VerifiedIdentityRecord{
		Name:          fields["name"],
		DateOfBirth:   dob,
		Gender:        ParseGender(fields["gender"]),
		Address:       addr,
		PhotoBase64:   fields["photo"],
		MobileHash:    fields["mobileHash"],
		EmailHash:     fields["emailHash"],
		ReferenceID:   refID,
		GeneratedDate: generated,
		IDLast4:       lastFourDigits(fields["uid"]),
	}, nil
}

// lastFourDigits strips mask characters and whitespace from the (masked)
// identity number and keeps only its last four characters. The full number
// must never be retained.
func lastFourDigits(uid string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case 'X', 'x', '*', ' ', '-':
			return -1
		}
		return r
	}, uid)
	if len(cleaned) < 4 {
		return "****"
	}
	return cleaned[len(cleaned)-4:]
}
