package handlers

import (
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"verikyc/internal/db"
	"verikyc/internal/ekyc"
	"verikyc/internal/identity"
	"verikyc/internal/metrics"
	"verikyc/internal/middleware"
	"verikyc/internal/models"
)

// Verifier is wired at startup with the pinned trust store.
var Verifier *ekyc.Verifier

// VerifyDocument: POST /api/v1/verify-document
// multipart/form-data with file field "document" and form field "share_code".
func VerifyDocument(w http.ResponseWriter, r *http.Request) {
	handleDocument(w, r, false)
}

// InspectDocument: POST /api/v1/inspect-document
// Same payload as verify-document, but returns the demographic record with
// validity flags even when the signature does not check out.
func InspectDocument(w http.ResponseWriter, r *http.Request) {
	handleDocument(w, r, true)
}

func handleDocument(w http.ResponseWriter, r *http.Request, inspect bool) {
	start := time.Now()

	// Limit body to 10MB
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"status": "Bad_Request", "message": "failed to parse form or file too large"})
		return
	}

	file, _, err := r.FormFile("document")
	if err != nil {
		// Tolerant fallback: some frontends use a different field name.
		if r.MultipartForm != nil && r.MultipartForm.File != nil {
			for _, alt := range []string{"file", "upload", "archive", "ekyc"} {
				if f2, _, err2 := r.FormFile(alt); err2 == nil {
					file, err = f2, nil
					log.Println("verify: using alternative file field:", alt)
					break
				}
			}
		}
		if err != nil {
			writeJSONResp(w, http.StatusBadRequest, map[string]any{"status": "Bad_Request", "message": "missing file field 'document' (send multipart/form-data with field name 'document')"})
			return
		}
	}
	defer file.Close()

	archive, err := io.ReadAll(file)
	if err != nil || len(archive) == 0 {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"status": "Bad_Request", "message": "failed to read uploaded file"})
		return
	}

	shareCode := strings.TrimSpace(r.FormValue("share_code"))
	if shareCode == "" {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"status": "Bad_Request", "message": "share_code is required"})
		return
	}

	var rec *ekyc.VerifiedIdentityRecord
	if inspect {
		rec, err = Verifier.InspectDocument(r.Context(), archive, shareCode)
	} else {
		rec, err = Verifier.VerifyDocument(r.Context(), archive, shareCode)
	}
	metrics.VerifyDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		status, outcome := classifyVerifyError(err)
		metrics.VerificationsTotal.WithLabelValues(outcome).Inc()
		label := "Rejected"
		if outcome == "signature_invalid" {
			label = "Signature_Invalid"
		}
		writeJSONResp(w, status, map[string]any{"status": label, "kind": string(ekyc.KindOf(err)), "message": err.Error()})
		return
	}

	outcome := "verified"
	if !rec.SignatureValid {
		outcome = "signature_invalid"
	}
	metrics.VerificationsTotal.WithLabelValues(outcome).Inc()

	result := map[string]any{
		"status": "Verified",
		"record": rec,
	}
	if !rec.SignatureValid {
		result["status"] = "Signature_Invalid"
		result["message"] = "The document parsed but its signature did not verify against the trusted issuers."
	}

	// Persist a redacted trail for authenticated callers only.
	if addr, ok := r.Context().Value(middleware.MetamaskAddressKey).(string); ok && addr != "" && rec.SignatureValid {
		if id := persistVerification(addr, rec); id != "" {
			result["verification_id"] = id
		}
	}

	writeJSONResp(w, http.StatusOK, result)
}

func classifyVerifyError(err error) (int, string) {
	switch ekyc.KindOf(err) {
	case ekyc.KindInputFormat:
		return http.StatusBadRequest, "rejected"
	case ekyc.KindAuthentication:
		return http.StatusUnauthorized, "rejected"
	case ekyc.KindSchema, ekyc.KindDomain:
		return http.StatusUnprocessableEntity, "rejected"
	case ekyc.KindTrust:
		return http.StatusUnprocessableEntity, "signature_invalid"
	}
	return http.StatusInternalServerError, "error"
}

func persistVerification(wallet string, rec *ekyc.VerifiedIdentityRecord) string {
	age, err := rec.AgeAt(time.Now())
	if err != nil {
		log.Println("verify: cannot derive age:", err)
		return ""
	}
	inputs, err := identity.FromRecord(rec, wallet, uint64(time.Now().Unix()), time.Now())
	if err != nil {
		log.Println("verify: cannot stage commitment:", err)
		return ""
	}
	row := models.VerificationRecord{
		ID:                    uuid.NewString(),
		WalletAddress:         wallet,
		ReferenceID:           rec.ReferenceID,
		IDLast4:               rec.IDLast4,
		StateCode:             rec.Address.StateCode(),
		AgeAtVerification:     age,
		Commitment:            inputs.IdentityCommitment,
		SignatureValid:        rec.SignatureValid,
		CertificateChainValid: rec.CertificateChainValid,
		CreatedAt:             time.Now(),
	}
	if err := db.DB.Create(&row).Error; err != nil {
		log.Println("verify: failed to persist verification record:", err)
		return ""
	}
	return row.ID
}
