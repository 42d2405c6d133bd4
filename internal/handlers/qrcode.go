package handlers

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"

	"verikyc/internal/proof"
)

// GET /api/v1/verifications/{id}/qrcode
// Renders a QR pointing at the frontend verification page for the record.
func GetVerificationQRCode(w http.ResponseWriter, r *http.Request) {
	verID := chi.URLParam(r, "id")
	if verID == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}

	base := os.Getenv("FRONTEND_BASE_URL")
	if base == "" {
		base = "http://localhost:3000"
	}
	data := trimRightSlash(base) + "/verification/" + verID

	png, err := qrcode.Encode(data, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// POST /api/v1/proofs/qrcode
// Body is a proof response; the reply is a PNG QR of its transport URI so
// the holder can present the proof to an offline verifier.
func ProofQRCode(w http.ResponseWriter, r *http.Request) {
	var resp proof.Response
	if err := json.NewDecoder(r.Body).Decode(&resp); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	uri, err := proof.EncodeTransport(&resp)
	if err != nil {
		http.Error(w, "failed to encode proof", http.StatusInternalServerError)
		return
	}

	// High correction level: these codes get scanned off phone screens.
	png, err := qrcode.Encode(uri, qrcode.High, 384)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
