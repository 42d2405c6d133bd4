package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"verikyc/internal/db"
	"verikyc/internal/metrics"
	"verikyc/internal/models"
	"verikyc/internal/proof"
)

// Proofs is wired at startup with the prover backend and nullifier store.
var Proofs *proof.Service

// CreateChallenge: POST /api/v1/proofs/challenge
// Body: {"proof_type": 1, "min_age": 18, ...}. Issues the challenge a holder
// answers with a proof; the nullifier secret is fresh per challenge.
func CreateChallenge(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Kind                proof.Kind `json:"proof_type"`
		MinAge              uint64     `json:"min_age"`
		RequiredNationality uint64     `json:"required_nationality"`
		RequiredResidency   uint64     `json:"required_residency"`
		VerifierAddress     string     `json:"verifier_address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"status": "Bad_Request", "message": "invalid JSON body"})
		return
	}
	if body.Kind == 0 {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"status": "Bad_Request", "message": "proof_type is required"})
		return
	}

	now := time.Now().UTC()
	req := proof.Request{
		Kind: body.Kind,
		Challenge: proof.Challenge{
			CurrentDate:         uint64(now.Year())*10000 + uint64(now.Month())*100 + uint64(now.Day()),
			MinAge:              body.MinAge,
			RequiredNationality: body.RequiredNationality,
			RequiredResidency:   body.RequiredResidency,
			NullifierSecret:     uuid.NewString(),
		},
		VerifierAddress: body.VerifierAddress,
		Nonce:           uuid.NewString(),
	}
	writeJSONResp(w, http.StatusOK, req)
}

// SubmitProof: POST /api/v1/proofs/submit
// Body is a proof response as produced by the holder. Replays answer 409.
func SubmitProof(w http.ResponseWriter, r *http.Request) {
	var resp proof.Response
	if err := json.NewDecoder(r.Body).Decode(&resp); err != nil {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"status": "Bad_Request", "message": "invalid JSON body"})
		return
	}
	if resp.Proof == "" || resp.NullifierHash == "" {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"status": "Bad_Request", "message": "proof and nullifier_hash are required"})
		return
	}

	submitDecoded(w, r, &resp)
}

// SubmitProofURI: POST /api/v1/proofs/submit-uri
// Body: {"uri": "verikyc://verify?proof=..."} for QR-scanned submissions.
func SubmitProofURI(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URI string `json:"uri"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.URI == "" {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"status": "Bad_Request", "message": "uri is required"})
		return
	}
	resp, err := proof.DecodeTransport(body.URI)
	if err != nil {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"status": "Bad_Request", "message": err.Error()})
		return
	}
	submitDecoded(w, r, resp)
}

func submitDecoded(w http.ResponseWriter, r *http.Request, resp *proof.Response) {
	err := Proofs.Accept(r.Context(), resp)
	recordSubmission(resp, err == nil)
	switch {
	case err == nil:
		metrics.ProofSubmissionsTotal.WithLabelValues("accepted").Inc()
		writeJSONResp(w, http.StatusOK, map[string]any{"status": "Accepted", "nullifier_hash": resp.NullifierHash})
	case errors.Is(err, proof.ErrReplayedNullifier):
		metrics.ProofSubmissionsTotal.WithLabelValues("replayed").Inc()
		writeJSONResp(w, http.StatusConflict, map[string]any{"status": "Replayed", "message": "this proof was already presented"})
	case errors.Is(err, proof.ErrBadDeviceSignature):
		metrics.ProofSubmissionsTotal.WithLabelValues("bad_signature").Inc()
		writeJSONResp(w, http.StatusUnauthorized, map[string]any{"status": "Rejected", "message": "device signature invalid"})
	case errors.Is(err, proof.ErrProofRejected):
		metrics.ProofSubmissionsTotal.WithLabelValues("rejected").Inc()
		writeJSONResp(w, http.StatusUnprocessableEntity, map[string]any{"status": "Rejected", "message": "proof did not verify"})
	default:
		metrics.ProofSubmissionsTotal.WithLabelValues("error").Inc()
		writeJSONResp(w, http.StatusInternalServerError, map[string]any{"status": "Server_Error", "message": err.Error()})
	}
}

func recordSubmission(resp *proof.Response, accepted bool) {
	if db.DB == nil {
		return
	}
	kind := ""
	if len(resp.PublicSignals) > 0 {
		kind = resp.PublicSignals[0]
	}
	row := models.ProofSubmission{
		ID:            uuid.NewString(),
		NullifierHash: resp.NullifierHash,
		Commitment:    resp.Commitment,
		ProofKind:     kind,
		Accepted:      accepted,
		CreatedAt:     time.Now(),
	}
	if err := db.DB.Create(&row).Error; err != nil {
		log.Println("proofs: failed to persist submission:", err)
	}
}
