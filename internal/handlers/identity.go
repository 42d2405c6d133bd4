package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"verikyc/internal/identity"
)

// ValidateIdentity: POST /api/v1/identity/validate
// Body is a ManualIdentityData JSON object.
func ValidateIdentity(w http.ResponseWriter, r *http.Request) {
	var data identity.ManualIdentityData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"status": "Bad_Request", "message": "invalid JSON body"})
		return
	}

	result := identity.ValidateInput(data, time.Now())
	writeJSONResp(w, http.StatusOK, map[string]any{
		"valid":  result.IsValid(),
		"issues": result.Issues,
	})
}

// CircuitInputs: POST /api/v1/identity/circuit-inputs
// Validates the payload, then stages the derived values a prover consumes.
func CircuitInputs(w http.ResponseWriter, r *http.Request) {
	var data identity.ManualIdentityData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"status": "Bad_Request", "message": "invalid JSON body"})
		return
	}

	result := identity.ValidateInput(data, time.Now())
	if !result.IsValid() {
		writeJSONResp(w, http.StatusUnprocessableEntity, map[string]any{
			"status": "Invalid_Input",
			"issues": result.Issues,
		})
		return
	}

	inputs, err := identity.NewCircuitInputs(data, time.Now())
	if err != nil {
		writeJSONResp(w, http.StatusUnprocessableEntity, map[string]any{"status": "Invalid_Input", "message": err.Error()})
		return
	}

	writeJSONResp(w, http.StatusOK, map[string]any{
		"status": "Staged",
		"inputs": inputs,
	})
}
