package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// nameMatchThreshold is the Jaro-Winkler similarity above which two names
// are treated as the same person despite transliteration noise.
const nameMatchThreshold = 0.85

// MatchName: POST /api/v1/match-name
// Fuzzy-compares the name a service holds on file against the name on the
// verified document.
func MatchName(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RecordedName string `json:"recorded_name"`
		DocumentName string `json:"document_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"status": "Bad_Request", "message": "invalid JSON body"})
		return
	}

	recorded := strings.TrimSpace(body.RecordedName)
	document := strings.TrimSpace(body.DocumentName)
	if recorded == "" || document == "" {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"status": "Bad_Request", "message": "recorded_name and document_name are required"})
		return
	}

	metric := metrics.NewJaroWinkler()
	conf := strutil.Similarity(strings.ToLower(recorded), strings.ToLower(document), metric)

	status := "Matched"
	if conf < nameMatchThreshold {
		status = "Mismatch"
	}
	writeJSONResp(w, http.StatusOK, map[string]any{
		"status":           status,
		"match_confidence": conf,
	})
}
