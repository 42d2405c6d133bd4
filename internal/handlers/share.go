package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"verikyc/internal/db"
	"verikyc/internal/middleware"
	"verikyc/internal/models"
)

type shareClaims struct {
	VerificationID string `json:"verification_id"`
	jwt.RegisteredClaims
}

type generateShareLinkResp struct {
	ShareableURL string `json:"shareable_url"`
}

func getShareSecret() ([]byte, error) {
	if s := os.Getenv("SHARE_TOKEN_SECRET"); s != "" {
		return []byte(s), nil
	}
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s), nil
	}
	return nil, errors.New("missing SHARE_TOKEN_SECRET/JWT_SECRET")
}

// POST /api/v1/verifications/generate-share-link (protected)
// Issues a time-boxed link a third party can open to see the redacted
// verification outcome without an account.
func GenerateShareLink(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	addr, ok := r.Context().Value(middleware.MetamaskAddressKey).(string)
	if !ok || addr == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	// Be liberal in what we accept from the frontend
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	verID := ""
	if v, ok := payload["verification_id"].(string); ok {
		verID = strings.TrimSpace(v)
	} else if v, ok := payload["verificationId"].(string); ok { // optional camelCase fallback
		verID = strings.TrimSpace(v)
	}
	if verID == "" {
		http.Error(w, "verification_id is required", http.StatusBadRequest)
		return
	}

	// expires_in_hours may come as number or string
	parseHours := func(x any) (int, bool) {
		switch t := x.(type) {
		case float64:
			return int(t), true
		case string:
			if i, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
				return i, true
			}
		}
		return 0, false
	}
	expires := 0
	if v, ok := payload["expires_in_hours"]; ok {
		if i, ok2 := parseHours(v); ok2 {
			expires = i
		}
	} else if v, ok := payload["expiresInHours"]; ok {
		if i, ok2 := parseHours(v); ok2 {
			expires = i
		}
	}
	// Enforce 1..168 hours to avoid immediately-expired tokens
	if expires < 1 || expires > 168 {
		http.Error(w, "expires_in_hours must be between 1 and 168", http.StatusBadRequest)
		return
	}

	// Verify ownership: record must belong to this wallet
	var rec models.VerificationRecord
	if err := db.DB.Where("id = ?", verID).First(&rec).Error; err != nil {
		http.Error(w, "verification not found", http.StatusNotFound)
		return
	}
	if rec.WalletAddress == "" || !equalCaseInsensitive(rec.WalletAddress, addr) {
		http.Error(w, "forbidden: not owner of verification", http.StatusForbidden)
		return
	}

	secret, err := getShareSecret()
	if err != nil {
		http.Error(w, "server misconfigured", http.StatusInternalServerError)
		return
	}

	exp := time.Now().Add(time.Duration(expires) * time.Hour)
	claims := shareClaims{
		VerificationID: verID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(secret)
	if err != nil {
		http.Error(w, "failed to sign share token", http.StatusInternalServerError)
		return
	}

	base := os.Getenv("FRONTEND_BASE_URL")
	if base == "" {
		base = "http://localhost:3000"
	}
	url := fmt.Sprintf("%s/verification/%s?token=%s", trimRightSlash(base), verID, signed)
	_ = json.NewEncoder(w).Encode(generateShareLinkResp{ShareableURL: url})
}

// GET /api/v1/verification-info/{id}?token=...
func GetVerificationInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "This verification link is invalid or has expired.", http.StatusUnauthorized)
		return
	}

	secret, err := getShareSecret()
	if err != nil {
		http.Error(w, "server misconfigured", http.StatusInternalServerError)
		return
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &shareClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		http.Error(w, "This verification link is invalid or has expired.", http.StatusUnauthorized)
		return
	}
	claims, ok := parsed.Claims.(*shareClaims)
	if !ok || claims.VerificationID == "" || claims.ExpiresAt == nil || time.Now().After(claims.ExpiresAt.Time) {
		http.Error(w, "This verification link is invalid or has expired.", http.StatusUnauthorized)
		return
	}
	if claims.VerificationID != id {
		http.Error(w, "forbidden: id mismatch", http.StatusForbidden)
		return
	}

	var rec models.VerificationRecord
	if err := db.DB.Where("id = ?", id).First(&rec).Error; err != nil {
		http.Error(w, "verification not found", http.StatusNotFound)
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"verification": rec,
		"valid_until":  claims.ExpiresAt.Time,
	})
}
