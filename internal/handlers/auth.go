package handlers

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"verikyc/internal/db"
	"verikyc/internal/middleware"
	"verikyc/internal/models"
	"verikyc/internal/proof"
	"verikyc/pkg/token"
)

// Redis is wired at startup. Login nonces live here with a short TTL.
var Redis *redis.Client

const nonceTTL = 5 * time.Minute

// GetNonce: POST /getnonce
// Body: {"address": "0x..."}. Returns a one-time message the wallet must
// sign to log in.
func GetNonce(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	addr, _ := body["address"].(string)
	addr = strings.TrimSpace(addr)
	if addr == "" {
		http.Error(w, "address is required", http.StatusBadRequest)
		return
	}

	nonce := "verikyc login " + uuid.NewString()
	if err := Redis.Set(r.Context(), nonceKey(addr), nonce, nonceTTL).Err(); err != nil {
		http.Error(w, "failed to store nonce", http.StatusInternalServerError)
		return
	}
	writeJSONResp(w, http.StatusOK, map[string]any{"nonce": nonce})
}

// LoginInMetamask: POST /auth/metamasklogin
// Body: {"address": "0x...", "signature": "0x..."}. The signature is the
// wallet's personal_sign over the nonce from /getnonce.
func LoginInMetamask(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	addr, _ := body["address"].(string)
	sigHex, _ := body["signature"].(string)
	addr = strings.TrimSpace(addr)
	if addr == "" || sigHex == "" {
		http.Error(w, "address and signature are required", http.StatusBadRequest)
		return
	}

	nonce, err := Redis.Get(r.Context(), nonceKey(addr)).Result()
	if err != nil {
		http.Error(w, "nonce expired or never issued", http.StatusUnauthorized)
		return
	}

	sig, err := hex.DecodeString(strings.TrimPrefix(sigHex, "0x"))
	if err != nil || len(sig) != 65 {
		http.Error(w, "malformed signature", http.StatusBadRequest)
		return
	}
	// Wallets return V as 27/28; go-ethereum expects 0/1.
	if sig[64] >= 27 {
		sig[64] -= 27
	}

	recovered, err := proof.RecoverSigner([]byte(nonce), sig)
	if err != nil || !equalCaseInsensitive(recovered, addr) {
		http.Error(w, "signature does not match address", http.StatusUnauthorized)
		return
	}

	// One-time use
	_ = Redis.Del(r.Context(), nonceKey(addr)).Err()

	// Find or create the account for this wallet
	var acc models.Accounts
	err = db.DB.Where("metamask_address = ?", addr).First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		acc = models.Accounts{MetamaskAddress: addr}
		if err := db.DB.Create(&acc).Error; err != nil {
			http.Error(w, "failed to create account", http.StatusInternalServerError)
			return
		}
		log.Println("created account for wallet", addr)
	} else if err != nil {
		http.Error(w, "database error", http.StatusInternalServerError)
		return
	}

	tok, err := token.Create(addr)
	if err != nil {
		http.Error(w, "failed to issue session token", http.StatusInternalServerError)
		return
	}
	writeJSONResp(w, http.StatusOK, map[string]any{
		"token":   tok,
		"account": acc,
	})
}

// AuthMe returns the current wallet's auth status and profile.
// GET /api/v1/auth/me (protected)
func AuthMe(w http.ResponseWriter, r *http.Request) {
	addr, ok := r.Context().Value(middleware.MetamaskAddressKey).(string)
	if !ok || addr == "" {
		http.Error(w, "metamaskAddress is missing or invalid", http.StatusBadRequest)
		return
	}

	var acc models.Accounts
	_ = db.DB.Where("metamask_address = ?", addr).First(&acc).Error

	var verifications int64
	_ = db.DB.Model(&models.VerificationRecord{}).Where("wallet_address = ?", addr).Count(&verifications).Error

	writeJSONResp(w, http.StatusOK, map[string]any{
		"address":         addr,
		"has_account":     acc.ID != 0,
		"account":         acc,
		"verifications":   verifications,
		"isAuthenticated": true,
	})
}

func nonceKey(addr string) string {
	return "login-nonce:" + strings.ToLower(strings.TrimSpace(addr))
}
