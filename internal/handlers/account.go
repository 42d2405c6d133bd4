package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"verikyc/internal/db"
	"verikyc/internal/middleware"
	"verikyc/internal/models"

	"gorm.io/gorm"
)

// UpdateAccount: POST /api/v1/account (protected)
// Fills in optional profile fields on the wallet's account. The account row
// itself is created at login.
func UpdateAccount(w http.ResponseWriter, r *http.Request) {
	log.Println("UpdateAccount called")
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	displayName, _ := body["display_name"].(string)
	email, _ := body["email"].(string)

	addr, ok := r.Context().Value(middleware.MetamaskAddressKey).(string)
	if !ok || addr == "" {
		http.Error(w, "metamaskAddress is missing or invalid", http.StatusBadRequest)
		return
	}

	var acc models.Accounts
	err := db.DB.Where("metamask_address = ?", addr).First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "account not found"})
		return
	} else if err != nil {
		http.Error(w, "database error", http.StatusInternalServerError)
		return
	}

	if s := strings.TrimSpace(displayName); s != "" {
		acc.DisplayName = s
	}
	if s := strings.TrimSpace(email); s != "" {
		acc.Email = s
	}
	if err := db.DB.Save(&acc).Error; err != nil {
		http.Error(w, "failed to update account", http.StatusInternalServerError)
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"account": acc})
}

// ShowAccount: GET /dashboard (protected)
func ShowAccount(w http.ResponseWriter, r *http.Request) {
	addr, ok := r.Context().Value(middleware.MetamaskAddressKey).(string)
	if !ok || addr == "" {
		http.Error(w, "metamaskAddress is missing or invalid", http.StatusBadRequest)
		return
	}

	var acc models.Accounts
	res := db.DB.Where("metamask_address = ?", addr).First(&acc)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "account not found"})
		return
	} else if res.Error != nil {
		http.Error(w, "database error", http.StatusInternalServerError)
		return
	}

	var verifications []models.VerificationRecord
	if err := db.DB.Where("wallet_address = ?", addr).Order("created_at DESC").Limit(20).Find(&verifications).Error; err != nil {
		http.Error(w, "database error", http.StatusInternalServerError)
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"account":       acc,
		"verifications": verifications,
	})
}

// ListVerifications: GET /api/v1/verifications (protected)
func ListVerifications(w http.ResponseWriter, r *http.Request) {
	addr, ok := r.Context().Value(middleware.MetamaskAddressKey).(string)
	if !ok || addr == "" {
		http.Error(w, "metamaskAddress is missing or invalid", http.StatusBadRequest)
		return
	}

	var rows []models.VerificationRecord
	if err := db.DB.Where("wallet_address = ?", addr).Order("created_at DESC").Find(&rows).Error; err != nil {
		http.Error(w, "database error", http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(rows)
}
