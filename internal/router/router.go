package router

import (
	"fmt"
	"net/http"

	"verikyc/internal/handlers"
	"verikyc/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORSMiddleware)
	r.Use(middleware.LoggingMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	r.Handle("/metrics", promhttp.Handler())

	// Wallet login
	r.Post("/getnonce", handlers.GetNonce)
	r.Post("/auth/metamasklogin", handlers.LoginInMetamask)

	// Document verification (public: the document plus share code is the
	// credential, no session required)
	r.With(middleware.OptionalAuthMiddleware).Post("/api/v1/verify-document", handlers.VerifyDocument)
	r.With(middleware.OptionalAuthMiddleware).Post("/api/v1/inspect-document", handlers.InspectDocument)
	r.Post("/api/v1/match-name", handlers.MatchName)

	// Manual identity input and circuit staging
	r.Post("/api/v1/identity/validate", handlers.ValidateIdentity)
	r.Post("/api/v1/identity/circuit-inputs", handlers.CircuitInputs)

	// P2P proof exchange
	r.Post("/api/v1/proofs/challenge", handlers.CreateChallenge)
	r.Post("/api/v1/proofs/submit", handlers.SubmitProof)
	r.Post("/api/v1/proofs/submit-uri", handlers.SubmitProofURI)
	r.Post("/api/v1/proofs/qrcode", handlers.ProofQRCode)

	// Shared verification view (token required via query param)
	r.Get("/api/v1/verification-info/{id}", handlers.GetVerificationInfo)
	r.Get("/api/v1/verifications/{id}/qrcode", handlers.GetVerificationQRCode)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware)
		r.Get("/api/v1/auth/me", handlers.AuthMe)
		r.Get("/dashboard", handlers.ShowAccount)
		r.Post("/api/v1/account", handlers.UpdateAccount)
		r.Get("/api/v1/verifications", handlers.ListVerifications)
		r.Post("/api/v1/verifications/generate-share-link", handlers.GenerateShareLink)
	})
	return r
}
