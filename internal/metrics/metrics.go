// Package metrics registers the service's Prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// VerificationsTotal counts document verifications by outcome.
	// outcome: "verified", "signature_invalid", "rejected", "error"
	VerificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verikyc_verifications_total",
		Help: "Total e-KYC document verifications by outcome",
	}, []string{"outcome"})

	// ProofSubmissionsTotal counts proofs presented to us as verifier.
	// result: "accepted", "replayed", "bad_signature", "rejected", "error"
	ProofSubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verikyc_proof_submissions_total",
		Help: "Total P2P proof submissions by result",
	}, []string{"result"})

	// VerifyDuration tracks end-to-end verification latency, which is
	// dominated by archive extraction and RSA checks.
	VerifyDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "verikyc_verify_duration_seconds",
		Help:    "Duration of full document verification",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	})
)
