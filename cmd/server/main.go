package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/redis/go-redis/v9"

	"verikyc/internal/config"
	"verikyc/internal/db"
	"verikyc/internal/ekyc"
	"verikyc/internal/handlers"
	"verikyc/internal/nullifier"
	"verikyc/internal/proof"
	"verikyc/internal/router"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal("config: ", err)
	}

	db.Init()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("redis ping failed: ", err)
	}
	handlers.Redis = rdb

	// Pinned issuer certificates. Refusing to start without them is the
	// point: there is no verification without a trust anchor.
	trust, err := ekyc.NewTrustStoreFromFile(cfg.TrustStorePath)
	if err != nil {
		log.Fatal("trust store: ", err)
	}
	verifier, err := ekyc.NewVerifier(trust)
	if err != nil {
		log.Fatal("verifier: ", err)
	}
	handlers.Verifier = verifier
	log.Printf("loaded %d trusted issuer certificate(s)", trust.Len())

	signer, err := loadSigner()
	if err != nil {
		log.Fatal("device signer: ", err)
	}
	prover := proof.NewHTTPProver(envOr("PROVER_URL", "http://localhost:9090"))
	handlers.Proofs = proof.NewService(prover, signer, nullifier.NewRedisStore(rdb))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.RegisterRouter(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Println("starting verikyc on :" + cfg.Port)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("graceful shutdown failed: ", err)
	}
}

// loadSigner uses DEVICE_KEY (hex secp256k1) when provided, otherwise an
// ephemeral key. Persistent keys matter only when this node also responds
// to challenges.
func loadSigner() (proof.DeviceSigner, error) {
	if hexKey := os.Getenv("DEVICE_KEY"); hexKey != "" {
		key, err := crypto.HexToECDSA(hexKey)
		if err != nil {
			return nil, err
		}
		return proof.WalletSignerFromKey(key), nil
	}
	return proof.NewWalletSigner()
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
