package proof

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
)

// Nullifier derives the anti-replay value for a proof: MiMC over the BN254
// scalar field of (identity commitment, challenge secret). MiMC keeps the
// value cheap to recompute inside the circuit, and the output is a field
// element so it fits a single public signal.
//
// Deterministic: the same commitment and secret always produce the same
// nullifier, which is what lets a verifier detect replays.
func Nullifier(identityCommitment, nullifierSecret string) string {
	h := mimc.NewMiMC()
	h.Write(fieldBytes(identityCommitment))
	h.Write(fieldBytes(nullifierSecret))
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

// fieldBytes maps arbitrary input onto a canonical BN254 scalar encoding:
// SHA-256 first, then reduction into the field, so MiMC always receives a
// valid element regardless of input length.
func fieldBytes(s string) []byte {
	sum := sha256.Sum256([]byte(s))
	var e fr.Element
	e.SetBytes(sum[:])
	b := e.Bytes()
	return b[:]
}
