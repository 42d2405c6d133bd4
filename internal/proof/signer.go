package proof

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"
)

// DeviceSigner binds a proof response to the device that produced it. The
// verifier checks the signature against the public key carried in the
// response, so a relayed response from another device fails verification.
type DeviceSigner interface {
	Sign(message []byte) ([]byte, error)
	PublicKey() []byte
}

// WalletSigner signs with a secp256k1 key using the Ethereum personal-message
// scheme, so the same key a user holds in their wallet can vouch for proofs.
type WalletSigner struct {
	key *ecdsa.PrivateKey
}

func NewWalletSigner() (*WalletSigner, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	return &WalletSigner{key: key}, nil
}

// WalletSignerFromKey wraps an existing key, e.g. one loaded from the
// device keystore.
func WalletSignerFromKey(key *ecdsa.PrivateKey) *WalletSigner {
	return &WalletSigner{key: key}
}

func (s *WalletSigner) Sign(message []byte) ([]byte, error) {
	return crypto.Sign(accounts.TextHash(message), s.key)
}

func (s *WalletSigner) PublicKey() []byte {
	return crypto.FromECDSAPub(&s.key.PublicKey)
}

// Address returns the checksummed Ethereum address of the signing key.
func (s *WalletSigner) Address() string {
	return crypto.PubkeyToAddress(s.key.PublicKey).Hex()
}

// VerifyDeviceSignature checks a 65-byte personal-message signature against
// an uncompressed secp256k1 public key.
func VerifyDeviceSignature(publicKey, message, signature []byte) bool {
	if len(signature) != crypto.SignatureLength {
		return false
	}
	// VerifySignature takes the 64-byte r||s form without the recovery id.
	return crypto.VerifySignature(publicKey, accounts.TextHash(message), signature[:64])
}

// RecoverSigner returns the Ethereum address that produced a personal-message
// signature, for matching against a wallet address on record.
func RecoverSigner(message, signature []byte) (string, error) {
	pub, err := crypto.SigToPub(accounts.TextHash(message), signature)
	if err != nil {
		return "", err
	}
	return crypto.PubkeyToAddress(*pub).Hex(), nil
}
