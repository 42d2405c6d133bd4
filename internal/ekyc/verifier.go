package ekyc

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// verifySignature checks the canonical content against the declared
// signature using the pinned trust store. It succeeds iff at least one
// pinned certificate's public key validates the signature.
//
// This is the security boundary of the whole pipeline: there is no length
// heuristic and no shortcut here. A decoded signature shorter than the
// candidate key's modulus is rejected outright.
func verifySignature(canonical []byte, desc SignatureDescriptor, trust *TrustStore) error {
	if trust == nil || trust.Len() == 0 {
		return fmt.Errorf("%w: no pinned certificates", ErrCertificate)
	}
	if desc.SignatureAlgorithm != algoRSASHA256 || desc.DigestAlgorithm != algoDigestSHA256 {
		return fmt.Errorf("%w: %s/%s", ErrUnsupportedAlgorithm, desc.SignatureAlgorithm, desc.DigestAlgorithm)
	}

	sig, err := base64.StdEncoding.DecodeString(string(desc.Value))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSignatureDecode, err)
	}
	if len(sig) == 0 {
		return fmt.Errorf("%w: empty signature value", ErrSignatureDecode)
	}

	digest := sha256.Sum256(canonical)

	for _, cert := range trust.certs {
		pub, ok := cert.PublicKey.(*rsa.PublicKey)
		if !ok {
			continue
		}
		// A PKCS#1 v1.5 signature is exactly the modulus length; anything
		// shorter is implausible for this key and is not retried.
		if len(sig) < pub.Size() {
			continue
		}
		if err := rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], sig); err == nil {
			return nil
		}
	}
	return ErrSignatureMismatch
}
