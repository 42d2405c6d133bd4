package models

import (
	"time"

	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB(d *gorm.DB) { DB = d }

// Accounts maps a wallet address to a holder profile. The wallet is the
// identity anchor; everything else is optional display data.
type Accounts struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	MetamaskAddress string    `gorm:"uniqueIndex;not null" json:"metamask_address"`
	DisplayName     string    `json:"display_name"`
	Email           string    `json:"email"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// VerificationRecord is what we persist after a successful document
// verification. Only derived and redacted values are stored; the demographic
// payload itself never touches the database.
type VerificationRecord struct {
	ID                    string    `gorm:"primaryKey" json:"id"`
	WalletAddress         string    `gorm:"index" json:"wallet_address"`
	ReferenceID           string    `json:"reference_id"`
	IDLast4               string    `json:"id_last_4"`
	StateCode             uint32    `json:"state_code"`
	AgeAtVerification     int       `json:"age_at_verification"`
	Commitment            string    `json:"commitment"`
	SignatureValid        bool      `json:"signature_valid"`
	CertificateChainValid bool      `json:"certificate_chain_valid"`
	CreatedAt             time.Time `json:"created_at"`
}

// ProofSubmission records the outcome of a proof presented to us as
// verifier. The nullifier is unique so a replay shows up as a constraint
// violation even if the cache misses.
type ProofSubmission struct {
	ID              string    `gorm:"primaryKey" json:"id"`
	NullifierHash   string    `gorm:"uniqueIndex" json:"nullifier_hash"`
	Commitment      string    `json:"commitment"`
	ProofKind       string    `json:"proof_kind"`
	VerifierAddress string    `json:"verifier_address"`
	Accepted        bool      `json:"accepted"`
	CreatedAt       time.Time `json:"created_at"`
}
