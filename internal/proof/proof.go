// Package proof implements the peer-to-peer proof boundary: a verifier
// issues a challenge, the holder answers with a zero-knowledge proof bound
// to their device key, and replays are caught through nullifiers. Proof
// generation itself sits behind the Prover interface so the circuit backend
// can live out of process.
package proof

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"verikyc/internal/identity"
)

// Kind selects which circuit a challenge targets.
type Kind uint8

const (
	KindAge Kind = iota + 1
	KindResidency
	KindNationality
	KindCredit
	KindComposite
)

func (k Kind) String() string {
	switch k {
	case KindAge:
		return "age"
	case KindResidency:
		return "residency"
	case KindNationality:
		return "nationality"
	case KindCredit:
		return "credit"
	case KindComposite:
		return "composite"
	}
	return "unknown"
}

// Request is what a verifier hands to a holder to ask for a proof.
type Request struct {
	Kind            Kind      `json:"proof_type"`
	Challenge       Challenge `json:"challenge"`
	VerifierAddress string    `json:"verifier_address"`
	Nonce           string    `json:"nonce"`
}

// Challenge carries the public thresholds the circuit checks against and
// the per-session secret the nullifier is derived from.
type Challenge struct {
	CurrentDate         uint64 `json:"current_date"`
	MinAge              uint64 `json:"min_age"`
	RequiredNationality uint64 `json:"required_nationality"`
	RequiredResidency   uint64 `json:"required_residency"`
	NullifierSecret     string `json:"nullifier_secret"`
}

// Response is the holder's answer: the proof, its public signals, a device
// signature over the proof, and the nullifier that makes it single-use.
type Response struct {
	Proof         string   `json:"proof"`
	PublicSignals []string `json:"public_signals"`
	Signature     string   `json:"signature"`
	PublicKey     string   `json:"public_key"`
	NullifierHash string   `json:"nullifier_hash"`
	Commitment    string   `json:"commitment"`
	Timestamp     int64    `json:"timestamp"`
}

// Prover generates and checks circuit proofs. Implementations wrap whatever
// proving backend is deployed; this package never inspects proof bytes.
type Prover interface {
	Prove(ctx context.Context, inputs *identity.CircuitInputs, req Request) (proof string, publicSignals []string, err error)
	Verify(ctx context.Context, proof string, publicSignals []string) (bool, error)
}

// Store tracks which nullifiers have already been accepted. MarkSeen returns
// true when the nullifier is fresh and has now been recorded.
type Store interface {
	MarkSeen(ctx context.Context, nullifier string, ttl time.Duration) (bool, error)
}

var (
	ErrProofRejected      = errors.New("proof: circuit verification failed")
	ErrBadDeviceSignature = errors.New("proof: device signature invalid")
	ErrReplayedNullifier  = errors.New("proof: nullifier already used")
)

// DefaultNullifierTTL bounds how long an accepted nullifier is remembered.
// A challenge secret is per-session, so a day is generous.
const DefaultNullifierTTL = 24 * time.Hour

type Service struct {
	prover Prover
	signer DeviceSigner
	seen   Store
	ttl    time.Duration
	now    func() time.Time
}

func NewService(prover Prover, signer DeviceSigner, seen Store) *Service {
	return &Service{
		prover: prover,
		signer: signer,
		seen:   seen,
		ttl:    DefaultNullifierTTL,
		now:    time.Now,
	}
}

// Respond builds the holder's answer to a challenge. The public signal
// layout is [kind, ...circuit signals, nullifier, commitment].
func (s *Service) Respond(ctx context.Context, inputs *identity.CircuitInputs, req Request) (*Response, error) {
	nullifier := Nullifier(inputs.IdentityCommitment, req.Challenge.NullifierSecret)

	proofStr, signals, err := s.prover.Prove(ctx, inputs, req)
	if err != nil {
		return nil, fmt.Errorf("generate proof: %w", err)
	}

	sig, err := s.signer.Sign([]byte(proofStr))
	if err != nil {
		return nil, fmt.Errorf("sign proof: %w", err)
	}

	all := make([]string, 0, len(signals)+3)
	all = append(all, strconv.Itoa(int(req.Kind)))
	all = append(all, signals...)
	all = append(all, nullifier, inputs.IdentityCommitment)

	return &Response{
		Proof:         proofStr,
		PublicSignals: all,
		Signature:     hex.EncodeToString(sig),
		PublicKey:     hex.EncodeToString(s.signer.PublicKey()),
		NullifierHash: nullifier,
		Commitment:    inputs.IdentityCommitment,
		Timestamp:     s.now().Unix(),
	}, nil
}

// Accept runs the verifier side: circuit check, device signature check, and
// nullifier freshness, in that order. Only a fully valid response marks its
// nullifier as seen.
func (s *Service) Accept(ctx context.Context, resp *Response) error {
	ok, err := s.prover.Verify(ctx, resp.Proof, resp.PublicSignals)
	if err != nil {
		return fmt.Errorf("verify proof: %w", err)
	}
	if !ok {
		return ErrProofRejected
	}

	pub, err := hex.DecodeString(resp.PublicKey)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadDeviceSignature, err)
	}
	sig, err := hex.DecodeString(resp.Signature)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadDeviceSignature, err)
	}
	if !VerifyDeviceSignature(pub, []byte(resp.Proof), sig) {
		return ErrBadDeviceSignature
	}

	fresh, err := s.seen.MarkSeen(ctx, resp.NullifierHash, s.ttl)
	if err != nil {
		return fmt.Errorf("nullifier store: %w", err)
	}
	if !fresh {
		return ErrReplayedNullifier
	}
	return nil
}

const transportPrefix = "verikyc://verify?proof="

// EncodeTransport packs a response into the deep-link form carried over QR
// codes and direct links.
func EncodeTransport(resp *Response) (string, error) {
	raw, err := json.Marshal(resp)
	if err != nil {
		return "", err
	}
	return transportPrefix + base64.URLEncoding.EncodeToString(raw), nil
}

// DecodeTransport reverses EncodeTransport.
func DecodeTransport(uri string) (*Response, error) {
	payload, ok := strings.CutPrefix(uri, transportPrefix)
	if !ok {
		return nil, fmt.Errorf("proof: unrecognized transport uri")
	}
	raw, err := base64.URLEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("proof: decode transport payload: %w", err)
	}
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("proof: decode transport payload: %w", err)
	}
	return &resp, nil
}
