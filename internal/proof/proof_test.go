package proof

import (
	"context"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verikyc/internal/identity"
	"verikyc/internal/nullifier"
)

// stubProver accepts every proof and echoes a fixed payload, so the tests
// exercise the service wiring rather than a circuit backend.
type stubProver struct {
	rejectAll bool
}

func (p *stubProver) Prove(_ context.Context, _ *identity.CircuitInputs, req Request) (string, []string, error) {
	return "proof-bytes-" + req.Nonce, []string{"42"}, nil
}

func (p *stubProver) Verify(context.Context, string, []string) (bool, error) {
	return !p.rejectAll, nil
}

func testService(t *testing.T, prover Prover) (*Service, *WalletSigner) {
	t.Helper()
	signer, err := NewWalletSigner()
	require.NoError(t, err)
	return NewService(prover, signer, nullifier.NewMemoryStore()), signer
}

func testRequest() Request {
	return Request{
		Kind: KindAge,
		Challenge: Challenge{
			CurrentDate:     20250826,
			MinAge:          18,
			NullifierSecret: "session-secret-1",
		},
		VerifierAddress: "0x000000000000000000000000000000000000dEaD",
		Nonce:           "n-1",
	}
}

func testInputs() *identity.CircuitInputs {
	return &identity.CircuitInputs{
		BirthDate:          19900815,
		IdentityCommitment: "0xc0ffee",
	}
}

func TestNullifierDeterministic(t *testing.T) {
	a := Nullifier("0xc0ffee", "secret")
	b := Nullifier("0xc0ffee", "secret")
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "0x"))
	assert.Len(t, a, 66, "MiMC output is one BN254 field element")

	assert.NotEqual(t, a, Nullifier("0xc0ffee", "other-secret"))
	assert.NotEqual(t, a, Nullifier("0xdecade", "secret"))
}

func TestRespondThenAccept(t *testing.T) {
	svc, _ := testService(t, &stubProver{})
	ctx := context.Background()

	resp, err := svc.Respond(ctx, testInputs(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, "1", resp.PublicSignals[0], "first signal is the proof kind")
	assert.Equal(t, resp.NullifierHash, resp.PublicSignals[len(resp.PublicSignals)-2])
	assert.Equal(t, "0xc0ffee", resp.Commitment)
	assert.NotZero(t, resp.Timestamp)

	require.NoError(t, svc.Accept(ctx, resp))
}

func TestAcceptRejectsReplay(t *testing.T) {
	svc, _ := testService(t, &stubProver{})
	ctx := context.Background()

	resp, err := svc.Respond(ctx, testInputs(), testRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Accept(ctx, resp))
	err = svc.Accept(ctx, resp)
	assert.ErrorIs(t, err, ErrReplayedNullifier)
}

func TestAcceptRejectsTamperedProof(t *testing.T) {
	svc, _ := testService(t, &stubProver{})
	ctx := context.Background()

	resp, err := svc.Respond(ctx, testInputs(), testRequest())
	require.NoError(t, err)

	resp.Proof += "-tampered"
	err = svc.Accept(ctx, resp)
	assert.ErrorIs(t, err, ErrBadDeviceSignature)
}

func TestAcceptRejectsForeignSigner(t *testing.T) {
	svc, _ := testService(t, &stubProver{})
	ctx := context.Background()

	resp, err := svc.Respond(ctx, testInputs(), testRequest())
	require.NoError(t, err)

	other, err := NewWalletSigner()
	require.NoError(t, err)
	resp.PublicKey = hex.EncodeToString(other.PublicKey())

	err = svc.Accept(ctx, resp)
	assert.ErrorIs(t, err, ErrBadDeviceSignature)
}

func TestAcceptRejectsFailedCircuit(t *testing.T) {
	svc, _ := testService(t, &stubProver{rejectAll: true})
	resp, err := svc.Respond(context.Background(), testInputs(), testRequest())
	require.NoError(t, err)

	err = svc.Accept(context.Background(), resp)
	assert.ErrorIs(t, err, ErrProofRejected)
}

func TestDeviceSignatureRoundTrip(t *testing.T) {
	signer, err := NewWalletSigner()
	require.NoError(t, err)

	msg := []byte("attest this")
	sig, err := signer.Sign(msg)
	require.NoError(t, err)

	assert.True(t, VerifyDeviceSignature(signer.PublicKey(), msg, sig))
	assert.False(t, VerifyDeviceSignature(signer.PublicKey(), []byte("something else"), sig))

	addr, err := RecoverSigner(msg, sig)
	require.NoError(t, err)
	assert.Equal(t, signer.Address(), addr)
}

func TestTransportRoundTrip(t *testing.T) {
	svc, _ := testService(t, &stubProver{})
	resp, err := svc.Respond(context.Background(), testInputs(), testRequest())
	require.NoError(t, err)

	uri, err := EncodeTransport(resp)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "verikyc://verify?proof="))

	got, err := DecodeTransport(uri)
	require.NoError(t, err)
	assert.Equal(t, resp, got)

	_, err = DecodeTransport("https://example.com/?proof=abc")
	assert.Error(t, err)

	require.NoError(t, svc.Accept(context.Background(), got), "decoded response verifies end to end")
}
