package filmpulse

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPubkeyTextRoundTrip(t *testing.T) {
	p := MustParsePubkey(DefaultProgramID)
	assert.Equal(t, DefaultProgramID, p.String())
	assert.False(t, p.IsZero())

	b, err := json.Marshal(struct {
		Key Pubkey `json:"key"`
	}{Key: p})
	require.NoError(t, err)
	assert.JSONEq(t, `{"key":"`+DefaultProgramID+`"}`, string(b))
}

func TestParsePubkeyRejectsBadInput(t *testing.T) {
	_, err := ParsePubkey("")
	assert.Error(t, err)

	_, err = ParsePubkey("0OIl")
	assert.Error(t, err)

	_, err = ParsePubkey(base58.Encode([]byte("short")))
	assert.Error(t, err)
}

func TestSignDocumentVerifies(t *testing.T) {
	kp, err := NewKeypair()
	require.NoError(t, err)

	sd, err := SignDocument(Document[map[string]int]{
		Schema:   "test",
		Value:    map[string]int{"x": 1},
		CreateAt: time.Unix(1700000000, 0).UTC(),
	}, kp)
	require.NoError(t, err)
	assert.Equal(t, ProofTypeEd25519, sd.Proof.Type)

	var doc Document[map[string]int]
	require.NoError(t, json.Unmarshal([]byte(sd.Document), &doc))
	assert.Equal(t, kp.Pubkey(), doc.Signer)

	sig, err := base58.Decode(sd.Proof.Signature)
	require.NoError(t, err)
	assert.NoError(t, VerifySignature([]byte(sd.Document), sig, kp.Pubkey()))
	assert.Error(t, VerifySignature([]byte(sd.Document+" "), sig, kp.Pubkey()))

	other, err := NewKeypair()
	require.NoError(t, err)
	assert.Error(t, VerifySignature([]byte(sd.Document), sig, other.Pubkey()))
}

func TestKeypairFromSeedIsDeterministic(t *testing.T) {
	seed := make([]byte, 32)
	a, err := KeypairFromSeed(seed)
	require.NoError(t, err)
	b, err := KeypairFromSeed(seed)
	require.NoError(t, err)
	assert.Equal(t, a.Pubkey(), b.Pubkey())

	_, err = KeypairFromSeed([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestCommitIDDependsOnText(t *testing.T) {
	assert.Equal(t, CommitID("a"), CommitID("a"))
	assert.NotEqual(t, CommitID("a"), CommitID("b"))
}
