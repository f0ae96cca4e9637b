package filmpulse

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

type Keypair struct {
	private ed25519.PrivateKey
}

func NewKeypair() (Keypair, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return Keypair{}, err
	}
	return Keypair{private: priv}, nil
}

func KeypairFromSeed(seed []byte) (Keypair, error) {
	if len(seed) != ed25519.SeedSize {
		return Keypair{}, fmt.Errorf("invalid seed length: expected %d, got %d", ed25519.SeedSize, len(seed))
	}
	return Keypair{private: ed25519.NewKeyFromSeed(seed)}, nil
}

func (k Keypair) Pubkey() Pubkey {
	var p Pubkey
	copy(p[:], k.private.Public().(ed25519.PublicKey))
	return p
}

func (k Keypair) Sign(message []byte) []byte {
	return ed25519.Sign(k.private, message)
}

func VerifySignature(message, signature []byte, signer Pubkey) error {
	if len(signature) != ed25519.SignatureSize {
		return fmt.Errorf("invalid signature length: %d", len(signature))
	}
	if !ed25519.Verify(ed25519.PublicKey(signer[:]), message, signature) {
		return fmt.Errorf("signature mismatch for %s", signer)
	}
	return nil
}

func GetHash(b []byte) [32]byte {
	return blake2b.Sum256(b)
}

// CommitID identifies a signed document by the hash of its exact text.
func CommitID(document string) string {
	hash := GetHash([]byte(document))
	return base58.Encode(hash[:])
}

// SignDocument serializes doc with the keypair as signer and attaches the proof.
func SignDocument[T any](doc Document[T], kp Keypair) (SignedDocument, error) {
	doc.Signer = kp.Pubkey()
	b, err := json.Marshal(doc)
	if err != nil {
		return SignedDocument{}, err
	}
	signature := kp.Sign(b)
	return SignedDocument{
		Document: string(b),
		Proof: Proof{
			Type:      ProofTypeEd25519,
			Signature: base58.Encode(signature),
		},
	}, nil
}
