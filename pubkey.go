package filmpulse

import (
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

const PubkeyLength = 32

var ErrInvalidPubkey = errors.New("invalid pubkey")

// Pubkey is an ed25519 public key. Its text form is base58.
type Pubkey [PubkeyLength]byte

func ParsePubkey(s string) (Pubkey, error) {
	var p Pubkey
	b, err := base58.Decode(s)
	if err != nil {
		return p, fmt.Errorf("%w %q: %v", ErrInvalidPubkey, s, err)
	}
	if len(b) != PubkeyLength {
		return p, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPubkey, PubkeyLength, len(b))
	}
	copy(p[:], b)
	return p, nil
}

func MustParsePubkey(s string) Pubkey {
	p, err := ParsePubkey(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Pubkey) String() string {
	return base58.Encode(p[:])
}

func (p Pubkey) IsZero() bool {
	return p == Pubkey{}
}

func (p Pubkey) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Pubkey) UnmarshalText(text []byte) error {
	parsed, err := ParsePubkey(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
