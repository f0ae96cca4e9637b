package domain

import (
	"time"

	"github.com/totegamma/filmpulse"
)

// Commit is the receipt of one applied signed document.
type Commit struct {
	ID       string
	Signer   filmpulse.Pubkey
	Schema   string
	Document string
	Proof    string
	CreateAt time.Time
}
