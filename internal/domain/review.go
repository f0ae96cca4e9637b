package domain

import (
	"github.com/totegamma/filmpulse"
)

// Review is one piece of feedback. Author and Timestamp never change after creation.
type Review struct {
	Address   filmpulse.Pubkey `json:"address"`
	Author    filmpulse.Pubkey `json:"author"`
	Timestamp int64            `json:"timestamp"`
	Title     string           `json:"title"`
	Essay     string           `json:"essay"`
	Rating    int32            `json:"rating"`
}

// Verification attests a review. ReviewKey is stored as given.
type Verification struct {
	Address   filmpulse.Pubkey `json:"address"`
	Author    filmpulse.Pubkey `json:"author"`
	Timestamp int64            `json:"timestamp"`
	ReviewKey filmpulse.Pubkey `json:"reviewKey"`
}

type TokenAccount struct {
	Address filmpulse.Pubkey `json:"address"`
	Mint    filmpulse.Pubkey `json:"mint"`
	Owner   filmpulse.Pubkey `json:"owner"`
	Amount  uint64           `json:"amount"`
	Frozen  bool             `json:"frozen"`
}

// Slot is an allocated account: its deposit, its authority and its raw data.
type Slot struct {
	Address   filmpulse.Pubkey
	Kind      AccountKind
	Authority filmpulse.Pubkey
	Lamports  uint64
	Data      []byte
}

func (r Review) Related(rel Relation) (filmpulse.Pubkey, bool) {
	switch rel {
	case RelationAuthor:
		return r.Author, true
	default:
		return filmpulse.Pubkey{}, false
	}
}

func (v Verification) Related(rel Relation) (filmpulse.Pubkey, bool) {
	switch rel {
	case RelationAuthor:
		return v.Author, true
	default:
		return filmpulse.Pubkey{}, false
	}
}

func (s Slot) Related(rel Relation) (filmpulse.Pubkey, bool) {
	switch rel {
	case RelationAuthor:
		return s.Authority, true
	default:
		return filmpulse.Pubkey{}, false
	}
}
