package usecase

import (
	"context"

	"github.com/totegamma/filmpulse"
	"github.com/totegamma/filmpulse/internal/domain"
)

// AccountRepository allocates, reads and closes record slots.
type AccountRepository interface {
	// Allocate debits slot.Lamports from payer and stores the slot.
	// It fails with domain.ErrAccountAlreadyInUse when the address is taken.
	Allocate(ctx context.Context, slot domain.Slot, payer filmpulse.Pubkey) error
	Get(ctx context.Context, address filmpulse.Pubkey) (domain.Slot, error)
	// Close runs guard on the locked slot, refunds its lamports to the slot
	// authority and removes it.
	Close(ctx context.Context, address filmpulse.Pubkey, guard func(domain.Slot) error) (domain.Slot, error)
}

// Ledger is the balance keeper for native lamports and token accounts.
type Ledger interface {
	TokenAccount(ctx context.Context, address filmpulse.Pubkey) (domain.TokenAccount, error)
	Transfer(ctx context.Context, req TransferRequest) error
	WalletBalance(ctx context.Context, wallet filmpulse.Pubkey) (uint64, error)
	Airdrop(ctx context.Context, wallet filmpulse.Pubkey, lamports uint64) (uint64, error)
	MintTo(ctx context.Context, account domain.TokenAccount, amount uint64) (domain.TokenAccount, error)
}

// CommitRepository records which signed documents were applied.
type CommitRepository interface {
	Reserve(ctx context.Context, commit domain.Commit) error
	Release(ctx context.Context, id string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, channel string, event filmpulse.Event) error
}

type TransferRequest struct {
	From      filmpulse.Pubkey
	To        filmpulse.Pubkey
	Mint      filmpulse.Pubkey
	Authority filmpulse.Pubkey
	Amount    uint64
}
