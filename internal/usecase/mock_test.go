package usecase

import (
	"context"
	"sync"

	"github.com/totegamma/filmpulse"
	"github.com/totegamma/filmpulse/internal/domain"
)

type mockAccountRepo struct {
	mu      sync.Mutex
	slots   map[filmpulse.Pubkey]domain.Slot
	wallets map[filmpulse.Pubkey]uint64
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{
		slots:   map[filmpulse.Pubkey]domain.Slot{},
		wallets: map[filmpulse.Pubkey]uint64{},
	}
}

func (m *mockAccountRepo) Allocate(ctx context.Context, slot domain.Slot, payer filmpulse.Pubkey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.slots[slot.Address]; ok {
		return domain.ErrAccountAlreadyInUse
	}
	if m.wallets[payer] < slot.Lamports {
		return domain.ErrInsufficientFunds
	}
	m.wallets[payer] -= slot.Lamports
	m.slots[slot.Address] = slot
	return nil
}

func (m *mockAccountRepo) Get(ctx context.Context, address filmpulse.Pubkey) (domain.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.slots[address]
	if !ok {
		return domain.Slot{}, domain.NotFoundError{Resource: "account"}
	}
	return slot, nil
}

func (m *mockAccountRepo) Close(ctx context.Context, address filmpulse.Pubkey, guard func(domain.Slot) error) (domain.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.slots[address]
	if !ok {
		return domain.Slot{}, domain.NotFoundError{Resource: "account"}
	}
	if err := guard(slot); err != nil {
		return domain.Slot{}, err
	}
	m.wallets[slot.Authority] += slot.Lamports
	delete(m.slots, address)
	return slot, nil
}

type mockLedger struct {
	mu      sync.Mutex
	tokens  map[filmpulse.Pubkey]domain.TokenAccount
	wallets map[filmpulse.Pubkey]uint64
	calls   []TransferRequest
}

func newMockLedger() *mockLedger {
	return &mockLedger{
		tokens:  map[filmpulse.Pubkey]domain.TokenAccount{},
		wallets: map[filmpulse.Pubkey]uint64{},
	}
}

func (m *mockLedger) TokenAccount(ctx context.Context, address filmpulse.Pubkey) (domain.TokenAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.tokens[address]
	if !ok {
		return domain.TokenAccount{}, domain.NotFoundError{Resource: "token account"}
	}
	return token, nil
}

func (m *mockLedger) Transfer(ctx context.Context, req TransferRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, req)
	from, ok := m.tokens[req.From]
	if !ok {
		return domain.NotFoundError{Resource: "token account"}
	}
	to, ok := m.tokens[req.To]
	if !ok {
		return domain.NotFoundError{Resource: "token account"}
	}
	if from.Frozen || to.Frozen {
		return domain.ErrAccountFrozen
	}
	if from.Amount < req.Amount {
		return domain.ErrInsufficientFunds
	}
	if from.Mint != to.Mint || (!req.Mint.IsZero() && from.Mint != req.Mint) {
		return domain.ErrMintMismatch
	}
	if from.Owner != req.Authority {
		return domain.ErrOwnerMismatch
	}
	if req.From == req.To {
		return nil
	}
	from.Amount -= req.Amount
	to.Amount += req.Amount
	m.tokens[req.From] = from
	m.tokens[req.To] = to
	return nil
}

func (m *mockLedger) WalletBalance(ctx context.Context, wallet filmpulse.Pubkey) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.wallets[wallet], nil
}

func (m *mockLedger) Airdrop(ctx context.Context, wallet filmpulse.Pubkey, lamports uint64) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[wallet] += lamports
	return m.wallets[wallet], nil
}

func (m *mockLedger) MintTo(ctx context.Context, account domain.TokenAccount, amount uint64) (domain.TokenAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.tokens[account.Address]
	if !ok {
		existing = account
	}
	existing.Amount += amount
	m.tokens[account.Address] = existing
	return existing, nil
}

type mockCommitRepo struct {
	reserved   map[string]domain.Commit
	released   []string
	releaseErr error
}

func newMockCommitRepo() *mockCommitRepo {
	return &mockCommitRepo{reserved: map[string]domain.Commit{}}
}

func (m *mockCommitRepo) Reserve(ctx context.Context, commit domain.Commit) error {
	if _, ok := m.reserved[commit.ID]; ok {
		return domain.ErrDuplicateCommit
	}
	m.reserved[commit.ID] = commit
	return nil
}

func (m *mockCommitRepo) Release(ctx context.Context, id string) error {
	if m.releaseErr != nil {
		return m.releaseErr
	}
	delete(m.reserved, id)
	m.released = append(m.released, id)
	return nil
}

type mockPublisher struct {
	events []filmpulse.Event
}

func (m *mockPublisher) Publish(ctx context.Context, channel string, event filmpulse.Event) error {
	m.events = append(m.events, event)
	return nil
}

func testKey(b byte) filmpulse.Pubkey {
	var p filmpulse.Pubkey
	for i := range p {
		p[i] = b
	}
	return p
}
