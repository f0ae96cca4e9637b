package usecase

import (
	"context"

	"github.com/totegamma/filmpulse"
	"github.com/totegamma/filmpulse/internal/domain"
	"github.com/totegamma/filmpulse/internal/observability"
)

// FaucetUsecase funds wallets and token accounts on development deployments.
type FaucetUsecase struct {
	ledger Ledger
}

func NewFaucetUsecase(ledger Ledger) *FaucetUsecase {
	return &FaucetUsecase{ledger: ledger}
}

func (uc *FaucetUsecase) Airdrop(ctx context.Context, wallet filmpulse.Pubkey, lamports uint64) (uint64, error) {
	balance, err := uc.ledger.Airdrop(ctx, wallet, lamports)
	if err != nil {
		return 0, err
	}
	observability.LoggerFromContext(ctx).Info().
		Str("wallet", wallet.String()).
		Uint64("lamports", lamports).
		Msg("airdrop")
	return balance, nil
}

func (uc *FaucetUsecase) MintTo(ctx context.Context, account, mint, owner filmpulse.Pubkey, amount uint64) (domain.TokenAccount, error) {
	token, err := uc.ledger.MintTo(ctx, domain.TokenAccount{
		Address: account,
		Mint:    mint,
		Owner:   owner,
	}, amount)
	if err != nil {
		return domain.TokenAccount{}, err
	}
	observability.LoggerFromContext(ctx).Info().
		Str("account", account.String()).
		Uint64("amount", amount).
		Msg("mint to")
	return token, nil
}
