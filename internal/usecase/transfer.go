package usecase

import (
	"context"
	"fmt"

	"github.com/totegamma/filmpulse"
	"github.com/totegamma/filmpulse/internal/observability"
)

type TransferInput struct {
	Sender        filmpulse.Pubkey
	SenderToken   filmpulse.Pubkey
	ReceiverToken filmpulse.Pubkey
	Mint          filmpulse.Pubkey
	Amount        uint64
}

type TransferUsecase struct {
	ledger Ledger
}

func NewTransferUsecase(ledger Ledger) *TransferUsecase {
	return &TransferUsecase{ledger: ledger}
}

// Transfer hands the request to the ledger as is and reports the sender balance
// before and after. Ledger errors are returned untouched.
func (uc *TransferUsecase) Transfer(ctx context.Context, input TransferInput) ([]string, error) {
	ctx, span := tracer.Start(ctx, "Transfer.Usecase.Transfer")
	defer span.End()

	logger := observability.LoggerFromContext(ctx)

	before, err := uc.ledger.TokenAccount(ctx, input.SenderToken)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	logs := []string{fmt.Sprintf("starting tokens: %d", before.Amount)}
	logger.Info().Str("account", input.SenderToken.String()).Msg(logs[0])

	err = uc.ledger.Transfer(ctx, TransferRequest{
		From:      input.SenderToken,
		To:        input.ReceiverToken,
		Mint:      input.Mint,
		Authority: input.Sender,
		Amount:    input.Amount,
	})
	if err != nil {
		span.RecordError(err)
		return logs, err
	}

	after, err := uc.ledger.TokenAccount(ctx, input.SenderToken)
	if err != nil {
		span.RecordError(err)
		return logs, err
	}
	logs = append(logs, fmt.Sprintf("remaining tokens: %d", after.Amount))
	logger.Info().Str("account", input.SenderToken.String()).Msg(logs[1])

	return logs, nil
}
