package domain

import (
	"errors"
	"fmt"
)

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

// ErrorCode is a program-level rejection. Codes start at 6000 in declaration order.
type ErrorCode int

const (
	TitleTooLong ErrorCode = 6000 + iota
	ReviewTooLong
	TitleRequired
)

func (e ErrorCode) Name() string {
	switch e {
	case TitleTooLong:
		return "TitleTooLong"
	case ReviewTooLong:
		return "ReviewTooLong"
	case TitleRequired:
		return "TitleRequired"
	default:
		return "Unknown"
	}
}

func (e ErrorCode) Error() string {
	switch e {
	case TitleTooLong:
		return "The provided title should be 50 characters long maximum."
	case ReviewTooLong:
		return "The provided review should be 280 characters long maximum."
	case TitleRequired:
		return "Topic Required."
	default:
		return fmt.Sprintf("unknown error code %d", int(e))
	}
}

// Errors raised by the runtime around the program rather than by the program itself.
var (
	ErrAccountAlreadyInUse = errors.New("account already in use")
	ErrConstraintHasOne    = errors.New("a has one constraint was violated")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrOwnerMismatch       = errors.New("owner does not match")
	ErrAccountFrozen       = errors.New("account is frozen")
	ErrMintMismatch        = errors.New("account not associated with this mint")
	ErrAccountOverflow     = errors.New("account data exceeds allocated space")
	ErrAccountKindMismatch = errors.New("account discriminator did not match what was expected")
	ErrInvalidSignature    = errors.New("invalid signature")
	ErrCommitExpired       = errors.New("document is outside the accepted time window")
	ErrDuplicateCommit     = errors.New("document already processed")
	ErrUnknownInstruction  = errors.New("unknown instruction")
	ErrAmountOverflow      = errors.New("amount overflows the account balance")
	ErrInvalidAddress      = errors.New("invalid account address")
)
