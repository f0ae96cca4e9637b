package domain

import (
	"time"

	"github.com/totegamma/filmpulse"
)

// Config holds the process-wide program settings resolved at startup.
type Config struct {
	ProgramID           filmpulse.Pubkey
	ReviewReserved      int
	LamportsPerByteYear uint64
	ExemptionThreshold  uint64
	CommitMaxAge        time.Duration
	Faucet              bool
}

func DefaultConfig() Config {
	return Config{
		ProgramID:           filmpulse.MustParsePubkey(filmpulse.DefaultProgramID),
		ReviewReserved:      DefaultReviewReserved,
		LamportsPerByteYear: DefaultLamportsPerByteYear,
		ExemptionThreshold:  DefaultExemptionThreshold,
		CommitMaxAge:        5 * time.Minute,
	}
}

func (c Config) Rent() Rent {
	return Rent{
		LamportsPerByteYear: c.LamportsPerByteYear,
		ExemptionThreshold:  c.ExemptionThreshold,
	}
}
