package filmpulse

import (
	"time"
)

const (
	// DefaultProgramID is the address the program was first deployed under.
	DefaultProgramID = "3gqTAW1iCFa8GuFZ9SdpmTVb1a4JzfXHXyBfhmMS2Z7X"

	ProofTypeEd25519 = "ed25519"
)

type Document[T any] struct {
	Signer   Pubkey    `json:"signer"`
	Schema   string    `json:"schema"`
	Value    T         `json:"value"`
	CreateAt time.Time `json:"createAt"`
}

type Proof struct {
	Type      string `json:"type"`
	Signature string `json:"signature"`
}

type SignedDocument struct {
	Document string `json:"document"`
	Proof    Proof  `json:"proof"`
}

// CommitResult is returned for every instruction that was applied.
type CommitResult struct {
	ID   string   `json:"id"`
	Logs []string `json:"logs"`
}

type Event struct {
	Type      string    `json:"type"`
	Signer    string    `json:"signer"`
	Commit    string    `json:"commit"`
	Address   string    `json:"address,omitempty"`
	Logs      []string  `json:"logs,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type Endpoint struct {
	Template string `json:"template"`
	Method   string `json:"method"`
}

type WellKnownFilmpulse struct {
	Version   string              `json:"version"`
	ProgramID string              `json:"programID"`
	Layouts   map[string]int      `json:"layouts"`
	Endpoints map[string]Endpoint `json:"endpoints"`
}
