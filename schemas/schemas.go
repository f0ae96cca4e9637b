package schemas

import (
	"github.com/totegamma/filmpulse"
)

const (
	PostReviewURL   string = "https://schema.filmpulse.dev/post-review.json"
	VerifyReviewURL string = "https://schema.filmpulse.dev/verify-review.json"
	TransferURL     string = "https://schema.filmpulse.dev/transfer.json"
	DeleteReviewURL string = "https://schema.filmpulse.dev/delete-review.json"
)

// PostReview creates a review in the slot at Review.
type PostReview struct {
	Review     filmpulse.Pubkey   `json:"review"`
	Title      string             `json:"title"`
	Essay      string             `json:"essay"`
	Rating     int32              `json:"rating"`
	AuthorKeys []filmpulse.Pubkey `json:"authorKeys,omitempty"`
}

type VerifyReview struct {
	Verify        filmpulse.Pubkey `json:"verify"`
	ReviewKey     filmpulse.Pubkey `json:"reviewKey"`
	AuthorAddress filmpulse.Pubkey `json:"authorAddress"`
	VerifierKeys  []string         `json:"verifierKeys,omitempty"`
}

type Transfer struct {
	SenderToken   filmpulse.Pubkey `json:"senderToken"`
	ReceiverToken filmpulse.Pubkey `json:"receiverToken"`
	Mint          filmpulse.Pubkey `json:"mint"`
	Amount        uint64           `json:"amount"`
}

type DeleteReview struct {
	Review filmpulse.Pubkey `json:"review"`
}
