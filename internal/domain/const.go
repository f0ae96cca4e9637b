package domain

const (
	SignerCtxKey = "fp-signer"
	CommitCtxKey = "fp-commit"
)

const (
	EventReviewPosted   = "review.posted"
	EventReviewVerified = "review.verified"
	EventReviewDeleted  = "review.deleted"
	EventTransfer       = "transfer"
)

const EventChannel = "filmpulse:events"

type AccountKind string

const (
	AccountKindReview       AccountKind = "Review"
	AccountKindVerification AccountKind = "Verify"
	AccountKindToken        AccountKind = "TokenAccount"
)
