package domain

const (
	DiscriminatorLength = 8
	PublicKeyLength     = 32
	TimestampLength     = 8
	StringLengthPrefix  = 4 // u32 byte length
	RatingLength        = 4
	MaxBytesPerChar     = 4

	// the rating shares the padding the first deployment reserved, keeping Review at 1408 bytes
	DefaultReviewReserved = 28
)

type Field struct {
	Name string
	Size int
}

// Layout is the fixed footprint of one account type.
type Layout struct {
	Name   AccountKind
	Fields []Field
}

func (l Layout) Size() int {
	size := 0
	for _, f := range l.Fields {
		size += f.Size
	}
	return size
}

// BoundedString reserves room for maxChars characters of the widest UTF-8 encoding.
func BoundedString(name string, maxChars int) Field {
	return Field{Name: name, Size: StringLengthPrefix + maxChars*MaxBytesPerChar}
}

func ReviewLayout(reserved int) Layout {
	if reserved < 0 {
		reserved = 0
	}
	return Layout{
		Name: AccountKindReview,
		Fields: []Field{
			{Name: "discriminator", Size: DiscriminatorLength},
			{Name: "author", Size: PublicKeyLength},
			{Name: "timestamp", Size: TimestampLength},
			BoundedString("title", MaxTitleChars),
			BoundedString("essay", MaxEssayChars),
			{Name: "rating", Size: RatingLength},
			{Name: "reserved", Size: reserved},
		},
	}
}

func VerificationLayout() Layout {
	return Layout{
		Name: AccountKindVerification,
		Fields: []Field{
			{Name: "discriminator", Size: DiscriminatorLength},
			{Name: "author", Size: PublicKeyLength},
			{Name: "timestamp", Size: TimestampLength},
			{Name: "reviewKey", Size: PublicKeyLength},
		},
	}
}
