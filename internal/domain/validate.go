package domain

import "unicode/utf8"

const (
	MaxTitleChars = 50
	MaxEssayChars = 280
)

// ValidateReview runs the field checks in order and stops at the first failure.
// Lengths are counted in characters, not bytes. Rating is never checked.
func ValidateReview(title, essay string) error {
	titleChars := utf8.RuneCountInString(title)
	if titleChars < 1 {
		return TitleRequired
	}
	if titleChars > MaxTitleChars {
		return TitleTooLong
	}
	if utf8.RuneCountInString(essay) > MaxEssayChars {
		return ReviewTooLong
	}
	return nil
}
