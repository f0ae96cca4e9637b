package domain

import (
	"fmt"

	"github.com/totegamma/filmpulse"
)

type Relation string

const (
	RelationAuthor Relation = "author"
)

// Handle is anything that can name the key holding a relation to it.
type Handle interface {
	Related(rel Relation) (filmpulse.Pubkey, bool)
}

// Authorize checks that signer holds rel on h before h is mutated.
func Authorize(h Handle, signer filmpulse.Pubkey, rel Relation) error {
	expected, ok := h.Related(rel)
	if !ok {
		return fmt.Errorf("%w: relation %s is not defined", ErrConstraintHasOne, rel)
	}
	if expected != signer {
		return fmt.Errorf("%w: %s expected %s, got %s", ErrConstraintHasOne, rel, expected, signer)
	}
	return nil
}
