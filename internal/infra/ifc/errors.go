package ifc

import (
	"errors"
	"fmt"
)

// Authoring errors.
var (
	ErrEntityNotFound   = errors.New("entity not found")
	ErrWrongEntity      = errors.New("wrong entity type")
	ErrInvalidAttribute = errors.New("invalid attribute value")
	ErrAlreadyAssigned  = errors.New("already assigned")
	ErrInvalidGUID      = errors.New("invalid GlobalId")
)

func errInvalidGUID(g string) error {
	return fmt.Errorf("%w: %q", ErrInvalidGUID, g)
}

func invalidAttribute(entity, attr string, value any) error {
	return fmt.Errorf("%w: %s.%s = %v", ErrInvalidAttribute, entity, attr, value)
}
