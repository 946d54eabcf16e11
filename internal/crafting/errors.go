package crafting

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound                = errors.New("not found")
	ErrAlreadyRegistered       = errors.New("already registered")
	ErrWrongInstanceKind       = errors.New("wrong instance kind")
	ErrNotASubmaterialItem     = errors.New("not a submaterial item")
	ErrNotAComposite           = errors.New("not a composite item")
	ErrNotPlaceable            = errors.New("not placeable")
	ErrMaterialMismatch        = errors.New("material mismatch")
	ErrQuantityInsufficient    = errors.New("quantity insufficient")
	ErrSlotCoverage            = errors.New("slot coverage")
	ErrSlotKindMismatch        = errors.New("slot kind mismatch")
	ErrSlotFilledMultipleTimes = errors.New("slot filled multiple times")
	ErrUnknownSlot             = errors.New("unknown slot")
	ErrRequirementUnmet        = errors.New("requirement unmet")
	ErrDuplicateInput          = errors.New("duplicate input")
)

type EntityKind string

const (
	EntityMaterial      EntityKind = "material"
	EntitySubmaterial   EntityKind = "submaterial"
	EntityComponentKind EntityKind = "component kind"
	EntityItem          EntityKind = "item"
	EntityRecipe        EntityKind = "recipe"
	EntityInstance      EntityKind = "instance"
	EntityWorldObject   EntityKind = "world object"
	EntityQualityPolicy EntityKind = "quality policy"
)

// NotFoundError reports a lookup miss. It matches ErrNotFound with errors.Is.
type NotFoundError struct {
	Kind        EntityKind
	ID          string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
	if len(e.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(e.Suggestions, ", ") + "?)"
	}
	return msg
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func notFound(kind EntityKind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}
