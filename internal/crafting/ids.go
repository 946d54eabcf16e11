package crafting

import (
	"cmp"
	"slices"
	"strconv"
)

type (
	MaterialID      string
	SubmaterialID   string
	ComponentKindID string
	ItemID          string
	RecipeID        string
	ToolType        string
	Tag             string
)

// InstanceID identifies an item instance. Ids are issued in increasing order
// and never reused, so an instance can only reference ids lower than its own.
type InstanceID uint64

func (id InstanceID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

type WorldObjectID uint64

func (id WorldObjectID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Recipe ids recorded on raw instantiations.
const (
	RecipeRawMaterial RecipeID = "raw_material"
	RecipeWorldDrop   RecipeID = "world_drop"
)

type Set[T cmp.Ordered] map[T]struct{}

func NewSet[T cmp.Ordered](values ...T) Set[T] {
	s := make(Set[T], len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

func (s Set[T]) Sorted() []T {
	out := make([]T, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// Missing returns the members of want that are not in s, sorted.
func (s Set[T]) Missing(want Set[T]) []T {
	var out []T
	for v := range want {
		if !s.Has(v) {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}

func (s Set[T]) Clone() Set[T] {
	if s == nil {
		return nil
	}
	out := make(Set[T], len(s))
	for v := range s {
		out[v] = struct{}{}
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
