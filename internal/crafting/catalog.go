package crafting

import (
	"cmp"
	"slices"
)

// Catalog holds content definitions keyed by id. Registration overwrites an
// existing entry with the same id and checks no cross references; those are
// resolved when a recipe runs. A Catalog is not safe for concurrent use on its
// own; Registry guards the one it owns. Returned definitions share their sets
// and slices with the catalog and must be treated as read-only.
type Catalog struct {
	materials        map[MaterialID]Material
	submaterials     map[SubmaterialID]Submaterial
	componentKinds   map[ComponentKindID]ComponentKind
	items            map[ItemID]ItemDefinition
	simpleRecipes    map[RecipeID]SimpleRecipe
	componentRecipes map[RecipeID]ComponentRecipe
	compositeRecipes map[RecipeID]CompositeRecipe
}

func NewCatalog() *Catalog {
	return &Catalog{
		materials:        make(map[MaterialID]Material),
		submaterials:     make(map[SubmaterialID]Submaterial),
		componentKinds:   make(map[ComponentKindID]ComponentKind),
		items:            make(map[ItemID]ItemDefinition),
		simpleRecipes:    make(map[RecipeID]SimpleRecipe),
		componentRecipes: make(map[RecipeID]ComponentRecipe),
		compositeRecipes: make(map[RecipeID]CompositeRecipe),
	}
}

func (c *Catalog) RegisterMaterial(m Material) {
	c.materials[m.ID] = m
}

func (c *Catalog) RegisterSubmaterial(s Submaterial) {
	s.Grade = clonePtr(s.Grade)
	c.submaterials[s.ID] = s
}

func (c *Catalog) RegisterComponentKind(k ComponentKind) {
	k.AcceptedMaterials = k.AcceptedMaterials.Clone()
	k.MakeshiftTags = k.MakeshiftTags.Clone()
	c.componentKinds[k.ID] = k
}

func (c *Catalog) RegisterItem(d ItemDefinition) {
	if comp, ok := d.Kind.(CompositeItem); ok {
		comp.Slots = slices.Clone(comp.Slots)
		d.Kind = comp
	}
	c.items[d.ID] = d
}

// RegisterRecipe files r under its kind. Recipe ids share one namespace, so
// registering an id under a new kind drops the previous entry.
func (c *Catalog) RegisterRecipe(r Recipe) {
	id := r.RecipeID()
	delete(c.simpleRecipes, id)
	delete(c.componentRecipes, id)
	delete(c.compositeRecipes, id)
	switch recipe := r.(type) {
	case SimpleRecipe:
		recipe.Inputs = slices.Clone(recipe.Inputs)
		c.simpleRecipes[id] = recipe
	case ComponentRecipe:
		c.componentRecipes[id] = recipe
	case CompositeRecipe:
		recipe.Formula.Weights = slices.Clone(recipe.Formula.Weights)
		c.compositeRecipes[id] = recipe
	}
}

func (c *Catalog) Material(id MaterialID) (Material, error) {
	return lookup(c.materials, EntityMaterial, id)
}

func (c *Catalog) Submaterial(id SubmaterialID) (Submaterial, error) {
	return lookup(c.submaterials, EntitySubmaterial, id)
}

func (c *Catalog) ComponentKind(id ComponentKindID) (ComponentKind, error) {
	return lookup(c.componentKinds, EntityComponentKind, id)
}

func (c *Catalog) Item(id ItemID) (ItemDefinition, error) {
	return lookup(c.items, EntityItem, id)
}

func (c *Catalog) SimpleRecipe(id RecipeID) (SimpleRecipe, error) {
	if r, ok := c.simpleRecipes[id]; ok {
		return r, nil
	}
	return SimpleRecipe{}, c.recipeNotFound(id)
}

func (c *Catalog) ComponentRecipe(id RecipeID) (ComponentRecipe, error) {
	if r, ok := c.componentRecipes[id]; ok {
		return r, nil
	}
	return ComponentRecipe{}, c.recipeNotFound(id)
}

func (c *Catalog) CompositeRecipe(id RecipeID) (CompositeRecipe, error) {
	if r, ok := c.compositeRecipes[id]; ok {
		return r, nil
	}
	return CompositeRecipe{}, c.recipeNotFound(id)
}

// Recipe looks an id up across all three recipe kinds.
func (c *Catalog) Recipe(id RecipeID) (Recipe, error) {
	if r, ok := c.simpleRecipes[id]; ok {
		return r, nil
	}
	if r, ok := c.componentRecipes[id]; ok {
		return r, nil
	}
	if r, ok := c.compositeRecipes[id]; ok {
		return r, nil
	}
	return nil, c.recipeNotFound(id)
}

func (c *Catalog) Materials() []Material {
	return sortedValues(c.materials)
}

func (c *Catalog) Submaterials() []Submaterial {
	return sortedValues(c.submaterials)
}

func (c *Catalog) ComponentKinds() []ComponentKind {
	return sortedValues(c.componentKinds)
}

func (c *Catalog) Items() []ItemDefinition {
	return sortedValues(c.items)
}

func (c *Catalog) SimpleRecipes() []SimpleRecipe {
	return sortedValues(c.simpleRecipes)
}

func (c *Catalog) ComponentRecipes() []ComponentRecipe {
	return sortedValues(c.componentRecipes)
}

func (c *Catalog) CompositeRecipes() []CompositeRecipe {
	return sortedValues(c.compositeRecipes)
}

// Recipes returns every recipe sorted by id.
func (c *Catalog) Recipes() []Recipe {
	out := make([]Recipe, 0, len(c.simpleRecipes)+len(c.componentRecipes)+len(c.compositeRecipes))
	for _, r := range c.simpleRecipes {
		out = append(out, r)
	}
	for _, r := range c.componentRecipes {
		out = append(out, r)
	}
	for _, r := range c.compositeRecipes {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b Recipe) int {
		return cmp.Compare(a.RecipeID(), b.RecipeID())
	})
	return out
}

func (c *Catalog) recipeNotFound(id RecipeID) error {
	known := make([]string, 0, len(c.simpleRecipes)+len(c.componentRecipes)+len(c.compositeRecipes))
	for k := range c.simpleRecipes {
		known = append(known, string(k))
	}
	for k := range c.componentRecipes {
		known = append(known, string(k))
	}
	for k := range c.compositeRecipes {
		known = append(known, string(k))
	}
	return &NotFoundError{Kind: EntityRecipe, ID: string(id), Suggestions: suggest(string(id), known)}
}

func lookup[K ~string, V any](m map[K]V, kind EntityKind, id K) (V, error) {
	if v, ok := m[id]; ok {
		return v, nil
	}
	known := make([]string, 0, len(m))
	for k := range m {
		known = append(known, string(k))
	}
	var zero V
	return zero, &NotFoundError{Kind: kind, ID: string(id), Suggestions: suggest(string(id), known)}
}

func sortedValues[K ~string, V any](m map[K]V) []V {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]V, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}
