package crafting

type RecipeKind string

const (
	RecipeKindSimple    RecipeKind = "simple"
	RecipeKindComponent RecipeKind = "component"
	RecipeKindComposite RecipeKind = "composite"
)

type ToolRequirement struct {
	ToolType   ToolType
	MinQuality Quality
}

type WorldObjectRequirement struct {
	// Kind, when set, must equal the world object's kind exactly.
	Kind         *WorldObjectKind
	RequiredTags Set[Tag]
}

type Requirements struct {
	Tool        *ToolRequirement
	WorldObject *WorldObjectRequirement
}

// Recipe is one of SimpleRecipe, ComponentRecipe or CompositeRecipe.
type Recipe interface {
	RecipeID() RecipeID
	RecipeKind() RecipeKind
	Requires() Requirements
}

type ItemQuantity struct {
	Item     ItemID
	Quantity int
}

type SimpleRecipe struct {
	ID             RecipeID
	Name           string
	Inputs         []ItemQuantity
	Output         ItemID
	OutputQuantity int
	Requirements
}

type ComponentRecipe struct {
	ID     RecipeID
	Name   string
	Output ComponentKindID
	Requirements
}

type CompositeRecipe struct {
	ID      RecipeID
	Name    string
	Output  ItemID
	Formula QualityFormula
	Requirements
}

func (r SimpleRecipe) RecipeID() RecipeID     { return r.ID }
func (r SimpleRecipe) RecipeKind() RecipeKind { return RecipeKindSimple }
func (r SimpleRecipe) Requires() Requirements { return r.Requirements }

func (r ComponentRecipe) RecipeID() RecipeID     { return r.ID }
func (r ComponentRecipe) RecipeKind() RecipeKind { return RecipeKindComponent }
func (r ComponentRecipe) Requires() Requirements { return r.Requirements }

func (r CompositeRecipe) RecipeID() RecipeID     { return r.ID }
func (r CompositeRecipe) RecipeKind() RecipeKind { return RecipeKindComposite }
func (r CompositeRecipe) Requires() Requirements { return r.Requirements }

// Yield is the number of instances one execution produces.
func (r SimpleRecipe) Yield() int {
	return max(1, r.OutputQuantity)
}
