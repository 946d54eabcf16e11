// Package content loads catalog definitions from YAML or JSONC documents.
//
// A document lists materials, submaterials, component kinds, items and
// recipes. Cross references are not checked here; the engine resolves them
// when a recipe runs, so a document may extend content loaded earlier.
package content

// Document is the on-disk shape of a content file.
type Document struct {
	Materials      []MaterialDoc      `yaml:"materials" json:"materials"`
	Submaterials   []SubmaterialDoc   `yaml:"submaterials" json:"submaterials"`
	ComponentKinds []ComponentKindDoc `yaml:"component_kinds" json:"component_kinds"`
	Items          []ItemDoc          `yaml:"items" json:"items"`
	Recipes        []RecipeDoc        `yaml:"recipes" json:"recipes"`
}

type MaterialDoc struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

type SubmaterialDoc struct {
	ID          string `yaml:"id" json:"id"`
	Material    string `yaml:"material" json:"material"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	// Grade is a quality name; empty means ungraded.
	Grade string `yaml:"grade,omitempty" json:"grade,omitempty"`
}

type ComponentKindDoc struct {
	ID                string   `yaml:"id" json:"id"`
	Name              string   `yaml:"name" json:"name"`
	Description       string   `yaml:"description,omitempty" json:"description,omitempty"`
	AcceptedMaterials []string `yaml:"accepted_materials" json:"accepted_materials"`
	MakeshiftTools    []string `yaml:"makeshift_tools,omitempty" json:"makeshift_tools,omitempty"`
}

// ItemDoc covers all three item kinds; fields that do not apply to Kind must
// be left empty.
type ItemDoc struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Kind        string `yaml:"kind" json:"kind"`

	Submaterial string          `yaml:"submaterial,omitempty" json:"submaterial,omitempty"`
	Placeable   *WorldObjectDoc `yaml:"placeable,omitempty" json:"placeable,omitempty"`

	ComponentKind string `yaml:"component_kind,omitempty" json:"component_kind,omitempty"`

	Slots    []SlotDoc `yaml:"slots,omitempty" json:"slots,omitempty"`
	Category string    `yaml:"category,omitempty" json:"category,omitempty"`
	ToolType string    `yaml:"tool_type,omitempty" json:"tool_type,omitempty"`
}

type SlotDoc struct {
	Name          string `yaml:"name" json:"name"`
	ComponentKind string `yaml:"component_kind" json:"component_kind"`
}

// WorldObjectDoc is used both for placeable templates and for recipe world
// object requirements. In a requirement Type and ID are optional.
type WorldObjectDoc struct {
	Type string   `yaml:"type,omitempty" json:"type,omitempty"`
	ID   string   `yaml:"id,omitempty" json:"id,omitempty"`
	Tags []string `yaml:"tags,omitempty" json:"tags,omitempty"`
}

type RecipeDoc struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	Kind string `yaml:"kind" json:"kind"`

	Inputs         []InputDoc  `yaml:"inputs,omitempty" json:"inputs,omitempty"`
	Output         string      `yaml:"output" json:"output"`
	OutputQuantity int         `yaml:"output_quantity,omitempty" json:"output_quantity,omitempty"`
	Formula        *FormulaDoc `yaml:"formula,omitempty" json:"formula,omitempty"`

	Tool        *ToolDoc        `yaml:"tool,omitempty" json:"tool,omitempty"`
	WorldObject *WorldObjectDoc `yaml:"world_object,omitempty" json:"world_object,omitempty"`
}

type InputDoc struct {
	Item     string `yaml:"item" json:"item"`
	Quantity int    `yaml:"quantity" json:"quantity"`
}

type ToolDoc struct {
	Type       string `yaml:"type" json:"type"`
	MinQuality string `yaml:"min_quality,omitempty" json:"min_quality,omitempty"`
}

type FormulaDoc struct {
	Kind    string      `yaml:"kind" json:"kind"`
	Weights []WeightDoc `yaml:"weights,omitempty" json:"weights,omitempty"`
	Policy  string      `yaml:"policy,omitempty" json:"policy,omitempty"`
}

type WeightDoc struct {
	Slot   string  `yaml:"slot" json:"slot"`
	Weight float64 `yaml:"weight" json:"weight"`
}
