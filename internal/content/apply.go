package content

import (
	"errors"
	"fmt"

	"github.com/appengine-ltd/craftworks/internal/crafting"
)

var ErrInvalidDocument = errors.New("invalid content document")

// Apply converts every entry of doc and then registers them all on catalog.
// A conversion error leaves catalog untouched. Entries overwrite existing
// definitions with the same id.
func Apply(doc Document, catalog *crafting.Catalog) error {
	materials := make([]crafting.Material, 0, len(doc.Materials))
	for _, m := range doc.Materials {
		if m.ID == "" {
			return invalid("material without id")
		}
		materials = append(materials, crafting.Material{ID: crafting.MaterialID(m.ID), Name: nameOr(m.Name, m.ID), Description: m.Description})
	}

	submaterials := make([]crafting.Submaterial, 0, len(doc.Submaterials))
	for _, s := range doc.Submaterials {
		sub, err := convertSubmaterial(s)
		if err != nil {
			return err
		}
		submaterials = append(submaterials, sub)
	}

	kinds := make([]crafting.ComponentKind, 0, len(doc.ComponentKinds))
	for _, k := range doc.ComponentKinds {
		if k.ID == "" {
			return invalid("component kind without id")
		}
		kinds = append(kinds, crafting.ComponentKind{
			ID:                crafting.ComponentKindID(k.ID),
			Name:              nameOr(k.Name, k.ID),
			Description:       k.Description,
			AcceptedMaterials: toSet[crafting.MaterialID](k.AcceptedMaterials),
			MakeshiftTags:     toSet[crafting.ToolType](k.MakeshiftTools),
		})
	}

	items := make([]crafting.ItemDefinition, 0, len(doc.Items))
	for _, it := range doc.Items {
		item, err := convertItem(it)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	recipes := make([]crafting.Recipe, 0, len(doc.Recipes))
	for _, rd := range doc.Recipes {
		recipe, err := convertRecipe(rd)
		if err != nil {
			return err
		}
		recipes = append(recipes, recipe)
	}

	for _, m := range materials {
		catalog.RegisterMaterial(m)
	}
	for _, s := range submaterials {
		catalog.RegisterSubmaterial(s)
	}
	for _, k := range kinds {
		catalog.RegisterComponentKind(k)
	}
	for _, it := range items {
		catalog.RegisterItem(it)
	}
	for _, r := range recipes {
		catalog.RegisterRecipe(r)
	}
	return nil
}

func convertSubmaterial(s SubmaterialDoc) (crafting.Submaterial, error) {
	if s.ID == "" || s.Material == "" {
		return crafting.Submaterial{}, invalid("submaterial %q needs an id and a material", s.ID)
	}
	sub := crafting.Submaterial{
		ID:          crafting.SubmaterialID(s.ID),
		Material:    crafting.MaterialID(s.Material),
		Name:        nameOr(s.Name, s.ID),
		Description: s.Description,
	}
	if s.Grade != "" {
		grade, err := crafting.ParseQuality(s.Grade)
		if err != nil {
			return crafting.Submaterial{}, invalid("submaterial %s: %v", s.ID, err)
		}
		sub.Grade = &grade
	}
	return sub, nil
}

func convertItem(it ItemDoc) (crafting.ItemDefinition, error) {
	if it.ID == "" {
		return crafting.ItemDefinition{}, invalid("item without id")
	}
	def := crafting.ItemDefinition{ID: crafting.ItemID(it.ID), Name: nameOr(it.Name, it.ID), Description: it.Description}
	switch it.Kind {
	case "simple", "":
		simple := crafting.SimpleItem{}
		if it.Submaterial != "" {
			sub := crafting.SubmaterialID(it.Submaterial)
			simple.Submaterial = &sub
		}
		if it.Placeable != nil {
			kind, err := worldObjectKind(*it.Placeable)
			if err != nil {
				return crafting.ItemDefinition{}, invalid("item %s: %v", it.ID, err)
			}
			if kind == nil {
				return crafting.ItemDefinition{}, invalid("item %s: placeable needs a type and id", it.ID)
			}
			simple.Placeable = &crafting.WorldObjectTemplate{Kind: *kind, Tags: toSet[crafting.Tag](it.Placeable.Tags)}
		}
		def.Kind = simple
	case "component":
		if it.ComponentKind == "" {
			return crafting.ItemDefinition{}, invalid("item %s: component item needs a component_kind", it.ID)
		}
		def.Kind = crafting.ComponentItem{ComponentKind: crafting.ComponentKindID(it.ComponentKind)}
	case "composite":
		if len(it.Slots) == 0 {
			return crafting.ItemDefinition{}, invalid("item %s: composite item needs slots", it.ID)
		}
		comp := crafting.CompositeItem{Category: it.Category}
		seen := make(map[string]bool, len(it.Slots))
		for _, s := range it.Slots {
			if s.Name == "" || s.ComponentKind == "" {
				return crafting.ItemDefinition{}, invalid("item %s: slot needs a name and a component_kind", it.ID)
			}
			if seen[s.Name] {
				return crafting.ItemDefinition{}, invalid("item %s: slot %s declared twice", it.ID, s.Name)
			}
			seen[s.Name] = true
			comp.Slots = append(comp.Slots, crafting.Slot{Name: s.Name, ComponentKind: crafting.ComponentKindID(s.ComponentKind)})
		}
		if it.ToolType != "" {
			tool := crafting.ToolType(it.ToolType)
			comp.ToolType = &tool
		}
		def.Kind = comp
	default:
		return crafting.ItemDefinition{}, invalid("item %s: unknown kind %q", it.ID, it.Kind)
	}
	return def, nil
}

func convertRecipe(rd RecipeDoc) (crafting.Recipe, error) {
	if rd.ID == "" || rd.Output == "" {
		return nil, invalid("recipe %q needs an id and an output", rd.ID)
	}
	reqs, err := requirements(rd)
	if err != nil {
		return nil, err
	}
	id := crafting.RecipeID(rd.ID)
	switch rd.Kind {
	case "simple":
		recipe := crafting.SimpleRecipe{ID: id, Name: rd.Name, Output: crafting.ItemID(rd.Output), OutputQuantity: rd.OutputQuantity, Requirements: reqs}
		if len(rd.Inputs) == 0 {
			return nil, invalid("recipe %s: simple recipe needs inputs", rd.ID)
		}
		for _, in := range rd.Inputs {
			if in.Item == "" || in.Quantity < 1 {
				return nil, invalid("recipe %s: input needs an item and a positive quantity", rd.ID)
			}
			recipe.Inputs = append(recipe.Inputs, crafting.ItemQuantity{Item: crafting.ItemID(in.Item), Quantity: in.Quantity})
		}
		return recipe, nil
	case "component":
		return crafting.ComponentRecipe{ID: id, Name: rd.Name, Output: crafting.ComponentKindID(rd.Output), Requirements: reqs}, nil
	case "composite":
		formula, err := convertFormula(rd.ID, rd.Formula)
		if err != nil {
			return nil, err
		}
		return crafting.CompositeRecipe{ID: id, Name: rd.Name, Output: crafting.ItemID(rd.Output), Formula: formula, Requirements: reqs}, nil
	default:
		return nil, invalid("recipe %s: unknown kind %q", rd.ID, rd.Kind)
	}
}

func requirements(rd RecipeDoc) (crafting.Requirements, error) {
	var reqs crafting.Requirements
	if rd.Tool != nil {
		if rd.Tool.Type == "" {
			return reqs, invalid("recipe %s: tool requirement needs a type", rd.ID)
		}
		tool := crafting.ToolRequirement{ToolType: crafting.ToolType(rd.Tool.Type)}
		if rd.Tool.MinQuality != "" {
			q, err := crafting.ParseQuality(rd.Tool.MinQuality)
			if err != nil {
				return reqs, invalid("recipe %s: %v", rd.ID, err)
			}
			tool.MinQuality = q
		}
		reqs.Tool = &tool
	}
	if rd.WorldObject != nil {
		kind, err := worldObjectKind(*rd.WorldObject)
		if err != nil {
			return reqs, invalid("recipe %s: %v", rd.ID, err)
		}
		reqs.WorldObject = &crafting.WorldObjectRequirement{Kind: kind, RequiredTags: toSet[crafting.Tag](rd.WorldObject.Tags)}
	}
	return reqs, nil
}

func convertFormula(recipe string, f *FormulaDoc) (crafting.QualityFormula, error) {
	if f == nil {
		return crafting.MinOfInputs(), nil
	}
	switch f.Kind {
	case "min_of_inputs", "":
		return crafting.MinOfInputs(), nil
	case "average_of_inputs":
		return crafting.AverageOfInputs(), nil
	case "weighted":
		weights := make([]crafting.SlotWeight, 0, len(f.Weights))
		for _, w := range f.Weights {
			weights = append(weights, crafting.SlotWeight{Slot: w.Slot, Weight: w.Weight})
		}
		return crafting.Weighted(weights...), nil
	case "custom":
		if f.Policy == "" {
			return crafting.QualityFormula{}, invalid("recipe %s: custom formula needs a policy", recipe)
		}
		return crafting.Custom(f.Policy), nil
	default:
		return crafting.QualityFormula{}, invalid("recipe %s: unknown formula %q", recipe, f.Kind)
	}
}

// worldObjectKind returns nil when neither type nor id is set.
func worldObjectKind(w WorldObjectDoc) (*crafting.WorldObjectKind, error) {
	if w.Type == "" && w.ID == "" {
		return nil, nil
	}
	var t crafting.WorldObjectType
	switch crafting.WorldObjectType(w.Type) {
	case crafting.CraftingStation:
		t = crafting.CraftingStation
	case crafting.ResourceNode:
		t = crafting.ResourceNode
	default:
		return nil, fmt.Errorf("unknown world object type %q", w.Type)
	}
	if w.ID == "" {
		return nil, fmt.Errorf("world object %s needs an id", w.Type)
	}
	return &crafting.WorldObjectKind{Type: t, ID: w.ID}, nil
}

func toSet[T ~string](values []string) crafting.Set[T] {
	if len(values) == 0 {
		return nil
	}
	out := make(crafting.Set[T], len(values))
	for _, v := range values {
		out[T(v)] = struct{}{}
	}
	return out
}

func nameOr(name, id string) string {
	if name == "" {
		return id
	}
	return name
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidDocument, fmt.Sprintf(format, args...))
}
