package crafting

import (
	"fmt"
	"strings"
)

// SlotInput names the instance offered for one composite slot.
type SlotInput struct {
	Slot     string
	Instance InstanceID
}

// ExecuteSimple runs a simple recipe over the provided instances. Every
// provided instance is consumed. The recipe yields Yield() instances that share
// one provenance record.
func (r *Registry) ExecuteSimple(id RecipeID, inputs []InstanceID, tool *InstanceID, worldObject *WorldObjectID) ([]SimpleInstance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out, err := r.executeSimple(id, inputs, tool, worldObject)
	r.observe(RecipeKindSimple, id, err)
	return out, err
}

func (r *Registry) ExecuteComponent(id RecipeID, input InstanceID, tool *InstanceID, worldObject *WorldObjectID) (ComponentInstance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out, err := r.executeComponent(id, input, tool, worldObject)
	r.observe(RecipeKindComponent, id, err)
	return out, err
}

func (r *Registry) ExecuteComposite(id RecipeID, slots []SlotInput, tool *InstanceID, worldObject *WorldObjectID) (CompositeInstance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out, err := r.executeComposite(id, slots, tool, worldObject)
	r.observe(RecipeKindComposite, id, err)
	return out, err
}

func (r *Registry) executeSimple(id RecipeID, inputs []InstanceID, tool *InstanceID, worldObject *WorldObjectID) ([]SimpleInstance, error) {
	recipe, err := r.catalog.SimpleRecipe(id)
	if err != nil {
		return nil, err
	}
	if err := checkDistinct(tool, inputs...); err != nil {
		return nil, err
	}
	if err := checkRequirements(r.catalog, r.store, recipe.Requirements, tool, worldObject); err != nil {
		return nil, err
	}

	counts := make(map[ItemID]int, len(recipe.Inputs))
	for _, inputID := range inputs {
		inst, err := r.store.Instance(inputID)
		if err != nil {
			return nil, err
		}
		simple, ok := inst.(SimpleInstance)
		if !ok {
			return nil, fmt.Errorf("%w: simple recipe %s can only accept simple inputs, instance %d is %s", ErrWrongInstanceKind, recipe.ID, inputID, inst.InstanceKind())
		}
		counts[simple.Definition]++
	}
	for _, need := range recipe.Inputs {
		if got := counts[need.Item]; got < need.Quantity {
			return nil, fmt.Errorf("%w: recipe %s needs %d x %s but got %d", ErrQuantityInsufficient, recipe.ID, need.Quantity, need.Item, got)
		}
	}

	def, err := r.catalog.Item(recipe.Output)
	if err != nil {
		return nil, err
	}
	if _, ok := def.Kind.(SimpleItem); !ok {
		return nil, fmt.Errorf("%w: simple recipe %s outputs %s which is a %s item", ErrWrongInstanceKind, recipe.ID, recipe.Output, def.KindName())
	}

	consumed := make([]ConsumedInput, 0, len(inputs))
	for _, inputID := range inputs {
		consumed = append(consumed, ConsumedInput{Instance: inputID, Quantity: 1})
	}
	prov := r.provenance(recipe.ID, consumed, tool, worldObject)
	out := make([]SimpleInstance, 0, recipe.Yield())
	for range recipe.Yield() {
		out = append(out, SimpleInstance{
			ID:         r.store.NextInstanceID(),
			Definition: recipe.Output,
			Provenance: prov.clone(),
		})
	}
	return out, nil
}

func (r *Registry) executeComponent(id RecipeID, input InstanceID, tool *InstanceID, worldObject *WorldObjectID) (ComponentInstance, error) {
	recipe, err := r.catalog.ComponentRecipe(id)
	if err != nil {
		return ComponentInstance{}, err
	}
	if err := checkDistinct(tool, input); err != nil {
		return ComponentInstance{}, err
	}
	if err := checkRequirements(r.catalog, r.store, recipe.Requirements, tool, worldObject); err != nil {
		return ComponentInstance{}, err
	}

	inst, err := r.store.Instance(input)
	if err != nil {
		return ComponentInstance{}, err
	}
	simple, ok := inst.(SimpleInstance)
	if !ok {
		return ComponentInstance{}, fmt.Errorf("%w: component recipe %s needs a simple input, instance %d is %s", ErrWrongInstanceKind, recipe.ID, input, inst.InstanceKind())
	}
	def, err := r.catalog.Item(simple.Definition)
	if err != nil {
		return ComponentInstance{}, err
	}
	item, ok := def.Kind.(SimpleItem)
	if !ok || item.Submaterial == nil {
		return ComponentInstance{}, fmt.Errorf("%w: %s has no submaterial", ErrNotASubmaterialItem, simple.Definition)
	}
	sub, err := r.catalog.Submaterial(*item.Submaterial)
	if err != nil {
		return ComponentInstance{}, err
	}
	kind, err := r.catalog.ComponentKind(recipe.Output)
	if err != nil {
		return ComponentInstance{}, err
	}
	if !kind.AcceptedMaterials.Has(sub.Material) {
		accepted := make([]string, 0, len(kind.AcceptedMaterials))
		for _, m := range kind.AcceptedMaterials.Sorted() {
			accepted = append(accepted, string(m))
		}
		return ComponentInstance{}, fmt.Errorf("%w: %s is %s but %s accepts [%s]", ErrMaterialMismatch, sub.ID, sub.Material, kind.ID, strings.Join(accepted, ", "))
	}

	return ComponentInstance{
		ID:            r.store.NextInstanceID(),
		ComponentKind: kind.ID,
		Submaterial:   sub.ID,
		Grade:         clonePtr(sub.Grade),
		Provenance:    r.provenance(recipe.ID, []ConsumedInput{{Instance: input, Quantity: 1}}, tool, worldObject),
	}, nil
}

func (r *Registry) executeComposite(id RecipeID, slots []SlotInput, tool *InstanceID, worldObject *WorldObjectID) (CompositeInstance, error) {
	recipe, err := r.catalog.CompositeRecipe(id)
	if err != nil {
		return CompositeInstance{}, err
	}
	def, err := r.catalog.Item(recipe.Output)
	if err != nil {
		return CompositeInstance{}, err
	}
	comp, ok := def.Kind.(CompositeItem)
	if !ok {
		return CompositeInstance{}, fmt.Errorf("%w: recipe %s outputs %s which is a %s item", ErrNotAComposite, recipe.ID, recipe.Output, def.KindName())
	}
	ids := make([]InstanceID, len(slots))
	for i, s := range slots {
		ids[i] = s.Instance
	}
	if err := checkDistinct(tool, ids...); err != nil {
		return CompositeInstance{}, err
	}
	if err := checkRequirements(r.catalog, r.store, recipe.Requirements, tool, worldObject); err != nil {
		return CompositeInstance{}, err
	}
	if len(slots) != len(comp.Slots) {
		return CompositeInstance{}, fmt.Errorf("%w: expected %d components but got %d", ErrSlotCoverage, len(comp.Slots), len(slots))
	}

	filled := make(map[string]ComponentInstance, len(slots))
	for _, s := range slots {
		if _, dup := filled[s.Slot]; dup {
			return CompositeInstance{}, fmt.Errorf("%w: %s", ErrSlotFilledMultipleTimes, s.Slot)
		}
		slot, ok := comp.Slot(s.Slot)
		if !ok {
			return CompositeInstance{}, fmt.Errorf("%w: %s has no slot %q", ErrUnknownSlot, def.ID, s.Slot)
		}
		inst, err := r.store.Instance(s.Instance)
		if err != nil {
			return CompositeInstance{}, err
		}
		component, ok := inst.(ComponentInstance)
		if !ok {
			return CompositeInstance{}, fmt.Errorf("%w: slot %s needs a component, instance %d is %s", ErrWrongInstanceKind, s.Slot, s.Instance, inst.InstanceKind())
		}
		if component.ComponentKind != slot.ComponentKind {
			return CompositeInstance{}, fmt.Errorf("%w: slot %s needs %s but instance %d is %s", ErrSlotKindMismatch, s.Slot, slot.ComponentKind, s.Instance, component.ComponentKind)
		}
		filled[s.Slot] = component
	}

	graded := make([]SlotQuality, 0, len(comp.Slots))
	for _, slot := range comp.Slots {
		component, ok := filled[slot.Name]
		if !ok {
			return CompositeInstance{}, fmt.Errorf("%w: slot %s was not filled", ErrSlotCoverage, slot.Name)
		}
		if component.Grade != nil {
			graded = append(graded, SlotQuality{Slot: slot.Name, Quality: *component.Grade})
		}
	}
	quality, err := recipe.Formula.compute(recipe, graded, r.policies)
	if err != nil {
		return CompositeInstance{}, err
	}

	consumed := make([]ConsumedInput, 0, len(slots))
	for _, s := range slots {
		consumed = append(consumed, ConsumedInput{Instance: s.Instance, Quantity: 1})
	}
	return CompositeInstance{
		ID:         r.store.NextInstanceID(),
		Definition: def.ID,
		Quality:    quality,
		Components: filled,
		Provenance: r.provenance(recipe.ID, consumed, tool, worldObject),
	}, nil
}

func (r *Registry) provenance(recipe RecipeID, consumed []ConsumedInput, tool *InstanceID, worldObject *WorldObjectID) Provenance {
	return Provenance{
		Recipe:          recipe,
		ConsumedInputs:  consumed,
		ToolUsed:        clonePtr(tool),
		WorldObjectUsed: clonePtr(worldObject),
		CraftedAt:       r.now().UTC(),
	}
}

func (r *Registry) observe(kind RecipeKind, recipe RecipeID, err error) {
	r.recorder.RecordExecution(kind, recipe, err)
	r.logger.Debug().
		Str("kind", string(kind)).
		Str("recipe", string(recipe)).
		Err(err).
		Msg("recipe executed")
}

func checkDistinct(tool *InstanceID, ids ...InstanceID) error {
	seen := make(map[InstanceID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return fmt.Errorf("%w: instance %d supplied more than once", ErrDuplicateInput, id)
		}
		seen[id] = true
	}
	if tool != nil && seen[*tool] {
		return fmt.Errorf("%w: instance %d cannot be both tool and input", ErrDuplicateInput, *tool)
	}
	return nil
}
