package crafting

import (
	"fmt"
	"strings"
)

// ValidateTool reports whether inst can serve as the tool req asks for. A
// composite qualifies through its definition's tool type and carries its own
// quality; a bare component qualifies through its kind's makeshift tags at
// makeshift quality. Simple items are never tools.
func ValidateTool(catalog *Catalog, inst Instance, req ToolRequirement) error {
	var quality Quality
	switch tool := inst.(type) {
	case CompositeInstance:
		def, err := catalog.Item(tool.Definition)
		if err != nil {
			return err
		}
		comp, ok := def.Kind.(CompositeItem)
		if !ok || comp.ToolType == nil || *comp.ToolType != req.ToolType {
			return fmt.Errorf("%w: instance %d (%s) is not a %s tool", ErrRequirementUnmet, tool.ID, tool.Definition, req.ToolType)
		}
		quality = tool.Quality
	case ComponentInstance:
		kind, err := catalog.ComponentKind(tool.ComponentKind)
		if err != nil {
			return err
		}
		if !kind.MakeshiftTags.Has(req.ToolType) {
			return fmt.Errorf("%w: component %d (%s) cannot stand in for a %s", ErrRequirementUnmet, tool.ID, tool.ComponentKind, req.ToolType)
		}
		quality = QualityMakeshift
	case SimpleInstance:
		return fmt.Errorf("%w: simple item %d (%s) cannot serve as a tool", ErrRequirementUnmet, tool.ID, tool.Definition)
	default:
		return fmt.Errorf("%w: unsupported tool instance %T", ErrWrongInstanceKind, inst)
	}
	if !quality.AtLeast(req.MinQuality) {
		return fmt.Errorf("%w: tool %d quality %s is below required %s", ErrRequirementUnmet, inst.InstanceID(), quality, req.MinQuality)
	}
	return nil
}

// ValidateWorldObject checks kind equality (no subtyping) and that every
// required tag is present on the object.
func ValidateWorldObject(obj WorldObject, req WorldObjectRequirement) error {
	if req.Kind != nil && obj.Kind != *req.Kind {
		return fmt.Errorf("%w: world object %d is %s but %s is required", ErrRequirementUnmet, obj.ID, obj.Kind, *req.Kind)
	}
	if missing := obj.Tags.Missing(req.RequiredTags); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, tag := range missing {
			names[i] = string(tag)
		}
		return fmt.Errorf("%w: world object %d is missing tags [%s]", ErrRequirementUnmet, obj.ID, strings.Join(names, ", "))
	}
	return nil
}

// checkRequirements resolves the supplied tool and world object against the
// store. Ids supplied without a matching requirement must still exist, since
// they are recorded on the output's provenance.
func checkRequirements(catalog *Catalog, store *Store, reqs Requirements, tool *InstanceID, worldObject *WorldObjectID) error {
	switch {
	case reqs.Tool != nil && tool == nil:
		return fmt.Errorf("%w: recipe requires a tool but none was provided", ErrRequirementUnmet)
	case tool != nil:
		inst, err := store.Instance(*tool)
		if err != nil {
			return err
		}
		if reqs.Tool != nil {
			if err := ValidateTool(catalog, inst, *reqs.Tool); err != nil {
				return err
			}
		}
	}

	switch {
	case reqs.WorldObject != nil && worldObject == nil:
		return fmt.Errorf("%w: recipe requires a world object but none was provided", ErrRequirementUnmet)
	case worldObject != nil:
		obj, err := store.WorldObject(*worldObject)
		if err != nil {
			return err
		}
		if reqs.WorldObject != nil {
			if err := ValidateWorldObject(obj, *reqs.WorldObject); err != nil {
				return err
			}
		}
	}
	return nil
}
