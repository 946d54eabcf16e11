package crafting

import (
	"maps"
	"slices"
	"time"
)

type InstanceKind string

const (
	InstanceSimple    InstanceKind = "simple"
	InstanceComponent InstanceKind = "component"
	InstanceComposite InstanceKind = "composite"
)

// Instance is one of SimpleInstance, ComponentInstance or CompositeInstance.
type Instance interface {
	InstanceID() InstanceID
	InstanceKind() InstanceKind
	Origin() Provenance
	clone() Instance
}

type Provenance struct {
	Recipe          RecipeID
	ConsumedInputs  []ConsumedInput
	ToolUsed        *InstanceID
	WorldObjectUsed *WorldObjectID
	CraftedAt       time.Time
}

type ConsumedInput struct {
	Instance InstanceID
	Quantity int
}

func (p Provenance) clone() Provenance {
	p.ConsumedInputs = slices.Clone(p.ConsumedInputs)
	p.ToolUsed = clonePtr(p.ToolUsed)
	p.WorldObjectUsed = clonePtr(p.WorldObjectUsed)
	return p
}

type SimpleInstance struct {
	ID         InstanceID
	Definition ItemID
	Provenance Provenance
}

type ComponentInstance struct {
	ID            InstanceID
	ComponentKind ComponentKindID
	Submaterial   SubmaterialID
	// Grade is copied from the submaterial when the component is forged.
	Grade      *Quality
	Provenance Provenance
}

type CompositeInstance struct {
	ID         InstanceID
	Definition ItemID
	Quality    Quality
	// Components holds a snapshot of the component that filled each slot.
	Components map[string]ComponentInstance
	Provenance Provenance
}

func (s SimpleInstance) InstanceID() InstanceID     { return s.ID }
func (s SimpleInstance) InstanceKind() InstanceKind { return InstanceSimple }
func (s SimpleInstance) Origin() Provenance         { return s.Provenance.clone() }

func (s SimpleInstance) clone() Instance {
	s.Provenance = s.Provenance.clone()
	return s
}

func (c ComponentInstance) InstanceID() InstanceID     { return c.ID }
func (c ComponentInstance) InstanceKind() InstanceKind { return InstanceComponent }
func (c ComponentInstance) Origin() Provenance         { return c.Provenance.clone() }

func (c ComponentInstance) clone() Instance {
	return c.cloneComponent()
}

func (c ComponentInstance) cloneComponent() ComponentInstance {
	c.Grade = clonePtr(c.Grade)
	c.Provenance = c.Provenance.clone()
	return c
}

func (c CompositeInstance) InstanceID() InstanceID     { return c.ID }
func (c CompositeInstance) InstanceKind() InstanceKind { return InstanceComposite }
func (c CompositeInstance) Origin() Provenance         { return c.Provenance.clone() }

func (c CompositeInstance) clone() Instance {
	components := make(map[string]ComponentInstance, len(c.Components))
	for slot, comp := range c.Components {
		components[slot] = comp.cloneComponent()
	}
	c.Components = components
	c.Provenance = c.Provenance.clone()
	return c
}

// SlotNames returns the filled slot names, sorted.
func (c CompositeInstance) SlotNames() []string {
	return slices.Sorted(maps.Keys(c.Components))
}
