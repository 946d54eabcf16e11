// Package archive saves and restores engine state as deterministic CBOR.
package archive

import (
	"fmt"
	"time"

	"github.com/appengine-ltd/craftworks/internal/crafting"
)

// Version is bumped whenever Snapshot changes shape.
const Version = 1

type Snapshot struct {
	Version         int                 `cbor:"version"`
	NextInstance    uint64              `cbor:"next_instance"`
	NextWorldObject uint64              `cbor:"next_world_object"`
	Instances       []InstanceRecord    `cbor:"instances"`
	WorldObjects    []WorldObjectRecord `cbor:"world_objects"`
}

// InstanceRecord flattens the three instance kinds. Components of a
// composite are embedded by value, as the engine stores them.
type InstanceRecord struct {
	ID   uint64 `cbor:"id"`
	Kind string `cbor:"kind"`
	Live bool   `cbor:"live,omitempty"`

	Definition    string       `cbor:"definition,omitempty"`
	ComponentKind string       `cbor:"component_kind,omitempty"`
	Submaterial   string       `cbor:"submaterial,omitempty"`
	Grade         string       `cbor:"grade,omitempty"`
	Quality       string       `cbor:"quality,omitempty"`
	Components    []SlotRecord `cbor:"components,omitempty"`

	Provenance ProvenanceRecord `cbor:"provenance"`
}

type SlotRecord struct {
	Slot      string         `cbor:"slot"`
	Component InstanceRecord `cbor:"component"`
}

type ProvenanceRecord struct {
	Recipe      string           `cbor:"recipe"`
	Consumed    []ConsumedRecord `cbor:"consumed,omitempty"`
	Tool        *uint64          `cbor:"tool,omitempty"`
	WorldObject *uint64          `cbor:"world_object,omitempty"`
	// CraftedAt is unix nanoseconds; zero stands for an unset time.
	CraftedAt int64 `cbor:"crafted_at,omitempty"`
}

type ConsumedRecord struct {
	Instance uint64 `cbor:"instance"`
	Quantity int    `cbor:"quantity"`
}

type WorldObjectRecord struct {
	ID     uint64   `cbor:"id"`
	Type   string   `cbor:"type"`
	KindID string   `cbor:"kind_id"`
	Tags   []string `cbor:"tags,omitempty"`
}

func FromState(state crafting.State) Snapshot {
	live := make(map[crafting.InstanceID]bool, len(state.Live))
	for _, id := range state.Live {
		live[id] = true
	}
	snap := Snapshot{
		Version:         Version,
		NextInstance:    uint64(state.NextInstance),
		NextWorldObject: uint64(state.NextWorldObject),
		Instances:       make([]InstanceRecord, 0, len(state.Ledger)),
		WorldObjects:    make([]WorldObjectRecord, 0, len(state.WorldObjects)),
	}
	for _, inst := range state.Ledger {
		rec := instanceRecord(inst)
		rec.Live = live[inst.InstanceID()]
		snap.Instances = append(snap.Instances, rec)
	}
	for _, obj := range state.WorldObjects {
		rec := WorldObjectRecord{ID: uint64(obj.ID), Type: string(obj.Kind.Type), KindID: obj.Kind.ID}
		for _, tag := range obj.Tags.Sorted() {
			rec.Tags = append(rec.Tags, string(tag))
		}
		snap.WorldObjects = append(snap.WorldObjects, rec)
	}
	return snap
}

func instanceRecord(inst crafting.Instance) InstanceRecord {
	rec := InstanceRecord{
		ID:         uint64(inst.InstanceID()),
		Kind:       string(inst.InstanceKind()),
		Provenance: provenanceRecord(inst.Origin()),
	}
	switch v := inst.(type) {
	case crafting.SimpleInstance:
		rec.Definition = string(v.Definition)
	case crafting.ComponentInstance:
		rec.ComponentKind = string(v.ComponentKind)
		rec.Submaterial = string(v.Submaterial)
		if v.Grade != nil {
			rec.Grade = v.Grade.String()
		}
	case crafting.CompositeInstance:
		rec.Definition = string(v.Definition)
		rec.Quality = v.Quality.String()
		for _, slot := range v.SlotNames() {
			rec.Components = append(rec.Components, SlotRecord{Slot: slot, Component: instanceRecord(v.Components[slot])})
		}
	}
	return rec
}

func provenanceRecord(p crafting.Provenance) ProvenanceRecord {
	rec := ProvenanceRecord{Recipe: string(p.Recipe)}
	for _, in := range p.ConsumedInputs {
		rec.Consumed = append(rec.Consumed, ConsumedRecord{Instance: uint64(in.Instance), Quantity: in.Quantity})
	}
	if p.ToolUsed != nil {
		id := uint64(*p.ToolUsed)
		rec.Tool = &id
	}
	if p.WorldObjectUsed != nil {
		id := uint64(*p.WorldObjectUsed)
		rec.WorldObject = &id
	}
	if !p.CraftedAt.IsZero() {
		rec.CraftedAt = p.CraftedAt.UnixNano()
	}
	return rec
}

// State converts the snapshot back into engine state.
func (s Snapshot) State() (crafting.State, error) {
	if s.Version != Version {
		return crafting.State{}, fmt.Errorf("unsupported archive version %d", s.Version)
	}
	state := crafting.State{
		NextInstance:    crafting.InstanceID(s.NextInstance),
		NextWorldObject: crafting.WorldObjectID(s.NextWorldObject),
	}
	for _, rec := range s.Instances {
		inst, err := rec.instance()
		if err != nil {
			return crafting.State{}, err
		}
		state.Ledger = append(state.Ledger, inst)
		if rec.Live {
			state.Live = append(state.Live, inst.InstanceID())
		}
	}
	for _, rec := range s.WorldObjects {
		obj := crafting.WorldObject{
			ID:   crafting.WorldObjectID(rec.ID),
			Kind: crafting.WorldObjectKind{Type: crafting.WorldObjectType(rec.Type), ID: rec.KindID},
			Tags: make(crafting.Set[crafting.Tag], len(rec.Tags)),
		}
		for _, tag := range rec.Tags {
			obj.Tags[crafting.Tag(tag)] = struct{}{}
		}
		state.WorldObjects = append(state.WorldObjects, obj)
	}
	return state, nil
}

func (r InstanceRecord) instance() (crafting.Instance, error) {
	prov := r.Provenance.provenance()
	id := crafting.InstanceID(r.ID)
	switch crafting.InstanceKind(r.Kind) {
	case crafting.InstanceSimple:
		return crafting.SimpleInstance{ID: id, Definition: crafting.ItemID(r.Definition), Provenance: prov}, nil
	case crafting.InstanceComponent:
		c, err := r.component(prov)
		if err != nil {
			return nil, err
		}
		return c, nil
	case crafting.InstanceComposite:
		quality, err := crafting.ParseQuality(r.Quality)
		if err != nil {
			return nil, fmt.Errorf("instance %d: %w", r.ID, err)
		}
		components := make(map[string]crafting.ComponentInstance, len(r.Components))
		for _, slot := range r.Components {
			if slot.Component.Kind != string(crafting.InstanceComponent) {
				return nil, fmt.Errorf("instance %d: slot %s holds a %s", r.ID, slot.Slot, slot.Component.Kind)
			}
			c, err := slot.Component.component(slot.Component.Provenance.provenance())
			if err != nil {
				return nil, err
			}
			components[slot.Slot] = c
		}
		return crafting.CompositeInstance{ID: id, Definition: crafting.ItemID(r.Definition), Quality: quality, Components: components, Provenance: prov}, nil
	default:
		return nil, fmt.Errorf("instance %d: unknown kind %q", r.ID, r.Kind)
	}
}

func (r InstanceRecord) component(prov crafting.Provenance) (crafting.ComponentInstance, error) {
	c := crafting.ComponentInstance{
		ID:            crafting.InstanceID(r.ID),
		ComponentKind: crafting.ComponentKindID(r.ComponentKind),
		Submaterial:   crafting.SubmaterialID(r.Submaterial),
		Provenance:    prov,
	}
	if r.Grade != "" {
		grade, err := crafting.ParseQuality(r.Grade)
		if err != nil {
			return crafting.ComponentInstance{}, fmt.Errorf("instance %d: %w", r.ID, err)
		}
		c.Grade = &grade
	}
	return c, nil
}

func (p ProvenanceRecord) provenance() crafting.Provenance {
	prov := crafting.Provenance{Recipe: crafting.RecipeID(p.Recipe)}
	for _, in := range p.Consumed {
		prov.ConsumedInputs = append(prov.ConsumedInputs, crafting.ConsumedInput{Instance: crafting.InstanceID(in.Instance), Quantity: in.Quantity})
	}
	if p.Tool != nil {
		id := crafting.InstanceID(*p.Tool)
		prov.ToolUsed = &id
	}
	if p.WorldObject != nil {
		id := crafting.WorldObjectID(*p.WorldObject)
		prov.WorldObjectUsed = &id
	}
	if p.CraftedAt != 0 {
		prov.CraftedAt = time.Unix(0, p.CraftedAt).UTC()
	}
	return prov
}
