package crafting

import (
	"fmt"
	"slices"
	"sync/atomic"
)

// Store maps instance ids to live instances and world object ids to placed
// world objects. Every registered instance is also written to an append-only
// ledger that removal never touches, so provenance stays resolvable after its
// inputs are consumed. Id issuance is atomic; everything else expects the
// caller to serialize access.
type Store struct {
	nextInstance    atomic.Uint64
	nextWorldObject atomic.Uint64

	live         map[InstanceID]Instance
	ledger       map[InstanceID]Instance
	worldObjects map[WorldObjectID]WorldObject
}

func NewStore() *Store {
	return &Store{
		live:         make(map[InstanceID]Instance),
		ledger:       make(map[InstanceID]Instance),
		worldObjects: make(map[WorldObjectID]WorldObject),
	}
}

func (s *Store) NextInstanceID() InstanceID {
	return InstanceID(s.nextInstance.Add(1) - 1)
}

func (s *Store) NextWorldObjectID() WorldObjectID {
	return WorldObjectID(s.nextWorldObject.Add(1) - 1)
}

func (s *Store) RegisterInstance(inst Instance) error {
	if inst == nil {
		return fmt.Errorf("register instance: nil instance")
	}
	id := inst.InstanceID()
	if _, exists := s.ledger[id]; exists {
		return fmt.Errorf("%w: instance %d", ErrAlreadyRegistered, id)
	}
	stored := inst.clone()
	s.live[id] = stored
	s.ledger[id] = stored
	reserve(&s.nextInstance, uint64(id))
	return nil
}

// RemoveInstance drops id from the live view and returns what was removed.
// The ledger entry stays.
func (s *Store) RemoveInstance(id InstanceID) (Instance, error) {
	inst, ok := s.live[id]
	if !ok {
		return nil, notFound(EntityInstance, id.String())
	}
	delete(s.live, id)
	return inst.clone(), nil
}

func (s *Store) Instance(id InstanceID) (Instance, error) {
	inst, ok := s.live[id]
	if !ok {
		return nil, notFound(EntityInstance, id.String())
	}
	return inst.clone(), nil
}

func (s *Store) IsLive(id InstanceID) bool {
	_, ok := s.live[id]
	return ok
}

// Instances returns the live instances sorted by id.
func (s *Store) Instances() []Instance {
	return sortedInstances(s.live)
}

// LedgerEntry resolves any instance ever registered, live or consumed.
func (s *Store) LedgerEntry(id InstanceID) (Instance, error) {
	inst, ok := s.ledger[id]
	if !ok {
		return nil, notFound(EntityInstance, id.String())
	}
	return inst.clone(), nil
}

func (s *Store) Ledger() []Instance {
	return sortedInstances(s.ledger)
}

func (s *Store) Len() int {
	return len(s.live)
}

func (s *Store) RegisterWorldObject(obj WorldObject) error {
	if _, exists := s.worldObjects[obj.ID]; exists {
		return fmt.Errorf("%w: world object %d", ErrAlreadyRegistered, obj.ID)
	}
	s.worldObjects[obj.ID] = obj.clone()
	reserve(&s.nextWorldObject, uint64(obj.ID))
	return nil
}

func (s *Store) WorldObject(id WorldObjectID) (WorldObject, error) {
	obj, ok := s.worldObjects[id]
	if !ok {
		return WorldObject{}, notFound(EntityWorldObject, id.String())
	}
	return obj.clone(), nil
}

func (s *Store) RemoveWorldObject(id WorldObjectID) (WorldObject, error) {
	obj, ok := s.worldObjects[id]
	if !ok {
		return WorldObject{}, notFound(EntityWorldObject, id.String())
	}
	delete(s.worldObjects, id)
	return obj, nil
}

func (s *Store) WorldObjects() []WorldObject {
	ids := make([]WorldObjectID, 0, len(s.worldObjects))
	for id := range s.worldObjects {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]WorldObject, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.worldObjects[id].clone())
	}
	return out
}

// restore writes a historical ledger entry, optionally live as well.
func (s *Store) restore(inst Instance, live bool) error {
	id := inst.InstanceID()
	if _, exists := s.ledger[id]; exists {
		return fmt.Errorf("%w: instance %d", ErrAlreadyRegistered, id)
	}
	stored := inst.clone()
	s.ledger[id] = stored
	if live {
		s.live[id] = stored
	}
	reserve(&s.nextInstance, uint64(id))
	return nil
}

func (s *Store) empty() bool {
	return len(s.ledger) == 0 && len(s.worldObjects) == 0 &&
		s.nextInstance.Load() == 0 && s.nextWorldObject.Load() == 0
}

// reserve moves the counter past id so it is never issued again.
func reserve(counter *atomic.Uint64, id uint64) {
	for {
		cur := counter.Load()
		if cur > id {
			return
		}
		if counter.CompareAndSwap(cur, id+1) {
			return
		}
	}
}

func sortedInstances(m map[InstanceID]Instance) []Instance {
	ids := make([]InstanceID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]Instance, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id].clone())
	}
	return out
}
