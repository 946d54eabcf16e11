package crafting

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Recorder observes engine activity. Implementations must not call back into
// the Registry.
type Recorder interface {
	RecordExecution(kind RecipeKind, recipe RecipeID, err error)
	RecordCommit(registered, removed, live int)
}

type nopRecorder struct{}

func (nopRecorder) RecordExecution(RecipeKind, RecipeID, error) {}
func (nopRecorder) RecordCommit(int, int, int)                  {}

type Option func(*Registry)

func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

func WithRecorder(rec Recorder) Option {
	return func(r *Registry) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// Registry owns a Catalog and a Store behind one lock that belongs to the
// engine alone. Lookups and executions share the read lock; registration,
// removal and Commit take the write lock. Executions never mutate the store:
// they validate, build the output and hand it back for the caller to Commit.
type Registry struct {
	mu       sync.RWMutex
	catalog  *Catalog
	store    *Store
	policies map[string]QualityPolicy

	now      func() time.Time
	logger   zerolog.Logger
	recorder Recorder
}

func NewRegistry(catalog *Catalog, opts ...Option) *Registry {
	if catalog == nil {
		catalog = NewCatalog()
	}
	r := &Registry{
		catalog:  catalog,
		store:    NewStore(),
		policies: make(map[string]QualityPolicy),
		now:      time.Now,
		logger:   zerolog.Nop(),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterQualityPolicy installs the function behind Custom(name) formulas.
func (r *Registry) RegisterQualityPolicy(name string, policy QualityPolicy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.policies[name] = policy
}

// ViewCatalog runs fn with the catalog under the read lock.
func (r *Registry) ViewCatalog(fn func(*Catalog)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn(r.catalog)
}

func (r *Registry) Item(id ItemID) (ItemDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.catalog.Item(id)
}

func (r *Registry) Recipe(id RecipeID) (Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.catalog.Recipe(id)
}

func (r *Registry) Items() []ItemDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.catalog.Items()
}

func (r *Registry) Recipes() []Recipe {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.catalog.Recipes()
}

func (r *Registry) NextInstanceID() InstanceID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.NextInstanceID()
}

func (r *Registry) NextWorldObjectID() WorldObjectID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.NextWorldObjectID()
}

func (r *Registry) RegisterInstance(inst Instance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.store.RegisterInstance(inst); err != nil {
		return err
	}
	r.recorder.RecordCommit(1, 0, r.store.Len())
	return nil
}

func (r *Registry) RemoveInstance(id InstanceID) (Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, err := r.store.RemoveInstance(id)
	if err != nil {
		return nil, err
	}
	r.recorder.RecordCommit(0, 1, r.store.Len())
	return inst, nil
}

func (r *Registry) Instance(id InstanceID) (Instance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.Instance(id)
}

func (r *Registry) IsLive(id InstanceID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.IsLive(id)
}

func (r *Registry) Instances() []Instance {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.Instances()
}

func (r *Registry) LedgerEntry(id InstanceID) (Instance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.LedgerEntry(id)
}

func (r *Registry) Ledger() []Instance {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.Ledger()
}

func (r *Registry) RegisterWorldObject(obj WorldObject) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.RegisterWorldObject(obj)
}

func (r *Registry) WorldObject(id WorldObjectID) (WorldObject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.WorldObject(id)
}

func (r *Registry) WorldObjects() []WorldObject {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.WorldObjects()
}

func (r *Registry) RemoveWorldObject(id WorldObjectID) (WorldObject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.RemoveWorldObject(id)
}

// Commit registers outputs and removes consumed inputs as one step. Nothing
// changes unless every consumed id is live and every output id is new.
func (r *Registry) Commit(outputs []Instance, consumed []InstanceID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[InstanceID]bool, len(consumed))
	for _, id := range consumed {
		if seen[id] {
			return fmt.Errorf("%w: instance %d consumed twice", ErrDuplicateInput, id)
		}
		seen[id] = true
		if !r.store.IsLive(id) {
			return notFound(EntityInstance, id.String())
		}
	}
	fresh := make(map[InstanceID]bool, len(outputs))
	for _, out := range outputs {
		if out == nil {
			return fmt.Errorf("commit: nil output")
		}
		id := out.InstanceID()
		if _, err := r.store.LedgerEntry(id); err == nil || fresh[id] {
			return fmt.Errorf("%w: instance %d", ErrAlreadyRegistered, id)
		}
		fresh[id] = true
	}

	for _, out := range outputs {
		if err := r.store.RegisterInstance(out); err != nil {
			return err
		}
	}
	for _, id := range consumed {
		if _, err := r.store.RemoveInstance(id); err != nil {
			return err
		}
	}
	r.recorder.RecordCommit(len(outputs), len(consumed), r.store.Len())
	r.logger.Debug().
		Int("registered", len(outputs)).
		Int("removed", len(consumed)).
		Int("live", r.store.Len()).
		Msg("commit")
	return nil
}

// Instantiate builds a raw simple instance of item with an empty provenance.
// Like the Execute methods it does not register the result.
func (r *Registry) Instantiate(item ItemID) (SimpleInstance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, err := r.catalog.Item(item)
	if err != nil {
		return SimpleInstance{}, err
	}
	simple, ok := def.Kind.(SimpleItem)
	if !ok {
		return SimpleInstance{}, fmt.Errorf("%w: only simple items can be instantiated raw, %s is %s", ErrWrongInstanceKind, item, def.KindName())
	}
	recipe := RecipeWorldDrop
	if simple.Submaterial != nil {
		recipe = RecipeRawMaterial
	}
	return SimpleInstance{
		ID:         r.store.NextInstanceID(),
		Definition: item,
		Provenance: Provenance{Recipe: recipe, CraftedAt: r.now().UTC()},
	}, nil
}

// Place moves a placeable simple instance out of inventory and into the world.
func (r *Registry) Place(id InstanceID) (WorldObject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, err := r.store.Instance(id)
	if err != nil {
		return WorldObject{}, err
	}
	simple, ok := inst.(SimpleInstance)
	if !ok {
		return WorldObject{}, fmt.Errorf("%w: instance %d is %s", ErrNotPlaceable, id, inst.InstanceKind())
	}
	def, err := r.catalog.Item(simple.Definition)
	if err != nil {
		return WorldObject{}, err
	}
	item, ok := def.Kind.(SimpleItem)
	if !ok || item.Placeable == nil {
		return WorldObject{}, fmt.Errorf("%w: %s", ErrNotPlaceable, simple.Definition)
	}
	obj := WorldObject{
		ID:   r.store.NextWorldObjectID(),
		Kind: item.Placeable.Kind,
		Tags: item.Placeable.Tags.Clone(),
	}
	if err := r.store.RegisterWorldObject(obj); err != nil {
		return WorldObject{}, err
	}
	if _, err := r.store.RemoveInstance(id); err != nil {
		return WorldObject{}, err
	}
	r.recorder.RecordCommit(0, 1, r.store.Len())
	return obj, nil
}

// State is a full copy of the store, for archiving.
type State struct {
	Ledger          []Instance
	Live            []InstanceID
	WorldObjects    []WorldObject
	NextInstance    InstanceID
	NextWorldObject WorldObjectID
}

func (r *Registry) Export() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	live := make([]InstanceID, 0, r.store.Len())
	for _, inst := range r.store.Instances() {
		live = append(live, inst.InstanceID())
	}
	return State{
		Ledger:          r.store.Ledger(),
		Live:            live,
		WorldObjects:    r.store.WorldObjects(),
		NextInstance:    InstanceID(r.store.nextInstance.Load()),
		NextWorldObject: WorldObjectID(r.store.nextWorldObject.Load()),
	}
}

// Import loads state into a registry whose store has never been used. Every
// ledger entry may only reference ids lower than its own, which keeps the
// provenance graph acyclic.
func (r *Registry) Import(state State) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.store.empty() {
		return fmt.Errorf("import: store already in use")
	}

	live := make(map[InstanceID]bool, len(state.Live))
	for _, id := range state.Live {
		live[id] = true
	}
	entries := slices.Clone(state.Ledger)
	slices.SortFunc(entries, func(a, b Instance) int {
		return cmp.Compare(a.InstanceID(), b.InstanceID())
	})

	next := NewStore()
	for _, inst := range entries {
		if inst == nil {
			return fmt.Errorf("import: nil ledger entry")
		}
		id := inst.InstanceID()
		origin := inst.Origin()
		for _, in := range origin.ConsumedInputs {
			if in.Instance >= id {
				return fmt.Errorf("import: instance %d consumes later instance %d", id, in.Instance)
			}
		}
		if origin.ToolUsed != nil && *origin.ToolUsed >= id {
			return fmt.Errorf("import: instance %d uses later tool %d", id, *origin.ToolUsed)
		}
		if err := next.restore(inst, live[id]); err != nil {
			return fmt.Errorf("import: %w", err)
		}
		delete(live, id)
	}
	if len(live) > 0 {
		orphans := slices.Sorted(maps.Keys(live))
		return fmt.Errorf("import: live instance %d has no ledger entry", orphans[0])
	}
	for _, obj := range state.WorldObjects {
		if err := next.RegisterWorldObject(obj); err != nil {
			return fmt.Errorf("import: %w", err)
		}
	}
	if state.NextInstance > 0 {
		reserve(&next.nextInstance, uint64(state.NextInstance-1))
	}
	if state.NextWorldObject > 0 {
		reserve(&next.nextWorldObject, uint64(state.NextWorldObject-1))
	}
	r.store = next
	r.recorder.RecordCommit(0, 0, r.store.Len())
	return nil
}
