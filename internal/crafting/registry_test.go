package crafting

import (
	"errors"
	"testing"
)

func TestCommitRejectsWithoutPartialEffects(t *testing.T) {
	r := newTestRegistry(t)
	ore := spawn(t, r, "iron_bar")
	out, err := r.ExecuteComponent("craft_blade", ore, nil, nil)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	before := snapshotStore(r)
	if err := r.Commit([]Instance{out}, []InstanceID{ore, 99}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for unknown consumed id, got %v", err)
	}
	assertUnchanged(t, r, before)

	if err := r.Commit([]Instance{out}, []InstanceID{ore, ore}); !errors.Is(err, ErrDuplicateInput) {
		t.Fatalf("expected duplicate input, got %v", err)
	}
	assertUnchanged(t, r, before)

	if err := r.Commit([]Instance{out, out}, []InstanceID{ore}); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("expected already registered for repeated output, got %v", err)
	}
	assertUnchanged(t, r, before)

	if err := r.Commit([]Instance{out}, []InstanceID{ore}); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := r.Commit([]Instance{out}, nil); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("expected recommit to fail, got %v", err)
	}
	if r.IsLive(ore) {
		t.Fatalf("expected consumed input to leave the live set")
	}
}

func TestRemovedIdsAreNeverReissued(t *testing.T) {
	r := newTestRegistry(t)
	id := spawn(t, r, "oak_log")
	if _, err := r.RemoveInstance(id); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := r.RemoveInstance(id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected second remove to fail, got %v", err)
	}
	inst, err := r.LedgerEntry(id)
	if err != nil {
		t.Fatalf("expected removed instance to stay in the ledger: %v", err)
	}
	if err := r.RegisterInstance(inst); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("expected re-registering a ledger id to fail, got %v", err)
	}
	if next := r.NextInstanceID(); next <= id {
		t.Fatalf("expected next id above %d, got %d", id, next)
	}
}

func TestRegisterInstanceReservesExplicitIds(t *testing.T) {
	r := newTestRegistry(t)
	inst := SimpleInstance{ID: 40, Definition: "oak_log", Provenance: Provenance{Recipe: RecipeRawMaterial}}
	if err := r.RegisterInstance(inst); err != nil {
		t.Fatalf("register: %v", err)
	}
	if next := r.NextInstanceID(); next != 41 {
		t.Fatalf("expected id issuance to skip past 40, got %d", next)
	}
}

func TestInstantiate(t *testing.T) {
	r := newTestRegistry(t)
	raw, err := r.Instantiate("oak_log")
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	if raw.Provenance.Recipe != RecipeRawMaterial || len(raw.Provenance.ConsumedInputs) != 0 {
		t.Fatalf("unexpected raw provenance %+v", raw.Provenance)
	}
	drop, err := r.Instantiate("copper_ore")
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	if drop.Provenance.Recipe != RecipeWorldDrop {
		t.Fatalf("expected world drop, got %s", drop.Provenance.Recipe)
	}
	if drop.ID == raw.ID {
		t.Fatalf("expected distinct ids")
	}
	if _, err := r.Instantiate("knife"); !errors.Is(err, ErrWrongInstanceKind) {
		t.Fatalf("expected composite instantiate to fail, got %v", err)
	}
	if len(r.Instances()) != 0 {
		t.Fatalf("instantiate must not register")
	}
}

func TestPlace(t *testing.T) {
	r := newTestRegistry(t)
	anvil := spawn(t, r, "anvil")
	obj, err := r.Place(anvil)
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if obj.Kind != Station("forge") || !obj.Tags.Has("high_heat") {
		t.Fatalf("unexpected world object %+v", obj)
	}
	if r.IsLive(anvil) {
		t.Fatalf("expected placed instance to leave inventory")
	}
	if _, err := r.WorldObject(obj.ID); err != nil {
		t.Fatalf("expected world object to be registered: %v", err)
	}

	bar := spawn(t, r, "iron_bar")
	if _, err := r.Place(bar); !errors.Is(err, ErrNotPlaceable) {
		t.Fatalf("expected not placeable, got %v", err)
	}
	blade := forge(t, r, "craft_blade", "steel_bar")
	if _, err := r.Place(blade); !errors.Is(err, ErrNotPlaceable) {
		t.Fatalf("expected component to be not placeable, got %v", err)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	r := newTestRegistry(t)
	parts := knifeParts(t, r)
	knife, err := r.ExecuteComposite("assemble_knife", parts, nil, nil)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	consumed := []InstanceID{parts[0].Instance, parts[1].Instance, parts[2].Instance}
	if err := r.Commit([]Instance{knife}, consumed); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if _, err := r.Place(spawn(t, r, "anvil")); err != nil {
		t.Fatalf("place: %v", err)
	}

	state := r.Export()
	restored := newTestRegistry(t)
	if err := restored.Import(state); err != nil {
		t.Fatalf("import: %v", err)
	}
	if got, want := len(restored.Ledger()), len(r.Ledger()); got != want {
		t.Fatalf("ledger size %d want %d", got, want)
	}
	if got, want := len(restored.Instances()), len(r.Instances()); got != want {
		t.Fatalf("live size %d want %d", got, want)
	}
	if len(restored.WorldObjects()) != 1 {
		t.Fatalf("expected placed world object to survive import")
	}
	if restored.NextInstanceID() != r.NextInstanceID() {
		t.Fatalf("expected id issuance to resume where it stopped")
	}
	tree, err := restored.Trace(knife.ID)
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	if len(tree.Children) != 3 {
		t.Fatalf("expected restored trace to reach all components, got %d", len(tree.Children))
	}

	if err := restored.Import(state); err == nil {
		t.Fatalf("expected import into a used store to fail")
	}
}

func TestImportRejectsInvalidState(t *testing.T) {
	forward := SimpleInstance{ID: 1, Definition: "bronze_bar", Provenance: Provenance{
		Recipe:         "smelt_bronze_bar",
		ConsumedInputs: []ConsumedInput{{Instance: 2, Quantity: 1}},
	}}
	tests := []struct {
		name  string
		state State
	}{
		{name: "forward reference", state: State{Ledger: []Instance{forward}}},
		{name: "orphan live id", state: State{Live: []InstanceID{5}}},
		{name: "duplicate ledger id", state: State{Ledger: []Instance{
			SimpleInstance{ID: 3, Definition: "oak_log"},
			SimpleInstance{ID: 3, Definition: "oak_log"},
		}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRegistry(t)
			if err := r.Import(tc.state); err == nil {
				t.Fatalf("expected import to fail")
			}
			if len(r.Ledger()) != 0 {
				t.Fatalf("expected failed import to leave the store empty")
			}
		})
	}
}

type countingRecorder struct {
	executions int
	failures   int
	commits    int
}

func (c *countingRecorder) RecordExecution(_ RecipeKind, _ RecipeID, err error) {
	c.executions++
	if err != nil {
		c.failures++
	}
}

func (c *countingRecorder) RecordCommit(int, int, int) { c.commits++ }

func TestRecorderObservesExecutions(t *testing.T) {
	rec := &countingRecorder{}
	r := NewRegistry(testCatalog(), WithRecorder(rec))
	bar := spawn(t, r, "iron_bar")
	if _, err := r.ExecuteComponent("carve_handle", bar, nil, nil); err == nil {
		t.Fatalf("expected material mismatch")
	}
	out, err := r.ExecuteComponent("craft_blade", bar, nil, nil)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if err := r.Commit([]Instance{out}, []InstanceID{bar}); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if rec.executions != 2 || rec.failures != 1 {
		t.Fatalf("unexpected executions=%d failures=%d", rec.executions, rec.failures)
	}
	if rec.commits != 2 {
		t.Fatalf("expected register and commit to be recorded, got %d", rec.commits)
	}
}
