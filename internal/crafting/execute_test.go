package crafting

import (
	"errors"
	"strings"
	"testing"
)

func TestComponentRecipeForgesBladeFromIron(t *testing.T) {
	r := newTestRegistry(t)
	bar := spawn(t, r, "iron_bar")
	if bar != 0 {
		t.Fatalf("expected first instance id 0, got %d", bar)
	}

	out, err := r.ExecuteComponent("craft_blade", bar, nil, nil)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out.ComponentKind != "blade" || out.Submaterial != "iron_metal" {
		t.Fatalf("unexpected component: %+v", out)
	}
	if out.Grade == nil || *out.Grade != QualityCommon {
		t.Fatalf("expected grade copied from submaterial, got %v", out.Grade)
	}
	if len(out.Provenance.ConsumedInputs) != 1 || out.Provenance.ConsumedInputs[0] != (ConsumedInput{Instance: bar, Quantity: 1}) {
		t.Fatalf("unexpected consumed inputs: %+v", out.Provenance.ConsumedInputs)
	}
	if !out.Provenance.CraftedAt.Equal(fixedNow) {
		t.Fatalf("expected crafted_at from clock, got %v", out.Provenance.CraftedAt)
	}
}

func TestComponentRecipeRejectsWrongMaterial(t *testing.T) {
	r := newTestRegistry(t)
	log := spawn(t, r, "oak_log")
	before := snapshotStore(r)

	_, err := r.ExecuteComponent("craft_blade", log, nil, nil)
	if !errors.Is(err, ErrMaterialMismatch) {
		t.Fatalf("expected material mismatch, got %v", err)
	}
	if !strings.Contains(err.Error(), "wood") || !strings.Contains(err.Error(), "[metal]") {
		t.Fatalf("expected offending and accepted materials in message, got %q", err)
	}
	assertUnchanged(t, r, before)
}

func TestMaterialGatingHoldsForEveryRecipeTargetingKind(t *testing.T) {
	r := newTestRegistry(t)
	var recipes []RecipeID
	r.ViewCatalog(func(c *Catalog) {
		for _, recipe := range c.ComponentRecipes() {
			if recipe.Output == "blade" && recipe.Requirements.WorldObject == nil {
				recipes = append(recipes, recipe.ID)
			}
		}
	})
	if len(recipes) == 0 {
		t.Fatalf("expected blade recipes in fixture")
	}
	for _, item := range []ItemID{"oak_log", "flax_twine"} {
		input := spawn(t, r, item)
		for _, recipe := range recipes {
			if _, err := r.ExecuteComponent(recipe, input, nil, nil); !errors.Is(err, ErrMaterialMismatch) {
				t.Fatalf("%s on %s: expected material mismatch, got %v", recipe, item, err)
			}
		}
	}
}

func TestComponentRecipeInputKinds(t *testing.T) {
	r := newTestRegistry(t)
	ore := spawn(t, r, "copper_ore")
	blade := forge(t, r, "craft_blade", "iron_bar")

	if _, err := r.ExecuteComponent("craft_blade", ore, nil, nil); !errors.Is(err, ErrNotASubmaterialItem) {
		t.Fatalf("expected not a submaterial item, got %v", err)
	}
	if _, err := r.ExecuteComponent("craft_blade", blade, nil, nil); !errors.Is(err, ErrWrongInstanceKind) {
		t.Fatalf("expected wrong instance kind, got %v", err)
	}
	if _, err := r.ExecuteComponent("craft_blade", 999, nil, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCompositeRecipeAssemblesKnife(t *testing.T) {
	r := newTestRegistry(t)
	parts := knifeParts(t, r)

	out, err := r.ExecuteComposite("assemble_knife", parts, nil, nil)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	got := out.SlotNames()
	want := []string{"binding", "blade", "handle"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected slots %v, got %v", want, got)
	}
	for _, p := range parts {
		if out.Components[p.Slot].ID != p.Instance {
			t.Fatalf("slot %s holds %d, want %d", p.Slot, out.Components[p.Slot].ID, p.Instance)
		}
	}
	// iron is common, oak uncommon, flax ungraded.
	if out.Quality != QualityCommon {
		t.Fatalf("expected min quality common, got %s", out.Quality)
	}
}

func TestCompositeRecipeMissingComponent(t *testing.T) {
	r := newTestRegistry(t)
	parts := knifeParts(t, r)
	before := snapshotStore(r)

	_, err := r.ExecuteComposite("assemble_knife", parts[:2], nil, nil)
	if !errors.Is(err, ErrSlotCoverage) {
		t.Fatalf("expected slot coverage, got %v", err)
	}
	if !strings.Contains(err.Error(), "expected 3 components but got 2") {
		t.Fatalf("unexpected message: %q", err)
	}
	assertUnchanged(t, r, before)
}

func TestCompositeSlotExactness(t *testing.T) {
	r := newTestRegistry(t)
	parts := knifeParts(t, r)
	extra := forge(t, r, "craft_blade", "steel_bar")

	tests := []struct {
		name  string
		slots []SlotInput
		want  error
	}{
		{name: "exact", slots: parts},
		{name: "too many", slots: append(append([]SlotInput(nil), parts...), SlotInput{Slot: "blade", Instance: extra}), want: ErrSlotCoverage},
		{name: "none", slots: nil, want: ErrSlotCoverage},
		{name: "duplicate slot", slots: []SlotInput{parts[0], {Slot: "blade", Instance: extra}, parts[2]}, want: ErrSlotFilledMultipleTimes},
		{name: "unknown slot", slots: []SlotInput{parts[0], parts[1], {Slot: "pommel", Instance: parts[2].Instance}}, want: ErrUnknownSlot},
		{name: "kind mismatch", slots: []SlotInput{parts[0], {Slot: "handle", Instance: extra}, parts[2]}, want: ErrSlotKindMismatch},
		{name: "same instance twice", slots: []SlotInput{parts[0], {Slot: "handle", Instance: parts[0].Instance}, parts[2]}, want: ErrDuplicateInput},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before := snapshotStore(r)
			_, err := r.ExecuteComposite("assemble_knife", tc.slots, nil, nil)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("expected success, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			assertUnchanged(t, r, before)
		})
	}
}

func TestCompositeRecipeRejectsNonComponentInput(t *testing.T) {
	r := newTestRegistry(t)
	parts := knifeParts(t, r)
	raw := spawn(t, r, "oak_log")
	parts[1] = SlotInput{Slot: "handle", Instance: raw}

	if _, err := r.ExecuteComposite("assemble_knife", parts, nil, nil); !errors.Is(err, ErrWrongInstanceKind) {
		t.Fatalf("expected wrong instance kind, got %v", err)
	}
}

func TestCompositeRecipeOutputMustBeComposite(t *testing.T) {
	c := testCatalog()
	c.RegisterRecipe(CompositeRecipe{ID: "assemble_bar", Output: "iron_bar"})
	r := NewRegistry(c)
	if _, err := r.ExecuteComposite("assemble_bar", nil, nil, nil); !errors.Is(err, ErrNotAComposite) {
		t.Fatalf("expected not a composite, got %v", err)
	}
}

func TestSimpleRecipeSmeltsBronze(t *testing.T) {
	r := newTestRegistry(t)
	inputs := []InstanceID{spawn(t, r, "copper_ore"), spawn(t, r, "copper_ore"), spawn(t, r, "tin_ore")}

	out, err := r.ExecuteSimple("smelt_bronze_bar", inputs, nil, nil)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected one output, got %d", len(out))
	}
	if out[0].Definition != "bronze_bar" {
		t.Fatalf("unexpected output definition %s", out[0].Definition)
	}
	if len(out[0].Provenance.ConsumedInputs) != 3 {
		t.Fatalf("expected 3 consumed inputs, got %+v", out[0].Provenance.ConsumedInputs)
	}
	for i, in := range out[0].Provenance.ConsumedInputs {
		if in.Instance != inputs[i] || in.Quantity != 1 {
			t.Fatalf("consumed input %d = %+v", i, in)
		}
	}
}

func TestSimpleRecipeFailures(t *testing.T) {
	r := newTestRegistry(t)
	copper := spawn(t, r, "copper_ore")
	copper2 := spawn(t, r, "copper_ore")
	tin := spawn(t, r, "tin_ore")
	blade := forge(t, r, "craft_blade", "iron_bar")

	tests := []struct {
		name   string
		inputs []InstanceID
		want   error
	}{
		{name: "short on copper", inputs: []InstanceID{copper, tin}, want: ErrQuantityInsufficient},
		{name: "component input", inputs: []InstanceID{copper, copper2, tin, blade}, want: ErrWrongInstanceKind},
		{name: "same id twice", inputs: []InstanceID{copper, copper, tin}, want: ErrDuplicateInput},
		{name: "unknown id", inputs: []InstanceID{copper, copper2, 404}, want: ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before := snapshotStore(r)
			if _, err := r.ExecuteSimple("smelt_bronze_bar", tc.inputs, nil, nil); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			assertUnchanged(t, r, before)
		})
	}
}

func TestSimpleRecipeYieldsOutputQuantity(t *testing.T) {
	c := testCatalog()
	c.RegisterRecipe(SimpleRecipe{ID: "split_log", Inputs: []ItemQuantity{{Item: "oak_log", Quantity: 1}}, Output: "flax_twine", OutputQuantity: 3})
	r := NewRegistry(c)
	log := spawn(t, r, "oak_log")

	out, err := r.ExecuteSimple("split_log", []InstanceID{log}, nil, nil)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 outputs, got %d", len(out))
	}
	seen := map[InstanceID]bool{}
	for _, inst := range out {
		if seen[inst.ID] {
			t.Fatalf("duplicate output id %d", inst.ID)
		}
		seen[inst.ID] = true
		if inst.Provenance.Recipe != "split_log" || len(inst.Provenance.ConsumedInputs) != 1 {
			t.Fatalf("unexpected provenance %+v", inst.Provenance)
		}
	}
}

func TestWorldObjectRequirement(t *testing.T) {
	r := newTestRegistry(t)
	bar := spawn(t, r, "iron_bar")

	_, err := r.ExecuteComponent("forge_blade", bar, nil, nil)
	if !errors.Is(err, ErrRequirementUnmet) {
		t.Fatalf("expected requirement unmet, got %v", err)
	}
	if !strings.Contains(err.Error(), "recipe requires a world object but none was provided") {
		t.Fatalf("unexpected message: %q", err)
	}

	campfire := WorldObject{ID: r.NextWorldObjectID(), Kind: Station("campfire"), Tags: NewSet[Tag]("high_heat")}
	coldForge := WorldObject{ID: r.NextWorldObjectID(), Kind: Station("forge")}
	forgeStation := WorldObject{ID: r.NextWorldObjectID(), Kind: Station("forge"), Tags: NewSet[Tag]("high_heat", "anvil")}
	for _, obj := range []WorldObject{campfire, coldForge, forgeStation} {
		if err := r.RegisterWorldObject(obj); err != nil {
			t.Fatalf("register world object: %v", err)
		}
	}
	for _, id := range []WorldObjectID{campfire.ID, coldForge.ID} {
		if _, err := r.ExecuteComponent("forge_blade", bar, nil, &id); !errors.Is(err, ErrRequirementUnmet) {
			t.Fatalf("world object %d: expected requirement unmet, got %v", id, err)
		}
	}
	out, err := r.ExecuteComponent("forge_blade", bar, nil, &forgeStation.ID)
	if err != nil {
		t.Fatalf("execute at forge: %v", err)
	}
	if out.Provenance.WorldObjectUsed == nil || *out.Provenance.WorldObjectUsed != forgeStation.ID {
		t.Fatalf("expected world object recorded, got %v", out.Provenance.WorldObjectUsed)
	}
}

func TestToolRequirementAcceptsMakeshiftBlade(t *testing.T) {
	r := newTestRegistry(t)
	log := spawn(t, r, "oak_log")

	if _, err := r.ExecuteComponent("whittle_handle", log, nil, nil); !errors.Is(err, ErrRequirementUnmet) {
		t.Fatalf("expected requirement unmet without tool, got %v", err)
	}
	ore := spawn(t, r, "copper_ore")
	if _, err := r.ExecuteComponent("whittle_handle", log, &ore, nil); !errors.Is(err, ErrRequirementUnmet) {
		t.Fatalf("expected simple tool to be rejected, got %v", err)
	}
	blade := forge(t, r, "craft_blade", "iron_bar")
	out, err := r.ExecuteComponent("whittle_handle", log, &blade, nil)
	if err != nil {
		t.Fatalf("execute with makeshift knife: %v", err)
	}
	if out.Provenance.ToolUsed == nil || *out.Provenance.ToolUsed != blade {
		t.Fatalf("expected tool recorded, got %v", out.Provenance.ToolUsed)
	}
	if _, err := r.ExecuteComponent("whittle_handle", log, &log, nil); !errors.Is(err, ErrDuplicateInput) {
		t.Fatalf("expected duplicate input when tool is the input, got %v", err)
	}
}

func TestExecutionIsDeterministic(t *testing.T) {
	r := newTestRegistry(t)
	parts := knifeParts(t, r)

	a, err := r.ExecuteComposite("assemble_knife", parts, nil, nil)
	if err != nil {
		t.Fatalf("first execute: %v", err)
	}
	b, err := r.ExecuteComposite("assemble_knife", parts, nil, nil)
	if err != nil {
		t.Fatalf("second execute: %v", err)
	}
	if a.ID == b.ID {
		t.Fatalf("expected fresh ids, both %d", a.ID)
	}
	if a.Definition != b.Definition || a.Quality != b.Quality || a.Provenance.Recipe != b.Provenance.Recipe {
		t.Fatalf("outputs differ: %+v vs %+v", a, b)
	}
	if strings.Join(a.SlotNames(), ",") != strings.Join(b.SlotNames(), ",") {
		t.Fatalf("slot sets differ")
	}
	for i := range a.Provenance.ConsumedInputs {
		if a.Provenance.ConsumedInputs[i] != b.Provenance.ConsumedInputs[i] {
			t.Fatalf("consumed inputs differ at %d", i)
		}
	}
}

func TestUnknownRecipeSuggestsNearMatch(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.ExecuteSimple("smelt_bronze_bars", nil, nil, nil)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.Kind != EntityRecipe || len(nf.Suggestions) == 0 || nf.Suggestions[0] != "smelt_bronze_bar" {
		t.Fatalf("unexpected not found error: %+v", nf)
	}
}
