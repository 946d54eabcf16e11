package crafting

import (
	"testing"
	"time"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func qualityPtr(q Quality) *Quality { return &q }

func subPtr(id SubmaterialID) *SubmaterialID { return &id }

func toolPtr(t ToolType) *ToolType { return &t }

func kindPtr(k WorldObjectKind) *WorldObjectKind { return &k }

// testCatalog mirrors a small smithing tree: ores smelt into bars, bars and
// wood become knife parts, and parts assemble into a knife.
func testCatalog() *Catalog {
	c := NewCatalog()
	c.RegisterMaterial(Material{ID: "metal", Name: "Metal"})
	c.RegisterMaterial(Material{ID: "wood", Name: "Wood"})
	c.RegisterMaterial(Material{ID: "fiber", Name: "Fiber"})

	c.RegisterSubmaterial(Submaterial{ID: "iron_metal", Material: "metal", Name: "Iron", Grade: qualityPtr(QualityCommon)})
	c.RegisterSubmaterial(Submaterial{ID: "steel_metal", Material: "metal", Name: "Steel", Grade: qualityPtr(QualityRare)})
	c.RegisterSubmaterial(Submaterial{ID: "oak_wood", Material: "wood", Name: "Oak", Grade: qualityPtr(QualityUncommon)})
	c.RegisterSubmaterial(Submaterial{ID: "flax_fiber", Material: "fiber", Name: "Flax"})

	c.RegisterComponentKind(ComponentKind{ID: "blade", Name: "Blade", AcceptedMaterials: NewSet[MaterialID]("metal"), MakeshiftTags: NewSet[ToolType]("knife")})
	c.RegisterComponentKind(ComponentKind{ID: "handle", Name: "Handle", AcceptedMaterials: NewSet[MaterialID]("wood")})
	c.RegisterComponentKind(ComponentKind{ID: "binding", Name: "Binding", AcceptedMaterials: NewSet[MaterialID]("fiber")})

	c.RegisterItem(ItemDefinition{ID: "iron_bar", Name: "Iron Bar", Kind: SimpleItem{Submaterial: subPtr("iron_metal")}})
	c.RegisterItem(ItemDefinition{ID: "steel_bar", Name: "Steel Bar", Kind: SimpleItem{Submaterial: subPtr("steel_metal")}})
	c.RegisterItem(ItemDefinition{ID: "oak_log", Name: "Oak Log", Kind: SimpleItem{Submaterial: subPtr("oak_wood")}})
	c.RegisterItem(ItemDefinition{ID: "flax_twine", Name: "Flax Twine", Kind: SimpleItem{Submaterial: subPtr("flax_fiber")}})
	c.RegisterItem(ItemDefinition{ID: "copper_ore", Name: "Copper Ore", Kind: SimpleItem{}})
	c.RegisterItem(ItemDefinition{ID: "tin_ore", Name: "Tin Ore", Kind: SimpleItem{}})
	c.RegisterItem(ItemDefinition{ID: "bronze_bar", Name: "Bronze Bar", Kind: SimpleItem{}})
	c.RegisterItem(ItemDefinition{ID: "anvil", Name: "Anvil", Kind: SimpleItem{
		Placeable: &WorldObjectTemplate{Kind: Station("forge"), Tags: NewSet[Tag]("high_heat", "anvil")},
	}})
	c.RegisterItem(ItemDefinition{ID: "knife", Name: "Knife", Kind: CompositeItem{
		Slots: []Slot{
			{Name: "blade", ComponentKind: "blade"},
			{Name: "handle", ComponentKind: "handle"},
			{Name: "binding", ComponentKind: "binding"},
		},
		Category: "tool",
		ToolType: toolPtr("knife"),
	}})

	c.RegisterRecipe(SimpleRecipe{
		ID:     "smelt_bronze_bar",
		Inputs: []ItemQuantity{{Item: "copper_ore", Quantity: 2}, {Item: "tin_ore", Quantity: 1}},
		Output: "bronze_bar",
	})
	c.RegisterRecipe(ComponentRecipe{ID: "craft_blade", Output: "blade"})
	c.RegisterRecipe(ComponentRecipe{ID: "carve_handle", Output: "handle"})
	c.RegisterRecipe(ComponentRecipe{ID: "twist_binding", Output: "binding"})
	c.RegisterRecipe(CompositeRecipe{ID: "assemble_knife", Output: "knife"})
	c.RegisterRecipe(ComponentRecipe{
		ID:     "forge_blade",
		Output: "blade",
		Requirements: Requirements{
			WorldObject: &WorldObjectRequirement{Kind: kindPtr(Station("forge")), RequiredTags: NewSet[Tag]("high_heat")},
		},
	})
	c.RegisterRecipe(ComponentRecipe{
		ID:     "whittle_handle",
		Output: "handle",
		Requirements: Requirements{
			Tool: &ToolRequirement{ToolType: "knife", MinQuality: QualityMakeshift},
		},
	})
	return c
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(testCatalog(), WithClock(func() time.Time { return fixedNow }))
}

// spawn instantiates and registers a raw instance of item.
func spawn(t *testing.T, r *Registry, item ItemID) InstanceID {
	t.Helper()
	inst, err := r.Instantiate(item)
	if err != nil {
		t.Fatalf("instantiate %s: %v", item, err)
	}
	if err := r.RegisterInstance(inst); err != nil {
		t.Fatalf("register %s: %v", item, err)
	}
	return inst.ID
}

// forge runs a component recipe on a fresh raw instance and commits it.
func forge(t *testing.T, r *Registry, recipe RecipeID, item ItemID) InstanceID {
	t.Helper()
	input := spawn(t, r, item)
	out, err := r.ExecuteComponent(recipe, input, nil, nil)
	if err != nil {
		t.Fatalf("execute %s: %v", recipe, err)
	}
	if err := r.Commit([]Instance{out}, []InstanceID{input}); err != nil {
		t.Fatalf("commit %s: %v", recipe, err)
	}
	return out.ID
}

func knifeParts(t *testing.T, r *Registry) []SlotInput {
	t.Helper()
	return []SlotInput{
		{Slot: "blade", Instance: forge(t, r, "craft_blade", "iron_bar")},
		{Slot: "handle", Instance: forge(t, r, "carve_handle", "oak_log")},
		{Slot: "binding", Instance: forge(t, r, "twist_binding", "flax_twine")},
	}
}

type storeSnapshot struct {
	live   []InstanceID
	ledger int
	world  int
}

func snapshotStore(r *Registry) storeSnapshot {
	var s storeSnapshot
	for _, inst := range r.Instances() {
		s.live = append(s.live, inst.InstanceID())
	}
	s.ledger = len(r.Ledger())
	s.world = len(r.WorldObjects())
	return s
}

func assertUnchanged(t *testing.T, r *Registry, before storeSnapshot) {
	t.Helper()
	after := snapshotStore(r)
	if len(after.live) != len(before.live) || after.ledger != before.ledger || after.world != before.world {
		t.Fatalf("store changed on failure: before=%+v after=%+v", before, after)
	}
	for i := range before.live {
		if before.live[i] != after.live[i] {
			t.Fatalf("live set changed on failure: before=%v after=%v", before.live, after.live)
		}
	}
}
