package crafting

import (
	"errors"
	"testing"
)

func TestValidateWorldObject(t *testing.T) {
	forgeKind := Station("forge")
	obj := WorldObject{ID: 1, Kind: forgeKind, Tags: NewSet[Tag]("high_heat", "anvil")}
	tests := []struct {
		name string
		req  WorldObjectRequirement
		ok   bool
	}{
		{name: "kind and tags", req: WorldObjectRequirement{Kind: &forgeKind, RequiredTags: NewSet[Tag]("anvil", "high_heat")}, ok: true},
		{name: "tags only", req: WorldObjectRequirement{RequiredTags: NewSet[Tag]("anvil")}, ok: true},
		{name: "nothing", req: WorldObjectRequirement{}, ok: true},
		{name: "node with same id", req: WorldObjectRequirement{Kind: kindPtr(Node("forge"))}},
		{name: "other station", req: WorldObjectRequirement{Kind: kindPtr(Station("kiln"))}},
		{name: "missing tag", req: WorldObjectRequirement{RequiredTags: NewSet[Tag]("high_heat", "quench_tank")}},
	}
	for _, tc := range tests {
		err := ValidateWorldObject(obj, tc.req)
		if tc.ok && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && !errors.Is(err, ErrRequirementUnmet) {
			t.Fatalf("%s: expected requirement unmet, got %v", tc.name, err)
		}
	}
}

func TestValidateToolQuality(t *testing.T) {
	c := testCatalog()
	knife := CompositeInstance{ID: 7, Definition: "knife", Quality: QualityUncommon}
	blade := ComponentInstance{ID: 8, ComponentKind: "blade", Submaterial: "iron_metal"}
	handle := ComponentInstance{ID: 9, ComponentKind: "handle", Submaterial: "oak_wood"}

	tests := []struct {
		name string
		inst Instance
		req  ToolRequirement
		ok   bool
	}{
		{name: "composite at quality", inst: knife, req: ToolRequirement{ToolType: "knife", MinQuality: QualityUncommon}, ok: true},
		{name: "composite below quality", inst: knife, req: ToolRequirement{ToolType: "knife", MinQuality: QualityRare}},
		{name: "composite wrong type", inst: knife, req: ToolRequirement{ToolType: "hammer"}},
		{name: "makeshift blade", inst: blade, req: ToolRequirement{ToolType: "knife"}, ok: true},
		{name: "makeshift blade too crude", inst: blade, req: ToolRequirement{ToolType: "knife", MinQuality: QualityCrude}},
		{name: "handle has no tags", inst: handle, req: ToolRequirement{ToolType: "knife"}},
		{name: "simple item", inst: SimpleInstance{ID: 10, Definition: "iron_bar"}, req: ToolRequirement{ToolType: "knife"}},
	}
	for _, tc := range tests {
		err := ValidateTool(c, tc.inst, tc.req)
		if tc.ok && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && !errors.Is(err, ErrRequirementUnmet) {
			t.Fatalf("%s: expected requirement unmet, got %v", tc.name, err)
		}
	}
}
