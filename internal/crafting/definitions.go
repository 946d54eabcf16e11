package crafting

import "fmt"

type Material struct {
	ID          MaterialID
	Name        string
	Description string
}

type Submaterial struct {
	ID          SubmaterialID
	Material    MaterialID
	Name        string
	Description string
	// Grade is carried onto components forged from this submaterial. A nil
	// grade leaves those components out of composite quality formulas.
	Grade *Quality
}

type ComponentKind struct {
	ID                ComponentKindID
	Name              string
	Description       string
	AcceptedMaterials Set[MaterialID]
	// MakeshiftTags lists the tool types a bare component of this kind can
	// stand in for.
	MakeshiftTags Set[ToolType]
}

type ItemDefinition struct {
	ID          ItemID
	Name        string
	Description string
	Kind        ItemKind
}

// ItemKind is one of SimpleItem, ComponentItem or CompositeItem.
type ItemKind interface {
	itemKind() string
}

type SimpleItem struct {
	// Submaterial is nil for non-material items such as food or creatures.
	Submaterial *SubmaterialID
	// Placeable is set for items that can be set down as a world object.
	Placeable *WorldObjectTemplate
}

type ComponentItem struct {
	ComponentKind ComponentKindID
}

type CompositeItem struct {
	Slots    []Slot
	Category string
	ToolType *ToolType
}

type Slot struct {
	Name          string
	ComponentKind ComponentKindID
}

func (SimpleItem) itemKind() string    { return "simple" }
func (ComponentItem) itemKind() string { return "component" }
func (CompositeItem) itemKind() string { return "composite" }

// KindName reports "simple", "component" or "composite".
func (d ItemDefinition) KindName() string {
	if d.Kind == nil {
		return "unknown"
	}
	return d.Kind.itemKind()
}

func (c CompositeItem) Slot(name string) (Slot, bool) {
	for _, s := range c.Slots {
		if s.Name == name {
			return s, true
		}
	}
	return Slot{}, false
}

type WorldObjectType string

const (
	CraftingStation WorldObjectType = "crafting_station"
	ResourceNode    WorldObjectType = "resource_node"
)

type WorldObjectKind struct {
	Type WorldObjectType
	ID   string
}

func Station(id string) WorldObjectKind {
	return WorldObjectKind{Type: CraftingStation, ID: id}
}

func Node(id string) WorldObjectKind {
	return WorldObjectKind{Type: ResourceNode, ID: id}
}

func (k WorldObjectKind) String() string {
	return fmt.Sprintf("%s(%s)", k.Type, k.ID)
}

type WorldObjectTemplate struct {
	Kind WorldObjectKind
	Tags Set[Tag]
}

type WorldObject struct {
	ID   WorldObjectID
	Kind WorldObjectKind
	Tags Set[Tag]
}

func (w WorldObject) clone() WorldObject {
	w.Tags = w.Tags.Clone()
	return w
}
