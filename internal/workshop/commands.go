package workshop

import (
	"fmt"
	"strings"

	"github.com/appengine-ltd/craftworks/internal/crafting"
	"github.com/appengine-ltd/craftworks/internal/parser"
	"github.com/appengine-ltd/craftworks/internal/render"
)

const maxSpawn = 50

var usage = map[string]string{
	"help":      "help [command]",
	"new":       "new <item> [count]",
	"craft":     "craft <recipe> <id...> [slot=id...] [at <station>] [with <tool>]",
	"place":     "place <id>",
	"trace":     "trace <id>",
	"inventory": "inventory",
	"stations":  "stations",
	"recipes":   "recipes [filter]",
	"items":     "items [filter]",
	"inspect":   "inspect <id|recipe|item>",
	"drop":      "drop <id>",
	"save":      "save <path>",
	"load":      "load <path>",
	"quit":      "quit",
}

func usageResult(verb string) Result {
	return Result{Handled: true, Message: "Usage: " + usage[verb]}
}

func (w *Workshop) help(args []string) Result {
	if verb := firstArg(args); verb != "" {
		if u, ok := usage[strings.ToLower(verb)]; ok {
			return Result{Handled: true, Message: "Usage: " + u}
		}
	}
	var b strings.Builder
	b.WriteString("Commands:")
	for _, def := range w.parser.Commands() {
		fmt.Fprintf(&b, "\n  %-58s", usage[def.Canonical])
		if len(def.Aliases) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(def.Aliases, ", "))
		}
	}
	return Result{Handled: true, Message: b.String()}
}

func (w *Workshop) spawn(intent parser.Intent) (Result, bool) {
	item := firstArg(intent.Args)
	if item == "" {
		return usageResult("new"), false
	}
	count := 1
	if intent.Quantity != nil {
		count = intent.Quantity.N
	}
	if count < 1 || count > maxSpawn {
		return Result{Handled: true, Message: fmt.Sprintf("New failed: count must be between 1 and %d.", maxSpawn)}, false
	}

	created := make([]crafting.Instance, 0, count)
	for range count {
		inst, err := w.registry.Instantiate(crafting.ItemID(item))
		if err != nil {
			return Result{Handled: true, Message: fmt.Sprintf("New failed: %v", err)}, false
		}
		created = append(created, inst)
	}
	if err := w.registry.Commit(created, nil); err != nil {
		return Result{Handled: true, Message: fmt.Sprintf("New failed: %v", err)}, false
	}
	w.lastRef = created[len(created)-1].InstanceID().String()
	return Result{Handled: true, Message: "Added " + labels(created) + "."}, true
}

func (w *Workshop) craft(args []string) (Result, bool) {
	if len(args) == 0 {
		return usageResult("craft"), false
	}
	recipe, err := w.registry.Recipe(crafting.RecipeID(args[0]))
	if err != nil {
		return Result{Handled: true, Message: fmt.Sprintf("Craft failed: %v", err)}, false
	}
	req, err := parseCraftArgs(args[1:])
	if err != nil {
		return Result{Handled: true, Message: fmt.Sprintf("Craft failed: %v. Usage: %s", err, usage["craft"])}, false
	}

	var (
		outputs  []crafting.Instance
		consumed []crafting.InstanceID
	)
	switch r := recipe.(type) {
	case crafting.SimpleRecipe:
		if len(req.slots) > 0 {
			return Result{Handled: true, Message: "Craft failed: slot=id only applies to composite recipes."}, false
		}
		outs, err := w.registry.ExecuteSimple(r.ID, req.inputs, req.tool, req.worldObject)
		if err != nil {
			return w.craftFailed(r.ID, err), false
		}
		for _, out := range outs {
			outputs = append(outputs, out)
		}
		consumed = req.inputs
	case crafting.ComponentRecipe:
		if len(req.slots) > 0 || len(req.inputs) != 1 {
			return Result{Handled: true, Message: fmt.Sprintf("Craft failed: %s takes exactly one input id.", r.ID)}, false
		}
		out, err := w.registry.ExecuteComponent(r.ID, req.inputs[0], req.tool, req.worldObject)
		if err != nil {
			return w.craftFailed(r.ID, err), false
		}
		outputs = []crafting.Instance{out}
		consumed = req.inputs
	case crafting.CompositeRecipe:
		slots, err := w.assignSlots(r, req)
		if err != nil {
			return Result{Handled: true, Message: fmt.Sprintf("Craft failed: %v", err)}, false
		}
		out, err := w.registry.ExecuteComposite(r.ID, slots, req.tool, req.worldObject)
		if err != nil {
			return w.craftFailed(r.ID, err), false
		}
		outputs = []crafting.Instance{out}
		for _, s := range slots {
			consumed = append(consumed, s.Instance)
		}
	default:
		return Result{Handled: true, Message: fmt.Sprintf("Craft failed: unsupported recipe %T", recipe)}, false
	}

	if err := w.registry.Commit(outputs, consumed); err != nil {
		return w.craftFailed(recipe.RecipeID(), err), false
	}
	w.lastRef = outputs[0].InstanceID().String()
	w.logger.Info().Str("recipe", string(recipe.RecipeID())).Int("outputs", len(outputs)).Int("consumed", len(consumed)).Msg("crafted")
	return Result{Handled: true, Message: fmt.Sprintf("Crafted %s from %s.", labels(outputs), refList(consumed))}, true
}

func (w *Workshop) craftFailed(recipe crafting.RecipeID, err error) Result {
	w.logger.Info().Str("recipe", string(recipe)).Err(err).Msg("craft rejected")
	return Result{Handled: true, Message: fmt.Sprintf("Craft failed: %v", err)}
}

// assignSlots pairs positional ids with the composite's unnamed slots in
// declaration order. Named slot=id pairs pass through as given.
func (w *Workshop) assignSlots(recipe crafting.CompositeRecipe, req craftRequest) ([]crafting.SlotInput, error) {
	slots := append([]crafting.SlotInput(nil), req.slots...)
	if len(req.inputs) == 0 {
		return slots, nil
	}
	def, err := w.registry.Item(recipe.Output)
	if err != nil {
		return nil, err
	}
	comp, ok := def.Kind.(crafting.CompositeItem)
	if !ok {
		return nil, fmt.Errorf("%w: %s is a %s item", crafting.ErrNotAComposite, def.ID, def.KindName())
	}
	named := make(map[string]bool, len(slots))
	for _, s := range slots {
		named[s.Slot] = true
	}
	next := 0
	for _, slot := range comp.Slots {
		if named[slot.Name] {
			continue
		}
		if next == len(req.inputs) {
			break
		}
		slots = append(slots, crafting.SlotInput{Slot: slot.Name, Instance: req.inputs[next]})
		next++
	}
	if next < len(req.inputs) {
		return nil, fmt.Errorf("%w: expected %d components but got %d", crafting.ErrSlotCoverage, len(comp.Slots), len(req.slots)+len(req.inputs))
	}
	return slots, nil
}

func (w *Workshop) place(ref string) (Result, bool) {
	if ref == "" {
		return usageResult("place"), false
	}
	id, err := parseInstanceRef(ref)
	if err != nil {
		return Result{Handled: true, Message: fmt.Sprintf("Place failed: %v", err)}, false
	}
	inst, err := w.registry.Instance(id)
	if err != nil {
		return Result{Handled: true, Message: fmt.Sprintf("Place failed: %v", err)}, false
	}
	obj, err := w.registry.Place(id)
	if err != nil {
		return Result{Handled: true, Message: fmt.Sprintf("Place failed: %v", err)}, false
	}
	w.lastRef = ""
	w.logger.Info().Str("instance", id.String()).Str("kind", obj.Kind.String()).Msg("placed")
	return Result{Handled: true, Message: fmt.Sprintf("Placed %s as station %d %s.", render.Label(inst), obj.ID, obj.Kind)}, true
}

func (w *Workshop) drop(ref string) (Result, bool) {
	if ref == "" {
		return usageResult("drop"), false
	}
	id, err := parseInstanceRef(ref)
	if err != nil {
		return Result{Handled: true, Message: fmt.Sprintf("Drop failed: %v", err)}, false
	}
	inst, err := w.registry.RemoveInstance(id)
	if err != nil {
		return Result{Handled: true, Message: fmt.Sprintf("Drop failed: %v", err)}, false
	}
	if w.lastRef == id.String() {
		w.lastRef = ""
	}
	return Result{Handled: true, Message: fmt.Sprintf("Dropped %s.", render.Label(inst))}, true
}

func (w *Workshop) trace(ref string) Result {
	if ref == "" {
		return usageResult("trace")
	}
	id, err := parseInstanceRef(ref)
	if err != nil {
		return Result{Handled: true, Message: fmt.Sprintf("Trace failed: %v", err)}
	}
	node, err := w.registry.Trace(id)
	if err != nil {
		return Result{Handled: true, Message: fmt.Sprintf("Trace failed: %v", err)}
	}
	w.lastRef = id.String()
	return Result{Handled: true, Message: render.Trace(node, w.now())}
}

func (w *Workshop) inventory() Result {
	return Result{Handled: true, Message: render.Inventory(w.registry.Instances(), w.now())}
}

func (w *Workshop) stations() Result {
	return Result{Handled: true, Message: render.Stations(w.registry.WorldObjects())}
}

func (w *Workshop) save(path string) Result {
	if path == "" {
		return usageResult("save")
	}
	if err := w.Save(path); err != nil {
		return Result{Handled: true, Message: fmt.Sprintf("Save failed: %v", err)}
	}
	return Result{Handled: true, Message: fmt.Sprintf("Saved to %s.", path)}
}

func (w *Workshop) load(path string) Result {
	if path == "" {
		return usageResult("load")
	}
	if err := w.Load(path); err != nil {
		return Result{Handled: true, Message: fmt.Sprintf("Load failed: %v", err)}
	}
	return Result{Handled: true, Message: fmt.Sprintf("Loaded %s: %d instances in inventory.", path, len(w.registry.Instances()))}
}

func labels(instances []crafting.Instance) string {
	parts := make([]string, 0, len(instances))
	for _, inst := range instances {
		parts = append(parts, render.Label(inst))
	}
	return strings.Join(parts, ", ")
}

func refList(ids []crafting.InstanceID) string {
	if len(ids) == 0 {
		return "nothing"
	}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, "#"+id.String())
	}
	return strings.Join(parts, ", ")
}
