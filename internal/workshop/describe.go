package workshop

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/appengine-ltd/craftworks/internal/crafting"
	"github.com/appengine-ltd/craftworks/internal/render"
)

func (w *Workshop) recipes(filter string) Result {
	filter = strings.ToLower(filter)
	var lines []string
	for _, r := range w.registry.Recipes() {
		line := RecipeSummary(r)
		if filter != "" && !strings.Contains(line, filter) {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return Result{Handled: true, Message: "No recipes match."}
	}
	return Result{Handled: true, Message: "Recipes:\n  " + strings.Join(lines, "\n  ")}
}

func (w *Workshop) items(filter string) Result {
	filter = strings.ToLower(filter)
	var lines []string
	for _, def := range w.registry.Items() {
		line := ItemSummary(def)
		if filter != "" && !strings.Contains(line, filter) {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return Result{Handled: true, Message: "No items match."}
	}
	return Result{Handled: true, Message: "Items:\n  " + strings.Join(lines, "\n  ")}
}

// RecipeSummary is a single line: id, kind, output and requirements.
func RecipeSummary(r crafting.Recipe) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)", r.RecipeID(), r.RecipeKind())
	switch v := r.(type) {
	case crafting.SimpleRecipe:
		inputs := make([]string, 0, len(v.Inputs))
		for _, in := range v.Inputs {
			inputs = append(inputs, fmt.Sprintf("%dx %s", in.Quantity, in.Item))
		}
		fmt.Fprintf(&b, ": %s -> %dx %s", strings.Join(inputs, " + "), v.Yield(), v.Output)
	case crafting.ComponentRecipe:
		fmt.Fprintf(&b, ": material -> %s", v.Output)
	case crafting.CompositeRecipe:
		fmt.Fprintf(&b, ": components -> %s, quality %s", v.Output, v.Formula.Kind)
	}
	b.WriteString(RequirementSummary(r.Requires()))
	return b.String()
}

func RequirementSummary(reqs crafting.Requirements) string {
	var b strings.Builder
	if reqs.Tool != nil {
		fmt.Fprintf(&b, " [tool %s >= %s]", reqs.Tool.ToolType, reqs.Tool.MinQuality)
	}
	if wo := reqs.WorldObject; wo != nil {
		parts := make([]string, 0, 2)
		if wo.Kind != nil {
			parts = append(parts, wo.Kind.String())
		}
		for _, tag := range wo.RequiredTags.Sorted() {
			parts = append(parts, "+"+string(tag))
		}
		fmt.Fprintf(&b, " [at %s]", strings.Join(parts, " "))
	}
	return b.String()
}

func ItemSummary(def crafting.ItemDefinition) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)", def.ID, def.KindName())
	switch k := def.Kind.(type) {
	case crafting.SimpleItem:
		if k.Submaterial != nil {
			fmt.Fprintf(&b, " of %s", *k.Submaterial)
		}
		if k.Placeable != nil {
			fmt.Fprintf(&b, ", places %s", k.Placeable.Kind)
		}
	case crafting.ComponentItem:
		fmt.Fprintf(&b, " %s", k.ComponentKind)
	case crafting.CompositeItem:
		slots := make([]string, 0, len(k.Slots))
		for _, s := range k.Slots {
			slots = append(slots, s.Name+":"+string(s.ComponentKind))
		}
		fmt.Fprintf(&b, " slots %s", strings.Join(slots, ", "))
		if k.ToolType != nil {
			fmt.Fprintf(&b, ", %s tool", *k.ToolType)
		}
	}
	return b.String()
}

// inspect describes an instance by id, or a recipe or item by catalog id.
func (w *Workshop) inspect(ref string) Result {
	if ref == "" {
		return usageResult("inspect")
	}
	if id, err := parseInstanceRef(ref); err == nil {
		return w.inspectInstance(id)
	}
	r, recipeErr := w.registry.Recipe(crafting.RecipeID(ref))
	if recipeErr == nil {
		return Result{Handled: true, Message: RecipeSummary(r)}
	}
	def, itemErr := w.registry.Item(crafting.ItemID(ref))
	if itemErr == nil {
		return Result{Handled: true, Message: ItemSummary(def)}
	}
	if suggestions := suggestionsOf(recipeErr, itemErr); len(suggestions) > 0 {
		return Result{Handled: true, Message: fmt.Sprintf("Nothing called %s (did you mean %s?)", ref, strings.Join(suggestions, ", "))}
	}
	return Result{Handled: true, Message: fmt.Sprintf("Nothing called %s.", ref)}
}

func suggestionsOf(errs ...error) []string {
	var out []string
	for _, err := range errs {
		var nf *crafting.NotFoundError
		if errors.As(err, &nf) {
			for _, s := range nf.Suggestions {
				if !slices.Contains(out, s) {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

func (w *Workshop) inspectInstance(id crafting.InstanceID) Result {
	inst, err := w.registry.LedgerEntry(id)
	if err != nil {
		return Result{Handled: true, Message: fmt.Sprintf("Inspect failed: %v", err)}
	}
	w.lastRef = id.String()
	var b strings.Builder
	b.WriteString(render.Label(inst))
	if !w.registry.IsLive(id) {
		b.WriteString(" (no longer in inventory)")
	}
	origin := inst.Origin()
	fmt.Fprintf(&b, "\n  recipe: %s", origin.Recipe)
	if len(origin.ConsumedInputs) > 0 {
		ids := make([]crafting.InstanceID, 0, len(origin.ConsumedInputs))
		for _, in := range origin.ConsumedInputs {
			ids = append(ids, in.Instance)
		}
		fmt.Fprintf(&b, "\n  consumed: %s", refList(ids))
	}
	if origin.ToolUsed != nil {
		fmt.Fprintf(&b, "\n  tool: #%s", origin.ToolUsed)
	}
	if origin.WorldObjectUsed != nil {
		fmt.Fprintf(&b, "\n  station: %s", origin.WorldObjectUsed)
	}
	if age := render.Age(origin.CraftedAt, w.now()); age != "" {
		fmt.Fprintf(&b, "\n  made: %s", age)
	}
	if c, ok := inst.(crafting.CompositeInstance); ok {
		for _, slot := range c.SlotNames() {
			fmt.Fprintf(&b, "\n  %s: %s", slot, render.Label(c.Components[slot]))
		}
	}
	return Result{Handled: true, Message: b.String()}
}
