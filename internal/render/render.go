// Package render formats engine state for a terminal.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/dustin/go-humanize"

	"github.com/appengine-ltd/craftworks/internal/crafting"
)

var (
	idStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	recipeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	missingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Italic(true)
	headerStyle  = lipgloss.NewStyle().Bold(true)

	qualityColors = map[crafting.Quality]lipgloss.Color{
		crafting.QualityMakeshift: lipgloss.Color("240"),
		crafting.QualityCrude:     lipgloss.Color("180"),
		crafting.QualityCommon:    lipgloss.Color("252"),
		crafting.QualityUncommon:  lipgloss.Color("114"),
		crafting.QualityRare:      lipgloss.Color("75"),
		crafting.QualityEpic:      lipgloss.Color("177"),
		crafting.QualityLegendary: lipgloss.Color("214"),
	}
)

func Quality(q crafting.Quality) string {
	return lipgloss.NewStyle().Foreground(qualityColors[q]).Render(q.String())
}

// Label is the one line description of an instance used across listings.
func Label(inst crafting.Instance) string {
	return idStyle.Render("#"+inst.InstanceID().String()) + " " + describe(inst)
}

func describe(inst crafting.Instance) string {
	switch v := inst.(type) {
	case crafting.SimpleInstance:
		return string(v.Definition)
	case crafting.ComponentInstance:
		grade := "ungraded"
		if v.Grade != nil {
			grade = Quality(*v.Grade)
		}
		return fmt.Sprintf("%s [%s, %s]", v.ComponentKind, v.Submaterial, grade)
	case crafting.CompositeInstance:
		return fmt.Sprintf("%s (%s)", v.Definition, Quality(v.Quality))
	default:
		return string(inst.InstanceKind())
	}
}

// Trace draws the crafting tree rooted at root. Ages are relative to now.
func Trace(root crafting.TraceNode, now time.Time) string {
	return traceTree(root, now).Enumerator(tree.RoundedEnumerator).String()
}

func traceTree(node crafting.TraceNode, now time.Time) *tree.Tree {
	t := tree.Root(traceLine(node, now))
	for _, child := range node.Children {
		if len(child.Children) == 0 {
			t.Child(traceLine(child, now))
			continue
		}
		t.Child(traceTree(child, now))
	}
	return t
}

func traceLine(node crafting.TraceNode, now time.Time) string {
	if node.Missing {
		return fmt.Sprintf("%s %s", idStyle.Render("#"+node.ID.String()), missingStyle.Render("unrecorded"))
	}
	var b strings.Builder
	b.WriteString(Label(node.Instance))
	if node.Quantity > 1 {
		fmt.Fprintf(&b, " x%d", node.Quantity)
	}
	origin := node.Instance.Origin()
	fmt.Fprintf(&b, " via %s", recipeStyle.Render(string(origin.Recipe)))
	if origin.ToolUsed != nil {
		fmt.Fprintf(&b, " with #%s", origin.ToolUsed.String())
	}
	if origin.WorldObjectUsed != nil {
		fmt.Fprintf(&b, " at station #%s", origin.WorldObjectUsed.String())
	}
	if !origin.CraftedAt.IsZero() {
		fmt.Fprintf(&b, ", %s", Age(origin.CraftedAt, now))
	}
	return b.String()
}

// Age reports t relative to now, such as "3 minutes ago".
func Age(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	if now.Sub(t).Abs() < time.Second {
		return "just now"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// Inventory lays live instances out as a table.
func Inventory(instances []crafting.Instance, now time.Time) string {
	if len(instances) == 0 {
		return "Inventory is empty."
	}
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle()
		}).
		Headers("ID", "KIND", "ITEM", "MADE")
	for _, inst := range instances {
		tbl.Row(inst.InstanceID().String(), string(inst.InstanceKind()), describe(inst), Age(inst.Origin().CraftedAt, now))
	}
	return tbl.String()
}

// Stations lists placed world objects.
func Stations(objects []crafting.WorldObject) string {
	if len(objects) == 0 {
		return "Nothing has been placed."
	}
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "KIND", "TAGS")
	for _, obj := range objects {
		tags := make([]string, 0, len(obj.Tags))
		for _, tag := range obj.Tags.Sorted() {
			tags = append(tags, string(tag))
		}
		tbl.Row(obj.ID.String(), obj.Kind.String(), strings.Join(tags, ", "))
	}
	return tbl.String()
}
