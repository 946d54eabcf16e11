package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/appengine-ltd/craftworks/internal/content"
	"github.com/appengine-ltd/craftworks/internal/crafting"
	"github.com/appengine-ltd/craftworks/internal/workshop"
)

type docFile struct {
	Name    string
	Title   string
	Content string
}

func main() {
	var (
		root        string
		contentList []string
		skipBuiltin bool
	)
	pflag.StringVar(&root, "out", filepath.Join("docs", "reference", "catalogs"), "output directory")
	pflag.StringSliceVar(&contentList, "content", nil, "extra content files to document")
	pflag.BoolVar(&skipBuiltin, "skip-builtin", false, "leave the builtin content out")
	pflag.Parse()

	catalog, sources, err := content.BuildCatalog(skipBuiltin, contentList, zerolog.Nop())
	if err != nil {
		fatal(err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		fatal(err)
	}

	files := generateDocs(catalog)
	for _, f := range files {
		path := filepath.Join(root, f.Name)
		if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
			fatal(err)
		}
		fmt.Printf("wrote %s\n", path)
	}

	index := generateCatalogIndex(files, sources)
	indexPath := filepath.Join(root, "README.md")
	if err := os.WriteFile(indexPath, []byte(index), 0o644); err != nil {
		fatal(err)
	}
	fmt.Printf("wrote %s\n", indexPath)
}

func generateDocs(catalog *crafting.Catalog) []docFile {
	return []docFile{
		generateMaterialsDoc(catalog),
		generateComponentKindsDoc(catalog),
		generateItemsDoc(catalog),
		generateRecipesDoc(catalog),
	}
}

func generateCatalogIndex(files []docFile, sources []content.Source) string {
	var b strings.Builder
	b.WriteString("# Content Catalogs\n\n")
	b.WriteString("Generated with `go run ./cmd/docsgen`.\n\n")
	for _, f := range files {
		b.WriteString(fmt.Sprintf("- [%s](./%s)\n", f.Title, f.Name))
	}
	if len(sources) > 0 {
		b.WriteString("\n| Source | Format | BLAKE3 |\n")
		b.WriteString("| --- | --- | --- |\n")
		for _, src := range sources {
			b.WriteString(fmt.Sprintf("| %s | %s | `%s` |\n", escape(src.Name), src.Format, src.Digest))
		}
	}
	return b.String()
}

func generateMaterialsDoc(catalog *crafting.Catalog) docFile {
	subs := catalog.Submaterials()

	var b strings.Builder
	b.WriteString("# Materials\n\n")
	b.WriteString(fmt.Sprintf("Total materials: **%d**. Total submaterials: **%d**.\n\n", len(catalog.Materials()), len(subs)))
	b.WriteString("| Submaterial | Name | Material | Grade |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, s := range subs {
		grade := "ungraded"
		if s.Grade != nil {
			grade = s.Grade.String()
		}
		b.WriteString("| ")
		b.WriteString(escape(string(s.ID)))
		b.WriteString(" | ")
		b.WriteString(escape(s.Name))
		b.WriteString(" | ")
		b.WriteString(escape(string(s.Material)))
		b.WriteString(" | ")
		b.WriteString(grade)
		b.WriteString(" |\n")
	}
	return docFile{Name: "materials.md", Title: "Materials", Content: b.String()}
}

func generateComponentKindsDoc(catalog *crafting.Catalog) docFile {
	kinds := catalog.ComponentKinds()

	var b strings.Builder
	b.WriteString("# Component Kinds\n\n")
	b.WriteString(fmt.Sprintf("Total component kinds: **%d**.\n\n", len(kinds)))
	b.WriteString("| ID | Name | Accepted Materials | Makeshift Tools |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, k := range kinds {
		b.WriteString("| ")
		b.WriteString(escape(string(k.ID)))
		b.WriteString(" | ")
		b.WriteString(escape(k.Name))
		b.WriteString(" | ")
		b.WriteString(escape(joinSet(k.AcceptedMaterials)))
		b.WriteString(" | ")
		b.WriteString(escape(joinSet(k.MakeshiftTags)))
		b.WriteString(" |\n")
	}
	return docFile{Name: "component_kinds.md", Title: "Component Kinds", Content: b.String()}
}

func generateItemsDoc(catalog *crafting.Catalog) docFile {
	items := catalog.Items()

	var b strings.Builder
	b.WriteString("# Items\n\n")
	b.WriteString(fmt.Sprintf("Total items: **%d**.\n\n", len(items)))
	b.WriteString("| ID | Name | Summary |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, def := range items {
		b.WriteString("| ")
		b.WriteString(escape(string(def.ID)))
		b.WriteString(" | ")
		b.WriteString(escape(def.Name))
		b.WriteString(" | ")
		b.WriteString(escape(workshop.ItemSummary(def)))
		b.WriteString(" |\n")
	}
	return docFile{Name: "items.md", Title: "Items", Content: b.String()}
}

func generateRecipesDoc(catalog *crafting.Catalog) docFile {
	recipes := catalog.Recipes()

	var b strings.Builder
	b.WriteString("# Recipes\n\n")
	b.WriteString(fmt.Sprintf("Total recipes: **%d**.\n\n", len(recipes)))
	b.WriteString("| ID | Kind | Summary |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, r := range recipes {
		b.WriteString("| ")
		b.WriteString(escape(string(r.RecipeID())))
		b.WriteString(" | ")
		b.WriteString(string(r.RecipeKind()))
		b.WriteString(" | ")
		b.WriteString(escape(workshop.RecipeSummary(r)))
		b.WriteString(" |\n")
	}
	return docFile{Name: "recipes.md", Title: "Recipes", Content: b.String()}
}

func joinSet[T ~string](set crafting.Set[T]) string {
	values := set.Sorted()
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, string(v))
	}
	return strings.Join(parts, ", ")
}

func escape(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	v = strings.ReplaceAll(v, "|", "\\|")
	v = strings.ReplaceAll(v, "\n", "<br>")
	return v
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
