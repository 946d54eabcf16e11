package content

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/appengine-ltd/craftworks/internal/crafting"
)

// BuildCatalog applies the builtin content, unless skipBuiltin is set, and
// then each file in paths in order. A later entry with the same id replaces
// an earlier one.
func BuildCatalog(skipBuiltin bool, paths []string, logger zerolog.Logger) (*crafting.Catalog, []Source, error) {
	catalog := crafting.NewCatalog()
	var sources []Source
	apply := func(doc Document, src Source) error {
		if err := Apply(doc, catalog); err != nil {
			return fmt.Errorf("%s: %w", src.Name, err)
		}
		logger.Info().
			Str("source", src.Name).
			Str("digest", src.Digest).
			Int("items", len(doc.Items)).
			Int("recipes", len(doc.Recipes)).
			Msg("content applied")
		sources = append(sources, src)
		return nil
	}

	if !skipBuiltin {
		doc, src, err := Builtin()
		if err != nil {
			return nil, nil, err
		}
		if err := apply(doc, src); err != nil {
			return nil, nil, err
		}
	}
	for _, path := range paths {
		doc, src, err := LoadFile(path)
		if err != nil {
			return nil, nil, err
		}
		if err := apply(doc, src); err != nil {
			return nil, nil, err
		}
	}
	return catalog, sources, nil
}
