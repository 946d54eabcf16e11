package content

import (
	_ "embed"
	"fmt"
)

//go:embed builtin.yaml
var builtinYAML []byte

// Builtin returns the content shipped with the binary.
func Builtin() (Document, Source, error) {
	doc, err := Parse(builtinYAML, FormatYAML)
	if err != nil {
		return Document{}, Source{}, fmt.Errorf("builtin: %w", err)
	}
	return doc, Source{Name: "builtin", Format: FormatYAML, Digest: Digest(builtinYAML)}, nil
}
