package content

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Source describes where a document came from.
type Source struct {
	Name   string
	Format Format
	// Digest is the hex BLAKE3-256 of the raw bytes.
	Digest string
}

// FormatFromPath picks a format from the file extension. JSON files may
// carry comments and trailing commas.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json", ".jsonc":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("content %s: unsupported extension %q", path, filepath.Ext(path))
	}
}

// Parse decodes data as format. Unknown fields are rejected.
func Parse(data []byte, format Format) (Document, error) {
	var doc Document
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return Document{}, fmt.Errorf("parsing yaml content: %w", err)
		}
	case FormatJSON:
		stripped := jsonc.ToJSON(data)
		if len(bytes.TrimSpace(stripped)) == 0 {
			return doc, nil
		}
		dec := json.NewDecoder(bytes.NewReader(stripped))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("parsing json content: %w", err)
		}
	default:
		return Document{}, fmt.Errorf("unknown content format %q", format)
	}
	return doc, nil
}

func LoadFile(path string) (Document, Source, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Document{}, Source{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, Source{}, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := Parse(data, format)
	if err != nil {
		return Document{}, Source{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, Source{Name: path, Format: format, Digest: Digest(data)}, nil
}

func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
