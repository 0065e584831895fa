package canvas

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current toolbox manifest format for tooling.
	ManifestVersion = manifestVersionV1
)

// ToolboxManifestDocument models a YAML/JSON manifest declaring toolbox tools
// so deployments can extend the canvas without recompiling.
type ToolboxManifestDocument struct {
	Version string `json:"version" yaml:"version"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Tools   []Tool `json:"tools" yaml:"tools"`
	Source  string `json:"-" yaml:"-"`
}

// LoadManifestFile reads a manifest from disk and registers its tools.
func (tb *Toolbox) LoadManifestFile(path string) (*ToolboxManifestDocument, error) {
	doc, err := ReadToolboxManifest(path)
	if err != nil {
		return nil, err
	}
	if err := tb.LoadManifestDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadManifestDocument registers tools from a decoded manifest.
func (tb *Toolbox) LoadManifestDocument(doc *ToolboxManifestDocument) error {
	if doc == nil {
		return fmt.Errorf("canvas: manifest document is nil")
	}
	for _, tool := range doc.Tools {
		if err := tb.Register(tool); err != nil {
			return fmt.Errorf("canvas: register tool %s from %s: %w", tool.Code, doc.Source, err)
		}
	}
	return nil
}

// ReadToolboxManifest loads a manifest file without registering it.
func ReadToolboxManifest(path string) (*ToolboxManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("canvas: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := decodeToolboxManifest(f, strings.EqualFold(filepath.Ext(path), ".json"))
	if err != nil {
		return nil, fmt.Errorf("canvas: parse manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeToolboxManifest parses a YAML manifest from a reader.
func DecodeToolboxManifest(r io.Reader) (*ToolboxManifestDocument, error) {
	return decodeToolboxManifest(r, false)
}

func decodeToolboxManifest(r io.Reader, asJSON bool) (*ToolboxManifestDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var doc ToolboxManifestDocument
	if asJSON {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	} else {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	}
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
	if doc.Version != manifestVersionV1 {
		return nil, fmt.Errorf("unsupported manifest version %q", doc.Version)
	}
	for _, tool := range doc.Tools {
		if tool.Code == "" {
			return nil, fmt.Errorf("manifest tool is missing a code")
		}
	}
	return &doc, nil
}

// WriteToolboxManifest serializes a manifest document to YAML.
func WriteToolboxManifest(w io.Writer, doc *ToolboxManifestDocument) error {
	if doc == nil {
		return fmt.Errorf("canvas: manifest document is nil")
	}
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(doc)
}
