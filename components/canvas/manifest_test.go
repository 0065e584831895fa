package canvas

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `version: "1"
name: sales-pack
tools:
  - code: region_picker
    label: Region Picker
    data_kind: categorical
    default_w: 4
    default_h: 6
  - code: revenue_band
    label: Revenue Band
    data_kind: numerical
`

func TestDecodeToolboxManifest(t *testing.T) {
	doc, err := DecodeToolboxManifest(strings.NewReader(sampleManifest))
	require.NoError(t, err)
	assert.Equal(t, ManifestVersion, doc.Version)
	assert.Equal(t, "sales-pack", doc.Name)
	require.Len(t, doc.Tools, 2)
	assert.Equal(t, "region_picker", doc.Tools[0].Code)
	assert.Equal(t, DataCategorical, doc.Tools[0].DataKind)
}

func TestDecodeToolboxManifestDefaultsVersion(t *testing.T) {
	doc, err := DecodeToolboxManifest(strings.NewReader("tools:\n  - code: x\n    label: X\n"))
	require.NoError(t, err)
	assert.Equal(t, ManifestVersion, doc.Version)
}

func TestDecodeToolboxManifestRejectsUnknownVersion(t *testing.T) {
	_, err := DecodeToolboxManifest(strings.NewReader(`version: "9"`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported manifest version")
}

func TestDecodeToolboxManifestRequiresToolCode(t *testing.T) {
	_, err := DecodeToolboxManifest(strings.NewReader("tools:\n  - label: Nameless\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing a code")
}

func TestLoadManifestFileRegistersTools(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toolbox.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleManifest), 0o600))

	tb := NewToolbox()
	doc, err := tb.LoadManifestFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Source)

	tool, ok := tb.Tool("region_picker")
	require.True(t, ok)
	assert.Equal(t, "Region Picker", tool.Label)
	assert.Equal(t, 4, tool.DefaultW)

	band, ok := tb.Tool("revenue_band")
	require.True(t, ok)
	assert.Equal(t, 3, band.DefaultW, "register fills footprint defaults")
}

func TestReadToolboxManifestJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toolbox.json")
	payload := `{"version":"1","tools":[{"code":"region_picker","label":"Region Picker"}]}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))

	doc, err := ReadToolboxManifest(path)
	require.NoError(t, err)
	require.Len(t, doc.Tools, 1)
	assert.Equal(t, "region_picker", doc.Tools[0].Code)
}

func TestWriteToolboxManifestRoundTrip(t *testing.T) {
	doc := &ToolboxManifestDocument{
		Name:  "custom",
		Tools: []Tool{{Code: "region_picker", Label: "Region Picker", DefaultW: 4, DefaultH: 6}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteToolboxManifest(&buf, doc))

	decoded, err := DecodeToolboxManifest(&buf)
	require.NoError(t, err)
	assert.Equal(t, ManifestVersion, decoded.Version)
	assert.Equal(t, doc.Tools, decoded.Tools)
}
