package camerafy

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Default catalog file names, looked up by LoadCatalogs.
const (
	SensorCatalogFile  = "sensor_catalog"
	ReleaseCatalogFile = "camera_releases"
	ClassicCatalogFile = "classic_cameras"
)

//go:embed catalogs/*.json
var embeddedCatalogs embed.FS

// PatternRule maps a regular expression over "make model lens" to a sensor.
// Rules are evaluated in declaration order; the first match wins.
type PatternRule struct {
	Pattern string
	Sensor  SensorType
}

// SensorModel is a canonical camera label with a known sensor.
type SensorModel struct {
	Label  string
	Sensor SensorType
}

// SensorAlias lists alternate spellings of a canonical sensor-catalog label.
type SensorAlias struct {
	Canonical string
	Aliases   []string
}

// SensorCatalog is the sensor-technology catalog.
type SensorCatalog struct {
	Patterns []PatternRule
	Models   []SensorModel
	Aliases  []SensorAlias
}

// ReleaseModel is a canonical camera label with its release year.
type ReleaseModel struct {
	Label string
	Year  int
}

// Alias maps one alternate spelling to a canonical label.
type Alias struct {
	Alias     string
	Canonical string
}

// ReleaseCatalog is the release-year catalog.
type ReleaseCatalog struct {
	Models  []ReleaseModel
	Aliases []Alias
}

// ClassicCatalog lists cameras exempt from the release-year cutoff.
type ClassicCatalog struct {
	Models  []string
	Aliases []Alias
}

// Catalogs bundles the three catalogs an Index is built from.
type Catalogs struct {
	Sensor  SensorCatalog
	Release ReleaseCatalog
	Classic ClassicCatalog
}

// ParseSensorCatalog decodes a sensor catalog document (JSON or YAML).
//
//	{"patterns": {"<regexp>": "FOVEON"}, "models": {"<label>": "CCD"},
//	 "aliases": {"<canonical>": ["<alias>", ...]}}
//
// Entries with a wrong value type or an unknown sensor name are skipped;
// only an unparsable document returns an error.
func ParseSensorCatalog(data []byte) (SensorCatalog, error) {
	root, err := parseRoot(data)
	if err != nil {
		return SensorCatalog{}, fmt.Errorf("sensor catalog: %w", err)
	}

	var cat SensorCatalog
	eachEntry(root, "patterns", func(key string, v *yaml.Node) {
		if t, ok := sensorValue(v); ok {
			cat.Patterns = append(cat.Patterns, PatternRule{Pattern: key, Sensor: t})
			return
		}
		skipEntry("sensor", "patterns", key)
	})
	eachEntry(root, "models", func(key string, v *yaml.Node) {
		if t, ok := sensorValue(v); ok {
			cat.Models = append(cat.Models, SensorModel{Label: key, Sensor: t})
			return
		}
		skipEntry("sensor", "models", key)
	})
	eachEntry(root, "aliases", func(key string, v *yaml.Node) {
		list, ok := stringList(v)
		if !ok {
			skipEntry("sensor", "aliases", key)
			return
		}
		cat.Aliases = append(cat.Aliases, SensorAlias{Canonical: key, Aliases: list})
	})
	return cat, nil
}

// ParseReleaseCatalog decodes a release-year catalog document.
//
//	{"models": {"<label>": 2006}, "aliases": {"<alias>": "<canonical>"}}
func ParseReleaseCatalog(data []byte) (ReleaseCatalog, error) {
	root, err := parseRoot(data)
	if err != nil {
		return ReleaseCatalog{}, fmt.Errorf("release catalog: %w", err)
	}

	var cat ReleaseCatalog
	eachEntry(root, "models", func(key string, v *yaml.Node) {
		if v.Kind == yaml.ScalarNode && v.Tag == "!!int" {
			var year int
			if v.Decode(&year) == nil {
				cat.Models = append(cat.Models, ReleaseModel{Label: key, Year: year})
				return
			}
		}
		skipEntry("release", "models", key)
	})
	cat.Aliases = aliasEntries(root, "release")
	return cat, nil
}

// ParseClassicCatalog decodes a classic-camera catalog document.
//
//	{"models": ["<label>", ...], "aliases": {"<alias>": "<canonical>"}}
func ParseClassicCatalog(data []byte) (ClassicCatalog, error) {
	root, err := parseRoot(data)
	if err != nil {
		return ClassicCatalog{}, fmt.Errorf("classic catalog: %w", err)
	}

	var cat ClassicCatalog
	if models := field(root, "models"); models != nil {
		list, ok := stringList(models)
		if !ok {
			skipEntry("classic", "models", "")
		}
		cat.Models = list
	}
	cat.Aliases = aliasEntries(root, "classic")
	return cat, nil
}

// DefaultCatalogs returns the catalogs embedded in the package.
func DefaultCatalogs() (Catalogs, error) {
	return loadCatalogs(embeddedCatalogs, "catalogs", nil)
}

// LoadCatalogs reads the three catalogs from dir. Each file may be JSON or
// YAML (<name>.json, <name>.yaml or <name>.yml); a catalog with no file in dir
// falls back to the embedded default.
func LoadCatalogs(dir string) (Catalogs, error) {
	defaults, err := DefaultCatalogs()
	if err != nil {
		return Catalogs{}, err
	}
	return loadCatalogs(os.DirFS(dir), ".", &defaults)
}

// loadCatalogs reads every catalog from dir in fsys. Missing files take the
// matching section of fallback; with a nil fallback they are an error.
func loadCatalogs(fsys fs.FS, dir string, fallback *Catalogs) (Catalogs, error) {
	var cats Catalogs

	data, err := readCatalogFile(fsys, dir, SensorCatalogFile, fallback == nil)
	switch {
	case err != nil:
		return Catalogs{}, err
	case data == nil:
		cats.Sensor = fallback.Sensor
	default:
		if cats.Sensor, err = ParseSensorCatalog(data); err != nil {
			return Catalogs{}, err
		}
	}

	data, err = readCatalogFile(fsys, dir, ReleaseCatalogFile, fallback == nil)
	switch {
	case err != nil:
		return Catalogs{}, err
	case data == nil:
		cats.Release = fallback.Release
	default:
		if cats.Release, err = ParseReleaseCatalog(data); err != nil {
			return Catalogs{}, err
		}
	}

	data, err = readCatalogFile(fsys, dir, ClassicCatalogFile, fallback == nil)
	switch {
	case err != nil:
		return Catalogs{}, err
	case data == nil:
		cats.Classic = fallback.Classic
	default:
		if cats.Classic, err = ParseClassicCatalog(data); err != nil {
			return Catalogs{}, err
		}
	}

	return cats, nil
}

// readCatalogFile returns the first of name.json, name.yaml, name.yml found
// in dir. When none exists it returns nil data, or an error if required.
func readCatalogFile(fsys fs.FS, dir, name string, required bool) ([]byte, error) {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		p := path.Join(dir, name+ext)
		data, err := fs.ReadFile(fsys, p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
	}
	if required {
		return nil, fmt.Errorf("catalog %s: %w", name, fs.ErrNotExist)
	}
	return nil, nil
}

// parseRoot parses data into its top-level mapping node. Valid JSON is
// decoded with encoding/json, keeping key order, so JSON-only syntax such as
// tab indentation or surrogate-pair escapes is accepted. Anything else goes
// through the YAML parser. An empty document yields an empty mapping.
func parseRoot(data []byte) (*yaml.Node, error) {
	var root *yaml.Node
	if json.Valid(data) {
		n, err := decodeJSONNode(data)
		if err != nil {
			return nil, err
		}
		root = n
	} else {
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		if len(doc.Content) == 0 {
			return &yaml.Node{Kind: yaml.MappingNode}, nil
		}
		root = deref(doc.Content[0])
	}
	if root.Kind != yaml.MappingNode {
		return nil, errors.New("document root is not an object")
	}
	return root, nil
}

// decodeJSONNode converts a JSON document into the equivalent YAML node
// tree, tagging scalars the way the YAML parser would.
func decodeJSONNode(data []byte) (*yaml.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return jsonValue(dec)
}

func jsonValue(dec *json.Decoder) (*yaml.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch v := tok.(type) {
	case json.Delim:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		if v == '{' {
			n = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		}
		for dec.More() {
			if n.Kind == yaml.MappingNode {
				key, err := dec.Token()
				if err != nil {
					return nil, err
				}
				k, _ := key.(string)
				n.Content = append(n.Content, jsonScalar("!!str", k))
			}
			item, err := jsonValue(dec)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, item)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return n, nil
	case string:
		return jsonScalar("!!str", v), nil
	case json.Number:
		if _, err := v.Int64(); err == nil {
			return jsonScalar("!!int", v.String()), nil
		}
		return jsonScalar("!!float", v.String()), nil
	case bool:
		return jsonScalar("!!bool", strconv.FormatBool(v)), nil
	case nil:
		return jsonScalar("!!null", "null"), nil
	}
	return nil, fmt.Errorf("unexpected JSON token %v", tok)
}

func jsonScalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

// field returns the value node stored under key in mapping m, or nil.
func field(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if k := deref(m.Content[i]); k.Kind == yaml.ScalarNode && k.Value == key {
			return deref(m.Content[i+1])
		}
	}
	return nil
}

// eachEntry calls fn for every key/value pair of the mapping stored under
// section, in document order. A section that is not a mapping is skipped.
func eachEntry(root *yaml.Node, section string, fn func(key string, v *yaml.Node)) {
	m := field(root, section)
	if m == nil {
		return
	}
	if m.Kind != yaml.MappingNode {
		if m.Tag != "!!null" {
			slog.Warn("camerafy: catalog section is not an object", "section", section)
		}
		return
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		k := deref(m.Content[i])
		if k.Kind != yaml.ScalarNode {
			continue
		}
		fn(k.Value, deref(m.Content[i+1]))
	}
}

func aliasEntries(root *yaml.Node, catalog string) []Alias {
	var out []Alias
	eachEntry(root, "aliases", func(key string, v *yaml.Node) {
		if canonical, ok := stringValue(v); ok {
			out = append(out, Alias{Alias: key, Canonical: canonical})
			return
		}
		skipEntry(catalog, "aliases", key)
	})
	return out
}

func sensorValue(n *yaml.Node) (SensorType, bool) {
	s, ok := stringValue(n)
	if !ok {
		return SensorUnknown, false
	}
	// Catalog values must be spelled exactly; lowercase names are rejected.
	for _, t := range SensorTypes {
		if t.String() == s {
			return t, true
		}
	}
	return SensorUnknown, false
}

func stringValue(n *yaml.Node) (string, bool) {
	if n.Kind != yaml.ScalarNode || n.Tag != "!!str" {
		return "", false
	}
	return n.Value, true
}

// stringList decodes a sequence, dropping non-string items.
func stringList(n *yaml.Node) ([]string, bool) {
	if n.Kind != yaml.SequenceNode {
		return nil, false
	}
	out := make([]string, 0, len(n.Content))
	for _, item := range n.Content {
		if s, ok := stringValue(deref(item)); ok {
			out = append(out, s)
		}
	}
	return out, true
}

func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func skipEntry(catalog, section, key string) {
	slog.Warn("camerafy: skipping malformed catalog entry",
		"catalog", catalog, "section", section, "key", key)
}
