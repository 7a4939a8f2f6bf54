package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"cha/internal/universe"
)

// FileName is the manifest name looked up by Find.
const FileName = "cha.toml"

// ErrNoManifest is returned by Find when no manifest exists up to the
// filesystem root.
var ErrNoManifest = errors.New("no " + FileName + " found")

// Manifest is one decoded cha.toml file.
type Manifest struct {
	Path    string        `toml:"-" msgpack:"path"`
	Program ProgramConfig `toml:"program" msgpack:"program"`
	Classes []ClassConfig `toml:"class" msgpack:"classes"`
}

// ProgramConfig names the program and its entry classes.
type ProgramConfig struct {
	Name  string   `toml:"name" msgpack:"name"`
	Roots []string `toml:"roots" msgpack:"roots"`
}

// ClassConfig is one [[class]] table.
type ClassConfig struct {
	Name         string   `toml:"name" msgpack:"name"`
	Super        string   `toml:"super" msgpack:"super"`
	Implements   []string `toml:"implements" msgpack:"implements"`
	Instantiates []string `toml:"instantiates" msgpack:"instantiates"`
	Abstract     bool     `toml:"abstract" msgpack:"abstract"`
	Interface    bool     `toml:"interface" msgpack:"interface"`
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse decodes manifest content. path is only used in error messages.
func Parse(path string, data []byte) (*Manifest, error) {
	var m Manifest
	meta, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&m)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("program") && !meta.IsDefined("program", "roots") {
		return nil, fmt.Errorf("%s: missing [program].roots", path)
	}
	for i := range m.Classes {
		c := &m.Classes[i]
		c.Name = universe.Normalize(strings.TrimSpace(c.Name))
		if c.Name == "" {
			return nil, fmt.Errorf("%s: [[class]] #%d: missing name", path, i+1)
		}
		if c.Interface && c.Super != "" && c.Super != universe.RootName {
			return nil, fmt.Errorf("%s: interface %q cannot extend %q; use implements", path, c.Name, c.Super)
		}
	}
	for i, r := range m.Program.Roots {
		m.Program.Roots[i] = universe.Normalize(strings.TrimSpace(r))
	}
	m.Path = path
	return &m, nil
}

// Decls converts the class tables to universe declarations.
func (m *Manifest) Decls() []universe.Decl {
	decls := make([]universe.Decl, 0, len(m.Classes))
	for _, c := range m.Classes {
		var flags universe.ClassFlags
		if c.Abstract {
			flags |= universe.FlagAbstract
		}
		if c.Interface {
			flags |= universe.FlagInterface
		}
		decls = append(decls, universe.Decl{
			Name:         c.Name,
			Super:        c.Super,
			Implements:   c.Implements,
			Instantiates: c.Instantiates,
			Flags:        flags,
		})
	}
	return decls
}
