package species

import (
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Jhuly1215/SimulacionInvasores/pkg/errors"
)

// Catalog is a set of species parameters keyed by case-insensitive name.
type Catalog struct {
	byName map[string]*Params
}

type catalogFile struct {
	Species []Params `yaml:"species"`
}

// ParseCatalog decodes a YAML document holding either a single species
// mapping or a `species:` list.  Every entry gets defaults applied and is
// validated.
func ParseCatalog(r io.Reader) (*Catalog, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if err == io.EOF {
			return nil, errors.InvalidInput("species catalogue is empty")
		}
		return nil, errors.Wrap(err, errors.CodeInvalidInput, "decode species catalogue")
	}
	doc := &root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	if doc.Kind != yaml.MappingNode {
		return nil, errors.InvalidInput("species catalogue must be a mapping")
	}

	var list []Params
	if hasKey(doc, "species") {
		var f catalogFile
		if err := doc.Decode(&f); err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidInput, "decode species list")
		}
		list = f.Species
	} else {
		var p Params
		if err := doc.Decode(&p); err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidInput, "decode species")
		}
		list = []Params{p}
	}
	if len(list) == 0 {
		return nil, errors.InvalidInput("species catalogue is empty")
	}

	c := &Catalog{byName: make(map[string]*Params, len(list))}
	for i := range list {
		p := list[i]
		p.ApplyDefaults()
		if strings.TrimSpace(p.Name) == "" {
			return nil, errors.InvalidInput("species entry has no name").WithDetailf("index=%d", i)
		}
		if err := p.Validate(); err != nil {
			return nil, errors.Wrap(err, errors.CodeUnknown, "species "+p.Name)
		}
		key := strings.ToLower(p.Name)
		if _, dup := c.byName[key]; dup {
			return nil, errors.InvalidInput("duplicate species name").WithDetail("name=" + p.Name)
		}
		c.byName[key] = &p
	}
	return c, nil
}

// LoadCatalogFile reads and parses a YAML catalogue from disk.
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("species file not found").WithDetail("path=" + path)
		}
		return nil, errors.Wrap(err, errors.CodeInvalidInput, "open species file")
	}
	defer f.Close()
	return ParseCatalog(f)
}

// Get returns a copy of the named species parameters.
func (c *Catalog) Get(name string) (*Params, error) {
	p, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, errors.NotFound("species not in catalogue").WithDetail("name=" + name)
	}
	cp := *p
	return &cp, nil
}

// Only returns the single species of a one-entry catalogue.
func (c *Catalog) Only() (*Params, error) {
	if len(c.byName) != 1 {
		return nil, errors.InvalidInput("catalogue holds several species; pick one by name").
			WithDetail("names=" + strings.Join(c.Names(), ","))
	}
	for _, p := range c.byName {
		cp := *p
		return &cp, nil
	}
	return nil, errors.InvalidInput("species catalogue is empty")
}

// Names lists the catalogue's species names in sorted order.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.byName))
	for _, p := range c.byName {
		out = append(out, p.Name)
	}
	sort.Strings(out)
	return out
}

func hasKey(m *yaml.Node, key string) bool {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return true
		}
	}
	return false
}

//Personal.AI order the ending
