// Package symptoms ranks a static disease catalog against observed symptoms.
package symptoms

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mamadbah2/herdhealth/internal/domain/models"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type catalogFile struct {
	Symptoms []models.Symptom          `yaml:"symptoms"`
	Diseases []models.DiseaseReference `yaml:"diseases"`
}

// Catalog is the seeded disease reference. It is never modified after
// loading, so one instance can be shared by any number of goroutines.
type Catalog struct {
	diseases []models.DiseaseReference
	labels   map[string]string
}

// DefaultCatalog loads the catalog bundled with the binary.
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(bytes.NewReader(defaultCatalog))
}

// LoadCatalog parses a YAML catalog. Symptom and species identifiers are
// normalized to lower case; duplicate disease ids are rejected.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var file catalogFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode disease catalog: %w", err)
	}

	c := &Catalog{
		diseases: make([]models.DiseaseReference, 0, len(file.Diseases)),
		labels:   make(map[string]string, len(file.Symptoms)),
	}
	for _, s := range file.Symptoms {
		c.labels[normalize(s.ID)] = s.Label
	}

	seen := make(map[string]struct{}, len(file.Diseases))
	for _, d := range file.Diseases {
		if d.ID == "" {
			return nil, fmt.Errorf("disease %q has no id", d.Name)
		}
		if _, dup := seen[d.ID]; dup {
			return nil, fmt.Errorf("duplicate disease id %q", d.ID)
		}
		seen[d.ID] = struct{}{}

		d.Species = normalizeAll(d.Species)
		d.PrimarySymptoms = normalizeAll(d.PrimarySymptoms)
		d.SecondarySymptoms = normalizeAll(d.SecondarySymptoms)
		c.diseases = append(c.diseases, d)
	}

	return c, nil
}

// Len returns the number of diseases in the catalog.
func (c *Catalog) Len() int {
	return len(c.diseases)
}

// Diseases returns a copy of every catalog entry.
func (c *Catalog) Diseases() []models.DiseaseReference {
	out := make([]models.DiseaseReference, len(c.diseases))
	copy(out, c.diseases)
	return out
}

// Label returns the human-readable label of a symptom id, or the id itself.
func (c *Catalog) Label(symptomID string) string {
	if label, ok := c.labels[normalize(symptomID)]; ok {
		return label
	}
	return symptomID
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizeAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if n := normalize(v); n != "" {
			out = append(out, n)
		}
	}
	return out
}
