package ontology

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"strata/pkg/logger"

	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Concepts []Concept           `yaml:"concepts"`
	Pairings map[string][]string `yaml:"pairings"`
}

// LoadCatalogFile reads a concept/pairing catalog from a YAML file.
//
// A missing file is not an error: the built-in default catalog is returned so
// that an unconfigured deployment still classifies against the standard
// ontology.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("[Ontology] Catalog file missing, using built-in concepts", "path", path)
			return DefaultCatalog()
		}
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var doc catalogFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	return NewCatalog(doc.Concepts, doc.Pairings)
}

// LoadContourMapFile reads a contour map from a JSON file.
//
// A missing file degrades to an empty contour map: the graph simply gets no
// hierarchy, authority, or overlay edges.
func LoadContourMapFile(path string) (*ContourMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("[Ontology] Contour map missing, continuing without it", "path", path)
			return &ContourMap{}, nil
		}
		return nil, fmt.Errorf("failed to read contour map: %w", err)
	}
	return ParseContourMap(data)
}
