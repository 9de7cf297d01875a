// Package shamela fetches and parses book pages from the Shamela online
// library. Book sources are declared in an embedded sources.yaml so a
// deployment can sync a fixed set of collections on a schedule.
package shamela

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed sources.yaml
var sourcesYAML []byte

// Source declares one Shamela book to import.
type Source struct {
	Name       string `yaml:"name"`
	Collection string `yaml:"collection"`
	BookID     int    `yaml:"bookId"`
	StartPage  int    `yaml:"startPage"`
	EndPage    int    `yaml:"endPage"`
}

type sourcesFile struct {
	Sources []Source `yaml:"sources"`
}

// LoadSources parses the embedded source declarations.
func LoadSources() ([]Source, error) {
	var f sourcesFile
	if err := yaml.Unmarshal(sourcesYAML, &f); err != nil {
		return nil, fmt.Errorf("failed to parse sources.yaml: %w", err)
	}
	for i := range f.Sources {
		if f.Sources[i].StartPage < 1 {
			f.Sources[i].StartPage = 1
		}
		if f.Sources[i].EndPage < f.Sources[i].StartPage {
			f.Sources[i].EndPage = f.Sources[i].StartPage
		}
	}
	return f.Sources, nil
}
