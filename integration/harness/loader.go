//go:build integration

package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v4"
	"golang.org/x/tools/txtar"
)

// Archive file names recognized inside a corpus case.
const (
	specFile     = "spec.yaml"
	overlayFile  = "overlay.yaml"
	expectedFile = "expected.yaml"
	configFile   = "case.yaml"
)

// LoadCase reads a single txtar archive into a Case.
func LoadCase(path string) (*Case, error) {
	archive, err := txtar.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("harness: reading corpus case %s: %w", path, err)
	}

	c := &Case{
		Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		path: path,
	}

	for _, f := range archive.Files {
		switch f.Name {
		case specFile:
			c.Spec = f.Data
		case overlayFile:
			c.Overlay = f.Data
		case expectedFile:
			c.Expected = f.Data
		case configFile:
			if err := yaml.Unmarshal(f.Data, &c.Config); err != nil {
				return nil, fmt.Errorf("harness: case %s has an invalid %s: %w", path, configFile, err)
			}
		default:
			return nil, fmt.Errorf("harness: case %s contains unrecognized file %q", path, f.Name)
		}
	}

	if err := validateCase(c); err != nil {
		return nil, fmt.Errorf("harness: case %s: %w", path, err)
	}
	return c, nil
}

// LoadDir loads every .txtar archive in a directory, sorted by name.
func LoadDir(dir string) ([]*Case, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("harness: reading corpus directory %s: %w", dir, err)
	}

	var cases []*Case
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".txtar" {
			continue
		}
		c, err := LoadCase(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}

	sort.Slice(cases, func(i, j int) bool { return cases[i].Name < cases[j].Name })
	return cases, nil
}

func validateCase(c *Case) error {
	if len(c.Spec) == 0 {
		return fmt.Errorf("missing %s", specFile)
	}
	if len(c.Overlay) == 0 {
		return fmt.Errorf("missing %s", overlayFile)
	}
	if len(c.Expected) == 0 && c.Config.ExpectError == "" {
		return fmt.Errorf("missing %s (required unless expect-error is set)", expectedFile)
	}
	return nil
}
