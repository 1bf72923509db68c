// Package plan loads the migration plan: which sheets to process, in what
// order, against which template chains, plus the alias tables and the region
// lookup export. Sheet order is load-bearing — later sheets reference
// identifiers minted by earlier ones — so the plan is an ordered list, never
// a map.
package plan

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// SheetPlan binds one workbook sheet to a registered sheet definition and
// its template chain (base template first).
type SheetPlan struct {
	Sheet      string   `toml:"sheet"`
	Definition string   `toml:"definition"`
	Templates  []string `toml:"templates"`
}

// Plan is the full migration plan file.
type Plan struct {
	Workbook    string                       `toml:"workbook"`
	RegionsFile string                       `toml:"regions_file"`
	Sheets      []SheetPlan                  `toml:"sheets"`
	Aliases     map[string]map[string]string `toml:"aliases"`

	dir string // directory of the plan file, for resolving relative paths
}

// Load reads and validates a plan file.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}

	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("plan %s: %w", path, err)
	}
	p.dir = filepath.Dir(path)
	return p, nil
}

// Parse decodes and validates plan TOML.
func Parse(data []byte) (*Plan, error) {
	var p Plan
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Plan) validate() error {
	if len(p.Sheets) == 0 {
		return fmt.Errorf("plan declares no sheets")
	}

	seen := make(map[string]bool, len(p.Sheets))
	for i, s := range p.Sheets {
		if s.Sheet == "" {
			return fmt.Errorf("sheets[%d]: missing sheet name", i)
		}
		if s.Definition == "" {
			return fmt.Errorf("sheet %q: missing definition key", s.Sheet)
		}
		if len(s.Templates) == 0 {
			return fmt.Errorf("sheet %q: missing template chain", s.Sheet)
		}
		if seen[s.Sheet] {
			return fmt.Errorf("sheet %q declared twice", s.Sheet)
		}
		seen[s.Sheet] = true
	}

	return nil
}

// WorkbookPath resolves the workbook path relative to the plan file.
func (p *Plan) WorkbookPath() string {
	return p.resolve(p.Workbook)
}

// regionExport is one entry of the region lookup export file.
type regionExport struct {
	Name string `json:"name"`
	ID   string `json:"_id"`
}

// LoadRegions reads the region name → id table declared by the plan.
// Returns an empty table when no regions file is configured.
func (p *Plan) LoadRegions() (map[string]string, error) {
	if p.RegionsFile == "" {
		return map[string]string{}, nil
	}

	data, err := os.ReadFile(p.resolve(p.RegionsFile))
	if err != nil {
		return nil, fmt.Errorf("read regions file: %w", err)
	}

	var exports []regionExport
	if err := json.Unmarshal(data, &exports); err != nil {
		return nil, fmt.Errorf("parse regions file: %w", err)
	}

	regions := make(map[string]string, len(exports))
	for _, r := range exports {
		if r.Name != "" && r.ID != "" {
			regions[r.Name] = r.ID
		}
	}
	return regions, nil
}

func (p *Plan) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || p.dir == "" {
		return path
	}
	return filepath.Join(p.dir, path)
}
