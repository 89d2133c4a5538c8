package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// PhaseFile is the top-level structure of a roadmap import file.
// Roadmap is optional prose; when empty it is rendered from the phases.
type PhaseFile struct {
	Roadmap string        `json:"roadmap,omitempty" yaml:"roadmap,omitempty"`
	Phases  []PhaseImport `json:"phases" yaml:"phases"`
}

// PhaseImport defines one phase in the import file.
type PhaseImport struct {
	Title           string   `json:"title" yaml:"title"`
	Timeline        string   `json:"timeline,omitempty" yaml:"timeline,omitempty"`
	Goal            string   `json:"goal,omitempty" yaml:"goal,omitempty"`
	Tasks           []string `json:"tasks,omitempty" yaml:"tasks,omitempty"`
	SuccessCriteria []string `json:"success_criteria,omitempty" yaml:"success_criteria,omitempty"`
}

// Format selects the decoder for a phase file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks YAML for .yaml/.yml files and JSON otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadPhaseFile reads and parses a phase file from disk.
func LoadPhaseFile(path string) (*PhaseFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePhaseFile(data, FormatFromPath(path))
}

// ParsePhaseFile decodes data in the given format.
func ParsePhaseFile(data []byte, format Format) (*PhaseFile, error) {
	var file PhaseFile
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parsing yaml phase file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parsing json phase file: %w", err)
		}
	}
	return &file, nil
}
