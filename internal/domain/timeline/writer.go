package timeline

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Document is the on-disk form of a planned timeline.
type Document struct {
	Version  string           `yaml:"version"`
	Options  Options          `yaml:"options"`
	Lines    int              `yaml:"lines"`
	Segments int              `yaml:"segments"`
	Clips    []ClipDescriptor `yaml:"clips"`
}

func NewDocument(p Plan, opts Options) *Document {
	return &Document{
		Version:  "1.0",
		Options:  opts,
		Lines:    len(p.Lines),
		Segments: len(p.Segments),
		Clips:    p.Clips,
	}
}

// WriteDocument writes a timeline to a YAML file
func WriteDocument(doc *Document, path string) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// ReadDocument reads a timeline from a YAML file
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	return &doc, nil
}
