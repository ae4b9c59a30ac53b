package main

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/simonhull/audiotags"
)

// fileReport is the printed form of one file's tags.
type fileReport struct {
	Path     string                     `json:"path" yaml:"path"`
	Format   string                     `json:"format,omitempty" yaml:"format,omitempty"`
	Tags     audiotags.TagSet           `json:"tags,omitempty" yaml:"tags,omitempty"`
	Raw      map[string]audiotags.Value `json:"raw,omitempty" yaml:"raw,omitempty"`
	Warnings []string                   `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Error    string                     `json:"error,omitempty" yaml:"error,omitempty"`
}

func warningStrings(ws []audiotags.Warning) []string {
	if len(ws) == 0 {
		return nil
	}
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.String()
	}
	return out
}

// print writes v in the configured output format.
func (a *app) print(v any) error {
	switch a.cfg.Output {
	case "yaml":
		enc := yaml.NewEncoder(a.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
}
