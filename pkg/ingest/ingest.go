// Package ingest loads pipeline inputs from disk into the typed records the
// engine consumes. All shape and type checking happens here; the engine
// assumes well-typed input.
package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/user/isocomply/pkg/engine"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// ErrInvalidInput marks malformed input files. It is a fatal configuration error.
var ErrInvalidInput = errors.New("invalid input")

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// decodeFile unmarshals path into v, choosing YAML or JSON by extension.
func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return decode(path, data, v)
}

func decode(path string, data []byte, v any) error {
	var err error
	if isYAML(path) {
		err = yaml.Unmarshal(data, v)
	} else {
		err = json.Unmarshal(data, v)
	}
	if err != nil {
		return fmt.Errorf("%w: failed to parse %s: %v", ErrInvalidInput, filepath.Base(path), err)
	}
	return nil
}

// LoadControls reads the control catalog, a list of {id, title, description}.
// Every control needs a unique, non-empty id.
func LoadControls(path string) ([]engine.Control, error) {
	var controls []engine.Control
	if err := decodeFile(path, &controls); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(controls))
	for i, c := range controls {
		if strings.TrimSpace(c.ID) == "" {
			return nil, fmt.Errorf("%w: %s: control %d has no id", ErrInvalidInput, filepath.Base(path), i)
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("%w: %s: duplicate control id %s", ErrInvalidInput, filepath.Base(path), c.ID)
		}
		seen[c.ID] = true
	}
	return controls, nil
}

// LoadRules reads the control requirement table keyed by control id.
func LoadRules(path string) (engine.RuleTable, error) {
	rules := engine.RuleTable{}
	if err := decodeFile(path, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// LoadPolicies reads every .txt file in dir. The corpus is ordered by file
// name and each text is NFC-normalized.
func LoadPolicies(dir string) (engine.PolicyCorpus, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	corpus := engine.PolicyCorpus{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".txt" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		corpus = append(corpus, engine.Policy{
			Name: entry.Name(),
			Text: norm.NFC.String(string(data)),
		})
	}
	return corpus, nil
}

type evidenceFile struct {
	Evidence engine.EvidenceIndex `json:"evidence" yaml:"evidence"`
}

// LoadEvidenceIndex reads {"evidence": [...]}. A bare list is accepted too.
func LoadEvidenceIndex(path string) (engine.EvidenceIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if isSequence(path, data) {
		var index engine.EvidenceIndex
		if err := decode(path, data, &index); err != nil {
			return nil, err
		}
		return index, nil
	}

	var f evidenceFile
	if err := decode(path, data, &f); err != nil {
		return nil, err
	}
	if f.Evidence == nil {
		return engine.EvidenceIndex{}, nil
	}
	return f.Evidence, nil
}

// isSequence reports whether the document's top-level value is a list.
// YAML is inspected by node kind so comments and document markers are skipped.
func isSequence(path string, data []byte) bool {
	if !isYAML(path) {
		trimmed := bytes.TrimSpace(data)
		return len(trimmed) > 0 && trimmed[0] == '['
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil || len(doc.Content) == 0 {
		return false
	}
	return doc.Content[0].Kind == yaml.SequenceNode
}

// LoadMappings reads a mapping table written by the map stage.
func LoadMappings(path string) ([]engine.MappingRecord, error) {
	var records []engine.MappingRecord
	if err := decodeFile(path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// LoadResults reads evaluation results written by the check stage.
func LoadResults(path string) ([]engine.EvaluationResult, error) {
	var results []engine.EvaluationResult
	if err := decodeFile(path, &results); err != nil {
		return nil, err
	}
	return results, nil
}
