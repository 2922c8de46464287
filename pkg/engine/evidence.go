package engine

import (
	"fmt"
	"path"
	"strings"
)

const policyExt = ".txt"

// EvidenceRecord is one artifact listed in the evidence index
type EvidenceRecord struct {
	ID   string `json:"id" yaml:"id"`
	Type string `json:"type" yaml:"type"` // e.g. policy, config, asset_inventory
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`
}

// EvidenceIndex is the ordered list of available evidence.
type EvidenceIndex []EvidenceRecord

// MatchMode controls how required policies are located in the evidence index.
type MatchMode int

const (
	// MatchLoose accepts substring name matches and path suffix matches.
	// "access" is satisfied by "access_control.txt".
	MatchLoose MatchMode = iota
	// MatchStrict requires the base name to equal the record name or the
	// final path element.
	MatchStrict
)

func (m MatchMode) String() string {
	switch m {
	case MatchLoose:
		return "loose"
	case MatchStrict:
		return "strict"
	}
	return fmt.Sprintf("MatchMode(%d)", int(m))
}

// ParseMatchMode converts a config value into a MatchMode. Empty means loose.
func ParseMatchMode(s string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "loose":
		return MatchLoose, nil
	case "strict":
		return MatchStrict, nil
	}
	return MatchLoose, fmt.Errorf("unknown policy match mode %q", s)
}

// EvidenceExistsByType reports whether any record has exactly this type.
func EvidenceExistsByType(index EvidenceIndex, evidenceType string) bool {
	for _, e := range index {
		if e.Type == evidenceType {
			return true
		}
	}
	return false
}

// EvidenceExistsPolicy reports whether the index references the policy,
// using loose matching. policyName may carry a .txt suffix.
func EvidenceExistsPolicy(index EvidenceIndex, policyName string) bool {
	return Resolver{Index: index, Mode: MatchLoose}.HasPolicy(policyName)
}

// Resolver answers presence questions about an evidence index
type Resolver struct {
	Index EvidenceIndex
	Mode  MatchMode
}

// HasType reports whether evidence of the given type exists.
func (r Resolver) HasType(evidenceType string) bool {
	return EvidenceExistsByType(r.Index, evidenceType)
}

// HasPolicy reports whether the named policy is present in the index.
// An empty name, or one that is empty once .txt is stripped, never matches.
func (r Resolver) HasPolicy(policyName string) bool {
	normalized := strings.TrimSuffix(policyName, policyExt)
	if normalized == "" {
		return false
	}
	file := normalized + policyExt
	for _, e := range r.Index {
		name := strings.TrimSuffix(e.Name, policyExt)
		switch r.Mode {
		case MatchStrict:
			if name == normalized || baseName(e.Path) == file {
				return true
			}
		default:
			if strings.Contains(name, normalized) || strings.HasSuffix(e.Path, file) {
				return true
			}
		}
	}
	return false
}

// baseName returns the last element of a slash or backslash separated path.
func baseName(p string) string {
	if p == "" {
		return ""
	}
	return path.Base(strings.ReplaceAll(p, "\\", "/"))
}
