package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/user/isocomply/pkg/config"
	"github.com/user/isocomply/pkg/engine"
)

// Inventory describes the inputs found for a run.
type Inventory struct {
	Controls     []engine.Control
	Rules        engine.RuleTable
	Policies     engine.PolicyCorpus
	Evidence     engine.EvidenceIndex
	Assets       int // data rows, -1 when the file is absent
	RiskRegister int // data rows, -1 when the file is absent
}

// Inputs returns the engine inputs held by the inventory.
func (inv *Inventory) Inputs() engine.Inputs {
	return engine.Inputs{
		Controls: inv.Controls,
		Rules:    inv.Rules,
		Policies: inv.Policies,
		Evidence: inv.Evidence,
	}
}

// Load reads every input named in paths. Controls, rules, policies and
// evidence are required; the asset inventory and risk register are optional.
func Load(paths config.Paths) (*Inventory, error) {
	inv := &Inventory{}
	var err error

	if inv.Controls, err = LoadControls(paths.Controls); err != nil {
		return nil, fmt.Errorf("controls: %w", err)
	}
	if inv.Rules, err = LoadRules(paths.Rules); err != nil {
		return nil, fmt.Errorf("rules: %w", err)
	}
	if inv.Policies, err = LoadPolicies(paths.Policies); err != nil {
		return nil, fmt.Errorf("policies: %w", err)
	}
	if inv.Evidence, err = LoadEvidenceIndex(paths.Evidence); err != nil {
		return nil, fmt.Errorf("evidence: %w", err)
	}
	if inv.Assets, err = countOptionalRows(paths.Assets); err != nil {
		return nil, fmt.Errorf("assets: %w", err)
	}
	if inv.RiskRegister, err = countOptionalRows(paths.RiskRegister); err != nil {
		return nil, fmt.Errorf("risk register: %w", err)
	}
	return inv, nil
}

func countOptionalRows(path string) (int, error) {
	if path == "" {
		return -1, nil
	}
	n, err := CountCSVRows(path)
	if errors.Is(err, os.ErrNotExist) {
		return -1, nil
	}
	return n, err
}

// CountCSVRows returns the number of data rows below the header of a CSV file.
func CountCSVRows(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows := 0
	for {
		_, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrInvalidInput, path, err)
		}
		rows++
	}
	if rows == 0 {
		return 0, nil
	}
	return rows - 1, nil
}
