package wrappers

import (
	"fmt"
	"sync"

	"github.com/user/isocomply/pkg/config"
	"github.com/user/isocomply/pkg/engine"
	"github.com/user/isocomply/pkg/ingest"
)

// Workspace is the state the agent tools share: where the inputs live, the
// engine that evaluates them, and the most recent assessment.
type Workspace struct {
	Paths  config.Paths
	Engine *engine.Engine

	mu   sync.RWMutex
	inv  *ingest.Inventory
	last *engine.Assessment
}

func NewWorkspace(paths config.Paths, eng *engine.Engine) *Workspace {
	if eng == nil {
		eng = engine.NewEngine()
	}
	return &Workspace{Paths: paths, Engine: eng}
}

// Assess reloads every input from disk and runs a fresh assessment.
func (w *Workspace) Assess() (*engine.Assessment, error) {
	inv, err := ingest.Load(w.Paths)
	if err != nil {
		return nil, fmt.Errorf("loading inputs: %w", err)
	}
	a := w.Engine.Run(inv.Inputs())

	w.mu.Lock()
	w.inv = inv
	w.last = a
	w.mu.Unlock()
	return a, nil
}

// Current returns the last assessment, running one if none exists yet.
func (w *Workspace) Current() (*engine.Assessment, error) {
	w.mu.RLock()
	a := w.last
	w.mu.RUnlock()
	if a != nil {
		return a, nil
	}
	return w.Assess()
}

// Policies returns the policy corpus of the last load, loading it if needed.
func (w *Workspace) Policies() (engine.PolicyCorpus, error) {
	w.mu.RLock()
	inv := w.inv
	w.mu.RUnlock()
	if inv != nil {
		return inv.Policies, nil
	}
	return ingest.LoadPolicies(w.Paths.Policies)
}

// Result looks up one control in the current assessment.
func (w *Workspace) Result(controlID string) (engine.EvaluationResult, bool, error) {
	a, err := w.Current()
	if err != nil {
		return engine.EvaluationResult{}, false, err
	}
	for _, r := range a.Results {
		if r.ControlID == controlID {
			return r, true, nil
		}
	}
	return engine.EvaluationResult{}, false, nil
}

func stringArg(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	return v
}

// intArg accepts the float64 that JSON-decoded numbers arrive as.
func intArg(args map[string]interface{}, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	}
	return def
}
