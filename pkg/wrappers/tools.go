package wrappers

import "github.com/user/isocomply/pkg/adk"

// Tools returns every compliance tool bound to ws.
func Tools(ws *Workspace) []adk.Tool {
	return []adk.Tool{
		&AssessmentWrapper{Workspace: ws},
		&GapsWrapper{Workspace: ws},
		&ExplainWeightWrapper{Workspace: ws},
		&MatchPolicyWrapper{Workspace: ws},
		&SaveSnapshotWrapper{Workspace: ws},
		&DiffSnapshotWrapper{Workspace: ws},
	}
}
