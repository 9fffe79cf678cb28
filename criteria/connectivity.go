package criteria

import (
	"context"

	"github.com/rushteam/screenkit/chem"
	"github.com/rushteam/screenkit/core"
)

// Connectivity 是断连片段判据：SMILES 中出现 '.' 即为多片段候选，
// 除非显式允许，否则拒绝。
type Connectivity struct {
	AllowDisconnected bool
}

func (c *Connectivity) Name() string { return "criteria.connectivity" }

func (c *Connectivity) Reason() core.Reason { return core.ReasonConnectivity }

func (c *Connectivity) Check(_ context.Context, mol *chem.Molecule, _ core.Candidate) Verdict {
	if c.AllowDisconnected {
		return VerdictAccept
	}
	if mol.Fragments > 1 {
		return VerdictReject
	}
	return VerdictAccept
}
