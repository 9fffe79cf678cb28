package criteria

import (
	"context"

	"github.com/rushteam/screenkit/chem"
	"github.com/rushteam/screenkit/core"
)

// MinConjugation 是拓扑特征下限判据：共轭多重键计数 < Min 即拒绝。
// 候选完全没有多重键时计数短路为 0；Min ≤ 0 时判据恒通过。
// 计数本身失败时按 fail-closed 处理（VerdictError → 拒绝）。
type MinConjugation struct {
	Min int
}

func (c *MinConjugation) Name() string { return "criteria.conjugation.min" }

func (c *MinConjugation) Reason() core.Reason { return core.ReasonTopology }

func (c *MinConjugation) Check(_ context.Context, mol *chem.Molecule, _ core.Candidate) Verdict {
	if c.Min <= 0 {
		return VerdictAccept
	}
	if mol == nil {
		return VerdictError
	}
	if chem.ConjugatedBondCount(mol) < c.Min {
		return VerdictReject
	}
	return VerdictAccept
}
