package criteria

import (
	"context"

	"github.com/rushteam/screenkit/chem"
	"github.com/rushteam/screenkit/core"
)

// MaxWeight 是标量属性上限判据：分子量 > Max 拒绝，恰好等于 Max 通过（闭区间上界）。
// 分子量无法计算（原子量表外元素）时返回 VerdictError。
type MaxWeight struct {
	Max float64
}

func (c *MaxWeight) Name() string { return "criteria.weight.max" }

func (c *MaxWeight) Reason() core.Reason { return core.ReasonWeight }

func (c *MaxWeight) Check(_ context.Context, mol *chem.Molecule, _ core.Candidate) Verdict {
	w, err := chem.MolWeight(mol)
	if err != nil {
		return VerdictError
	}
	if w > c.Max {
		return VerdictReject
	}
	return VerdictAccept
}
