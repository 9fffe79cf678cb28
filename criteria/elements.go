package criteria

import (
	"context"

	"github.com/rushteam/screenkit/chem"
	"github.com/rushteam/screenkit/core"
)

// AllowedElements 是元素允许集合判据：任一显式原子的元素落在集合之外即拒绝。
// 空集合表示不限制。隐式氢不参与检查，配置中列出的 "H" 被接受但不产生约束。
type AllowedElements struct {
	allowed map[string]bool
}

// NewAllowedElements 创建元素允许集合判据。
func NewAllowedElements(elements []string) *AllowedElements {
	c := &AllowedElements{}
	if len(elements) > 0 {
		c.allowed = make(map[string]bool, len(elements))
		for _, el := range elements {
			c.allowed[el] = true
		}
	}
	return c
}

func (c *AllowedElements) Name() string { return "criteria.elements.allowed" }

func (c *AllowedElements) Reason() core.Reason { return core.ReasonElement }

func (c *AllowedElements) Check(_ context.Context, mol *chem.Molecule, _ core.Candidate) Verdict {
	if len(c.allowed) == 0 {
		return VerdictAccept
	}
	for _, a := range mol.Atoms {
		if !c.allowed[a.Element] {
			return VerdictReject
		}
	}
	return VerdictAccept
}
