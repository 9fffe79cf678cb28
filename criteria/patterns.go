package criteria

import (
	"context"

	"github.com/rushteam/screenkit/chem"
	"github.com/rushteam/screenkit/core"
)

// ForbiddenPatterns 是禁止子结构判据：命中任意模式即拒绝。
// 模式在构造时预编译；按失败容错规则，编译失败不是构造错误，
// 而是让每个候选在评估时得到 VerdictError（即被拒绝），运行不中止。
type ForbiddenPatterns struct {
	patterns []*chem.Pattern
	invalid  bool
}

// NewForbiddenPatterns 创建禁止子结构判据。
func NewForbiddenPatterns(exprs []string) *ForbiddenPatterns {
	c := &ForbiddenPatterns{}
	c.patterns, c.invalid = compilePatterns(exprs)
	return c
}

func (c *ForbiddenPatterns) Name() string { return "criteria.pattern.forbidden" }

func (c *ForbiddenPatterns) Reason() core.Reason { return core.ReasonSubstructure }

func (c *ForbiddenPatterns) Check(_ context.Context, mol *chem.Molecule, _ core.Candidate) Verdict {
	if c.invalid {
		return VerdictError
	}
	for _, p := range c.patterns {
		if p.Matches(mol) {
			return VerdictReject
		}
	}
	return VerdictAccept
}

// RequiredPatterns 是必需子结构判据：候选必须命中全部模式，否则拒绝。
// 编译失败的处理与 ForbiddenPatterns 相同。
type RequiredPatterns struct {
	patterns []*chem.Pattern
	invalid  bool
}

// NewRequiredPatterns 创建必需子结构判据。
func NewRequiredPatterns(exprs []string) *RequiredPatterns {
	c := &RequiredPatterns{}
	c.patterns, c.invalid = compilePatterns(exprs)
	return c
}

func (c *RequiredPatterns) Name() string { return "criteria.pattern.required" }

func (c *RequiredPatterns) Reason() core.Reason { return core.ReasonSubstructure }

func (c *RequiredPatterns) Check(_ context.Context, mol *chem.Molecule, _ core.Candidate) Verdict {
	if c.invalid {
		return VerdictError
	}
	for _, p := range c.patterns {
		if !p.Matches(mol) {
			return VerdictReject
		}
	}
	return VerdictAccept
}

func compilePatterns(exprs []string) (patterns []*chem.Pattern, invalid bool) {
	patterns = make([]*chem.Pattern, 0, len(exprs))
	for _, expr := range exprs {
		p, err := chem.CompilePattern(expr)
		if err != nil {
			invalid = true
			continue
		}
		patterns = append(patterns, p)
	}
	return patterns, invalid
}
