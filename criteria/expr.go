package criteria

import (
	"context"

	"github.com/rushteam/screenkit/chem"
	"github.com/rushteam/screenkit/core"
	"github.com/rushteam/screenkit/pkg/dsl"
)

// Expr 是表达式判据：对候选求值一条 CEL 表达式（见 pkg/dsl），
// 结果非 true 即拒绝，求值错误按 VerdictError 处理。
// 用于在不改代码的前提下从配置挂接临时判据。
type Expr struct {
	prog *dsl.Program
}

// NewExpr 编译表达式并创建判据。表达式本身写错属于配置错误，构造即失败；
// 这与模式判据的逐候选容错不同：表达式在构造期就能完整校验。
func NewExpr(expr string) (*Expr, error) {
	prog, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &Expr{prog: prog}, nil
}

func (c *Expr) Name() string { return "criteria.expr" }

func (c *Expr) Reason() core.Reason { return core.ReasonExpr }

func (c *Expr) Check(_ context.Context, mol *chem.Molecule, cand core.Candidate) Verdict {
	ok, err := c.prog.Eval(mol, cand)
	if err != nil {
		return VerdictError
	}
	if !ok {
		return VerdictReject
	}
	return VerdictAccept
}
