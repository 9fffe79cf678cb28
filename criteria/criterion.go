package criteria

import (
	"context"

	"github.com/rushteam/screenkit/chem"
	"github.com/rushteam/screenkit/core"
)

// Verdict 是单个判据对单个候选的显式判定结果。
// 评估中的内部失败（分子量表外元素、模式编译失败、表达式运行错误等）
// 以 VerdictError 表达，由 Set 在评估边界统一映射为拒绝——
// “错误即拒绝”是显式契约，不是异常吞掉后的附带行为。
type Verdict int

const (
	VerdictAccept Verdict = iota
	VerdictReject
	VerdictError
)

func (v Verdict) String() string {
	switch v {
	case VerdictAccept:
		return "accept"
	case VerdictReject:
		return "reject"
	default:
		return "error"
	}
}

// Criterion 是单个命名、带参数的接受/拒绝测试。
// 实现构造后不可变：同一个 Criterion 会被多个 worker 并发调用，无锁共享。
type Criterion interface {
	// Name 返回判据名称
	Name() string

	// Reason 返回该判据拒绝候选时归入的诊断类别
	Reason() core.Reason

	// Check 判定一个已解析的候选
	Check(ctx context.Context, mol *chem.Molecule, cand core.Candidate) Verdict
}
