package criteria

import (
	"context"
	"runtime"
	"sort"

	"github.com/rushteam/screenkit/chem"
	"github.com/rushteam/screenkit/core"
)

// Set 是一次运行的全部判据及流水线参数的不可变集合。
// 构造后不再修改——这正是它能被所有 worker 无锁共享的原因。
//
// 判据按固定的“先廉价拒绝”顺序评估并在第一个拒绝处短路：
// 结构解析 → 断连片段 → 分子量 → 元素集合 → 禁止子结构 → 必需子结构 → 共轭计数 → 表达式。
// NewSet 按此顺序重排传入的判据，配置文件中的书写顺序不影响评估顺序。
type Set struct {
	criteria  []Criterion
	batchSize int
	workers   int
}

// Params 是 Set 携带的流水线参数。
type Params struct {
	BatchSize int // ≤0 取默认值 1000
	Workers   int // ≤0 取默认值 min(GOMAXPROCS, 8)
}

const (
	defaultBatchSize  = 1000
	defaultMaxWorkers = 8 // 评估是计算密集型，超量并发只会互相挤占
)

// NewSet 构建不可变判据集合。
func NewSet(cs []Criterion, p Params) *Set {
	ordered := make([]Criterion, len(cs))
	copy(ordered, cs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return criterionRank(ordered[i]) < criterionRank(ordered[j])
	})
	return &Set{
		criteria:  ordered,
		batchSize: p.BatchSize,
		workers:   p.Workers,
	}
}

// criterionRank 给出内置判据的固定评估顺序；未知判据排最后，保持相对顺序。
func criterionRank(c Criterion) int {
	switch c.(type) {
	case *Connectivity:
		return 0
	case *MaxWeight:
		return 1
	case *AllowedElements:
		return 2
	case *ForbiddenPatterns:
		return 3
	case *RequiredPatterns:
		return 4
	case *MinConjugation:
		return 5
	case *Expr:
		return 6
	default:
		return 7
	}
}

// Criteria 返回判据列表（调用方不得修改）。
func (s *Set) Criteria() []Criterion { return s.criteria }

// BatchSize 返回批大小（含默认值解析）。
func (s *Set) BatchSize() int {
	if s.batchSize > 0 {
		return s.batchSize
	}
	return defaultBatchSize
}

// Workers 返回并行度（含默认值解析）。
func (s *Set) Workers() int {
	if s.workers > 0 {
		return s.workers
	}
	n := runtime.GOMAXPROCS(0)
	if n > defaultMaxWorkers {
		n = defaultMaxWorkers
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Evaluate 评估单个候选，返回是否接受；拒绝时附带诊断类别。
// 任何内部失败都折算为拒绝，绝不越过本方法边界向上传播。
func (s *Set) Evaluate(ctx context.Context, cand core.Candidate) (bool, core.Reason) {
	mol, err := chem.ParseSMILES(cand.SMILES)
	if err != nil {
		return false, core.ReasonMalformed
	}
	for _, c := range s.criteria {
		switch c.Check(ctx, mol, cand) {
		case VerdictReject, VerdictError:
			return false, c.Reason()
		}
	}
	return true, ""
}

// EvaluateBatch 顺序评估一个 Batch 内的全部候选（批内顺序保持），产出 Outcome。
func (s *Set) EvaluateBatch(ctx context.Context, b core.Batch) *core.Outcome {
	out := &core.Outcome{
		Batch:    b.Index,
		Accepted: make([]core.Candidate, 0, len(b.Candidates)),
	}
	for _, cand := range b.Candidates {
		ok, reason := s.Evaluate(ctx, cand)
		if ok {
			out.Accepted = append(out.Accepted, cand)
			continue
		}
		out.Rejected++
		if out.Reasons == nil {
			out.Reasons = make(map[core.Reason]int, 4)
		}
		out.Reasons[reason]++
	}
	return out
}
