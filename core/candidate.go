package core

// Candidate 是筛选链路中的统一承载结构：一条待筛选的候选记录。
// ID 是上游数据源分配的标识符；SMILES 是主字段，筛选只消费主字段。
// Candidate 没有内容之外的身份：相同内容的候选可以重复出现，筛选不去重。
type Candidate struct {
	ID     string
	SMILES string
}

// Batch 是派发给单个 worker 的一组候选，是并行评估的最小调度单元。
// 大小 ≤ 配置的批大小；一次运行的最后一个 Batch 可以不满；Batch 之间互不重叠。
type Batch struct {
	Index      int
	Candidates []Candidate
}

// Reason 标记候选被拒绝的类别，用于诊断计数。
type Reason string

const (
	ReasonMalformed    Reason = "malformed"    // 无法解析为内部表示
	ReasonConnectivity Reason = "connectivity" // 含不允许的断连片段
	ReasonWeight       Reason = "weight"       // 分子量超过上限
	ReasonElement      Reason = "element"      // 含允许集合之外的元素
	ReasonSubstructure Reason = "substructure" // 禁止/必需子结构判据不满足
	ReasonTopology     Reason = "topology"     // 共轭多重键计数低于下限
	ReasonExpr         Reason = "expr"         // 表达式判据不满足
)

// Outcome 是一个 Batch 的筛选结果：通过全部判据的候选子集 + 按类别的拒绝计数。
// Accepted 保持批内顺序；产出 Outcome 之后任何组件都不再持有原始 Batch。
type Outcome struct {
	Batch    int
	Accepted []Candidate
	Rejected int
	Reasons  map[Reason]int
}

// Summary 是一次运行的最终汇总。只由 sink 侧的单一消费方累积，
// 不存在跨 worker 的共享可变计数。
type Summary struct {
	Seen     int64
	Accepted int64
	Rejected int64
	Reasons  map[Reason]int64
}

// Add 将一个 Outcome 累积进 Summary。
func (s *Summary) Add(out *Outcome) {
	if out == nil {
		return
	}
	s.Seen += int64(len(out.Accepted) + out.Rejected)
	s.Accepted += int64(len(out.Accepted))
	s.Rejected += int64(out.Rejected)
	if len(out.Reasons) > 0 && s.Reasons == nil {
		s.Reasons = make(map[Reason]int64, len(out.Reasons))
	}
	for r, n := range out.Reasons {
		s.Reasons[r] += int64(n)
	}
}
