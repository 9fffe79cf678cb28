// Package screenkit 是一个流式候选筛选工具包（Screening Kit）。
//
// 设计要点：
// - Stream-first: 源 → 批派发 → worker 池 → 汇，全程有界内存，从不物化全量数据
// - Criteria-first: 判据不可变、按固定顺序短路组合，“错误即拒绝”显式化为 Verdict
// - 完成序回收: 接受集合与求值顺序无关，输出序列不承诺跨运行可复现
package screenkit

import (
	"github.com/rushteam/screenkit/criteria"
	"github.com/rushteam/screenkit/pipeline"
)

// 轻量 facade：便于用户直接 import "screenkit" 使用核心抽象。
type Screen = pipeline.Screen
type Config = pipeline.Config
type Criterion = criteria.Criterion
type Set = criteria.Set
type Verdict = criteria.Verdict

const (
	VerdictAccept = criteria.VerdictAccept
	VerdictReject = criteria.VerdictReject
	VerdictError  = criteria.VerdictError
)
