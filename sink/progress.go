package sink

// Observer 观察筛选进度：接受/拒绝计数单调递增，纯观测、无控制反馈。
// 由流水线的单一消费任务在每个 Outcome 之后调用，实现无需考虑并发。
type Observer interface {
	OnProgress(accepted, rejected int64)
}

// NopObserver 是空实现。
type NopObserver struct{}

func (NopObserver) OnProgress(int64, int64) {}

// ObserverFunc 允许用函数字面量充当 Observer。
type ObserverFunc func(accepted, rejected int64)

func (f ObserverFunc) OnProgress(accepted, rejected int64) { f(accepted, rejected) }
