// Package pipeline 把筛选逻辑组织为固定形态的流式编排：
// 单一派发任务（Source → Batch）、固定大小的 worker 池（并发评估、完成序回收）、
// 单一消费任务（Outcome → Sink）。数据严格单向流动，任何组件都不持有全量数据。
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/screenkit/core"
	"github.com/rushteam/screenkit/criteria"
	"github.com/rushteam/screenkit/sink"
	"github.com/rushteam/screenkit/source"
)

// Screen 是一次筛选运行的编排器。
//
// 背压：批通道容量 = worker 数 + Prefetch，派发方在 worker 饱和且缓冲占满时
// 挂起在发送上，内存占用被限制在 O(批大小 × 在途批数)，与数据集大小无关。
//
// 顺序：Outcome 按完成序消费，不承诺与派发序一致；接受集合与完成序无关，
// 但输出序列不保证跨运行可复现（显式非目标）。
type Screen struct {
	Criteria *criteria.Set
	Source   source.Source
	Sink     sink.Sink

	// Observer 在每个 Outcome 之后收到单调递增的接受/拒绝计数；nil 时不上报。
	Observer sink.Observer

	// Prefetch 是批通道在 worker 数之外额外缓冲的批数，≤0 取默认值。
	Prefetch int
}

const defaultPrefetch = 2

// Run 执行整趟筛选，返回运行汇总。
//
// 取消发生在批边界：ctx 取消后不再派发新批，在途批运行完成并排空进 Sink，
// Run 返回 ctx 的错误。Sink 在所有路径上都会被关闭（含失败路径），
// 已刷出的部分输出始终有效。
func (s *Screen) Run(ctx context.Context) (*core.Summary, error) {
	if s.Criteria == nil || s.Source == nil || s.Sink == nil {
		return nil, core.NewDomainError(core.ModulePipeline, core.ErrorCodeInvalidInput,
			"pipeline: criteria, source and sink are all required")
	}
	defer s.Sink.Close()

	workers := s.Criteria.Workers()
	prefetch := s.Prefetch
	if prefetch <= 0 {
		prefetch = defaultPrefetch
	}
	batchSize := s.Criteria.BatchSize()

	obs := s.Observer
	if obs == nil {
		obs = sink.NopObserver{}
	}

	batches := make(chan core.Batch, workers+prefetch)
	outcomes := make(chan *core.Outcome, workers)

	eg, runCtx := errgroup.WithContext(ctx)

	// 派发方：切批后立即派发，从不物化全量列表。
	// 源帧格式错误从这里冒出并中止整个运行。
	eg.Go(func() error {
		defer close(batches)
		buf := make([]core.Candidate, 0, batchSize)
		index := 0
		dispatch := func() error {
			b := core.Batch{Index: index, Candidates: buf}
			index++
			select {
			case batches <- b:
				buf = make([]core.Candidate, 0, batchSize)
				return nil
			case <-runCtx.Done():
				return runCtx.Err()
			}
		}
		for {
			cand, err := s.Source.Next(runCtx)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return err
			}
			buf = append(buf, cand)
			if len(buf) == batchSize {
				if err := dispatch(); err != nil {
					return err
				}
			}
		}
		if len(buf) > 0 {
			return dispatch()
		}
		return nil
	})

	// worker 池：每个 worker 取批、整批评估、完成即回收。
	// 批在池的视角下是原子的：评估中途不挂起，取消只在批之间生效。
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		eg.Go(func() error {
			defer wg.Done()
			for b := range batches {
				out, err := s.evaluateBatch(runCtx, b)
				if err != nil {
					return err
				}
				// 无条件投递：消费方保证排空 outcomes，在途结果不会丢
				outcomes <- out
				if err := runCtx.Err(); err != nil {
					return err
				}
			}
			return nil
		})
	}
	go func() {
		wg.Wait()
		close(outcomes)
	}()

	// 消费方：到达序消费，逐 Outcome 刷盘，独占推进计数。
	// 出错后继续排空通道（只丢弃不处理），避免 worker 阻塞在投递上。
	summary := &core.Summary{Reasons: make(map[core.Reason]int64)}
	eg.Go(func() error {
		var consumeErr error
		for out := range outcomes {
			if consumeErr != nil {
				continue
			}
			if err := s.Sink.Append(runCtx, out.Accepted); err != nil {
				consumeErr = err
				continue
			}
			if err := s.Sink.Flush(); err != nil {
				consumeErr = err
				continue
			}
			summary.Add(out)
			obs.OnProgress(summary.Accepted, summary.Rejected)
		}
		return consumeErr
	})

	if err := eg.Wait(); err != nil {
		return summary, err
	}
	return summary, nil
}

// evaluateBatch 评估一个批。worker 崩溃（panic）时在原地重试一次，
// 第二次失败让整个运行快速失败——静默丢批会破坏完整性保证。
func (s *Screen) evaluateBatch(ctx context.Context, b core.Batch) (*core.Outcome, error) {
	out, err := s.tryBatch(ctx, b)
	if err == nil {
		return out, nil
	}
	out, err = s.tryBatch(ctx, b)
	if err == nil {
		return out, nil
	}
	return nil, core.NewDomainErrorf(core.ModulePipeline, core.ErrorCodeInternalError,
		"batch %d failed twice: %v", b.Index, err)
}

func (s *Screen) tryBatch(ctx context.Context, b core.Batch) (out *core.Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker panic: %v", r)
		}
	}()
	return s.Criteria.EvaluateBatch(ctx, b), nil
}
