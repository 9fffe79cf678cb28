// Package sink 提供结果汇：按到达序把接受的候选逐行追加到输出。
// 输出句柄由汇独占；worker 从不直接写输出。
package sink

import (
	"bufio"
	"context"
	"os"
	"sync"

	"github.com/rushteam/screenkit/core"
)

// Sink 消费已完成的筛选结果。Append 只接收接受的候选；
// 调用方（流水线的单一消费任务）在每个 Outcome 之后调用 Flush，
// 保证运行被打断时输出里只有完整的行。
type Sink interface {
	Append(ctx context.Context, accepted []core.Candidate) error
	Flush() error
	Close() error
}

// FileSink 把接受候选的主字段逐行追加到文件：纯文本、一行一条、
// 只追加不回写，部分输出随时可用。
type FileSink struct {
	f        *os.File
	w        *bufio.Writer
	accepted int64
	closed   bool
}

// NewFileSink 以追加模式打开（必要时创建）输出文件。
func NewFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &FileSink{f: f, w: bufio.NewWriter(f)}, nil
}

func (s *FileSink) Append(_ context.Context, accepted []core.Candidate) error {
	for _, cand := range accepted {
		if _, err := s.w.WriteString(cand.SMILES); err != nil {
			return err
		}
		if err := s.w.WriteByte('\n'); err != nil {
			return err
		}
		s.accepted++
	}
	return nil
}

func (s *FileSink) Flush() error { return s.w.Flush() }

// Accepted 返回已写出的候选数。
func (s *FileSink) Accepted() int64 { return s.accepted }

func (s *FileSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.w.Flush(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}

// MemorySink 把接受的候选收进内存，用于测试与原型。
type MemorySink struct {
	mu    sync.Mutex
	lines []string
}

func NewMemorySink() *MemorySink { return &MemorySink{} }

func (s *MemorySink) Append(_ context.Context, accepted []core.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cand := range accepted {
		s.lines = append(s.lines, cand.SMILES)
	}
	return nil
}

func (s *MemorySink) Flush() error { return nil }
func (s *MemorySink) Close() error { return nil }

// Lines 返回已收到的主字段列表（副本）。
func (s *MemorySink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}
