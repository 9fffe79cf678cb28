// Package source 提供候选输入源：前向只读、单趟、惰性的行迭代。
// 上游的获取/传输是外部协作者，这里只要求它以 io.Reader 形态暴露。
package source

import (
	"bufio"
	"compress/gzip"
	"context"
	"io"
	"os"
	"strings"

	"github.com/rushteam/screenkit/core"
)

// Source 是前向只读的候选序列。Next 消费一条记录；Peek 预读一条但不消费，
// 用于在提交整趟迭代之前校验源。序列耗尽时两者都返回 io.EOF。
type Source interface {
	Next(ctx context.Context) (core.Candidate, error)
	Peek(ctx context.Context) (core.Candidate, error)
}

// maxLineSize 单行上限。SMILES 很少超过几 KB，1MB 已经极其宽裕。
const maxLineSize = 1 << 20

// LineSource 从（可能 gzip 压缩的）字节流逐行产出候选。
//
// 输入流契约：每行一条记录，按空白切分恰好得到（主字段, 标识符）两列——
// 主字段在前。切不出两列是致命错误（上游违反了源契约），整个运行中止；
// 这与单条候选解析失败只拒绝该候选的策略刻意不同。
type LineSource struct {
	sc      *bufio.Scanner
	line    int
	peeked  *core.Candidate
	peekErr error
	hasPeek bool
	closers []io.Closer
}

// Open 将一个字节流包装为 LineSource。流首部带 gzip 魔数时透明解压。
func Open(r io.Reader) (*LineSource, error) {
	br := bufio.NewReader(r)
	var closers []io.Closer

	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, core.NewDomainErrorf(core.ModuleSource, core.ErrorCodeInvalidInput, "gzip: %v", err)
		}
		closers = append(closers, zr)
		sc := bufio.NewScanner(zr)
		sc.Buffer(make([]byte, 64*1024), maxLineSize)
		return &LineSource{sc: sc, closers: closers}, nil
	}

	sc := bufio.NewScanner(br)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)
	return &LineSource{sc: sc}, nil
}

// OpenFile 打开一个候选文件。以 .gz 结尾或带 gzip 魔数的文件透明解压。
func OpenFile(path string) (*LineSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	s, err := Open(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	s.closers = append(s.closers, f)
	return s, nil
}

// Next 返回下一条候选；序列耗尽时返回 io.EOF。
func (s *LineSource) Next(ctx context.Context) (core.Candidate, error) {
	if s.hasPeek {
		s.hasPeek = false
		if s.peekErr != nil {
			return core.Candidate{}, s.peekErr
		}
		return *s.peeked, nil
	}
	return s.read(ctx)
}

// Peek 预读下一条候选但不消费。
func (s *LineSource) Peek(ctx context.Context) (core.Candidate, error) {
	if !s.hasPeek {
		c, err := s.read(ctx)
		s.peeked, s.peekErr, s.hasPeek = &c, err, true
	}
	if s.peekErr != nil {
		return core.Candidate{}, s.peekErr
	}
	return *s.peeked, nil
}

// Line 返回最近一次读取所在的行号（从 1 开始）。
func (s *LineSource) Line() int { return s.line }

func (s *LineSource) read(ctx context.Context) (core.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return core.Candidate{}, err
	}
	for s.sc.Scan() {
		s.line++
		text := strings.TrimSpace(s.sc.Text())
		if text == "" {
			continue // 空行（常见于文件尾）跳过
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return core.Candidate{}, core.NewDomainErrorf(core.ModuleSource, core.ErrorCodeMalformedRecord,
				"line %d: expected 2 fields, got %d", s.line, len(fields))
		}
		return core.Candidate{SMILES: fields[0], ID: fields[1]}, nil
	}
	if err := s.sc.Err(); err != nil {
		return core.Candidate{}, err
	}
	return core.Candidate{}, io.EOF
}

// Close 释放底层资源（解压器、文件句柄）。
func (s *LineSource) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
