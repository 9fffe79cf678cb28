package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rushteam/screenkit/chem"
	"github.com/rushteam/screenkit/core"
	"github.com/rushteam/screenkit/criteria"
	"github.com/rushteam/screenkit/sink"
	"github.com/rushteam/screenkit/source"
)

// mixedInput 生成交替的芳香/非芳香候选行，一行一条。
func mixedInput(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			fmt.Fprintf(&sb, "c1ccccc1 arene-%d\n", i)
		} else {
			fmt.Fprintf(&sb, "CCO alkane-%d\n", i)
		}
	}
	return sb.String()
}

func aromaticSet(t *testing.T, batchSize, workers int) *criteria.Set {
	t.Helper()
	return criteria.NewSet([]criteria.Criterion{
		&criteria.Connectivity{},
		criteria.NewRequiredPatterns([]string{"a"}),
	}, criteria.Params{BatchSize: batchSize, Workers: workers})
}

func runScreen(t *testing.T, input string, set *criteria.Set) (*core.Summary, *sink.MemorySink, error) {
	t.Helper()
	src, err := source.Open(strings.NewReader(input))
	if err != nil {
		t.Fatalf("source.Open error = %v", err)
	}
	out := sink.NewMemorySink()
	screen := &Screen{Criteria: set, Source: src, Sink: out}
	summary, err := screen.Run(context.Background())
	return summary, out, err
}

func TestRun_MissingFields(t *testing.T) {
	screen := &Screen{}
	if _, err := screen.Run(context.Background()); err == nil {
		t.Error("expected error when criteria/source/sink are unset")
	}
}

func TestRun_SummaryCounts(t *testing.T) {
	const n = 100
	summary, out, err := runScreen(t, mixedInput(n), aromaticSet(t, 7, 4))
	if err != nil {
		t.Fatalf("Run error = %v", err)
	}
	if summary.Seen != n {
		t.Errorf("seen = %d, want %d", summary.Seen, n)
	}
	if summary.Accepted != n/2 || summary.Rejected != n/2 {
		t.Errorf("accepted/rejected = %d/%d, want %d/%d", summary.Accepted, summary.Rejected, n/2, n/2)
	}
	if summary.Reasons[core.ReasonSubstructure] != n/2 {
		t.Errorf("substructure rejections = %d, want %d", summary.Reasons[core.ReasonSubstructure], n/2)
	}
	if got := len(out.Lines()); got != n/2 {
		t.Errorf("sink lines = %d, want %d", got, n/2)
	}
}

func TestRun_ParallelMatchesSequential(t *testing.T) {
	input := mixedInput(200)

	_, seqSink, err := runScreen(t, input, aromaticSet(t, 13, 1))
	if err != nil {
		t.Fatalf("sequential Run error = %v", err)
	}
	_, parSink, err := runScreen(t, input, aromaticSet(t, 13, 8))
	if err != nil {
		t.Fatalf("parallel Run error = %v", err)
	}

	seq, par := seqSink.Lines(), parSink.Lines()
	sort.Strings(seq)
	sort.Strings(par)
	if len(seq) != len(par) {
		t.Fatalf("accepted counts differ: %d vs %d", len(seq), len(par))
	}
	for i := range seq {
		if seq[i] != par[i] {
			t.Fatalf("accepted sets differ at %d: %q vs %q", i, seq[i], par[i])
		}
	}
}

func TestRun_BatchSizeInvariance(t *testing.T) {
	input := mixedInput(50)
	for _, bs := range []int{1, 10, 10000} {
		summary, _, err := runScreen(t, input, aromaticSet(t, bs, 3))
		if err != nil {
			t.Fatalf("batchSize=%d: Run error = %v", bs, err)
		}
		if summary.Accepted != 25 || summary.Rejected != 25 {
			t.Errorf("batchSize=%d: accepted/rejected = %d/%d, want 25/25",
				bs, summary.Accepted, summary.Rejected)
		}
	}
}

func TestRun_MalformedFramingAborts(t *testing.T) {
	// 第三行破坏两列帧格式：整个运行中止，但已刷出的部分输出仍然有效
	input := "c1ccccc1 a\nc1ccncc1 b\nbroken-line\nc1ccccc1 d\n"
	summary, out, err := runScreen(t, input, aromaticSet(t, 1, 1))
	if err == nil {
		t.Fatal("expected run to abort on malformed framing")
	}
	if !core.IsMalformedRecord(err) {
		t.Errorf("error = %v, want malformed record", err)
	}
	if got := len(out.Lines()); got > 2 {
		t.Errorf("sink lines = %d, want at most the 2 records before the bad line", got)
	}
	if summary != nil && summary.Accepted != int64(len(out.Lines())) {
		t.Errorf("summary accepted = %d, sink lines = %d", summary.Accepted, len(out.Lines()))
	}
}

func TestRun_CancelDrainsInFlight(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src, err := source.Open(strings.NewReader(mixedInput(1000)))
	if err != nil {
		t.Fatal(err)
	}
	out := sink.NewMemorySink()
	var seen atomic.Int64
	screen := &Screen{
		Criteria: aromaticSet(t, 1, 2),
		Source:   src,
		Sink:     out,
		Observer: sink.ObserverFunc(func(accepted, rejected int64) {
			if seen.Add(1) == 3 {
				cancel()
			}
		}),
	}
	summary, err := screen.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	if summary.Seen >= 1000 {
		t.Errorf("seen = %d, expected cancellation before the full input", summary.Seen)
	}
	// 取消后已消费的 Outcome 与汇中的行保持一致
	if summary.Accepted < int64(len(out.Lines()))-2 {
		t.Errorf("summary accepted = %d, sink lines = %d", summary.Accepted, len(out.Lines()))
	}
}

// flakyCriterion 前 failures 次 Check 触发 panic，之后正常接受。
type flakyCriterion struct {
	failures int32
	calls    atomic.Int32
}

func (c *flakyCriterion) Name() string        { return "flaky" }
func (c *flakyCriterion) Reason() core.Reason { return core.ReasonExpr }

func (c *flakyCriterion) Check(context.Context, *chem.Molecule, core.Candidate) criteria.Verdict {
	if c.calls.Add(1) <= c.failures {
		panic("transient worker failure")
	}
	return criteria.VerdictAccept
}

func TestRun_PanicRetriedOnce(t *testing.T) {
	set := criteria.NewSet([]criteria.Criterion{&flakyCriterion{failures: 1}},
		criteria.Params{BatchSize: 100, Workers: 1})
	summary, out, err := runScreen(t, "CCO a\nCCO b\n", set)
	if err != nil {
		t.Fatalf("Run error = %v, want panic absorbed by retry", err)
	}
	if summary.Accepted != 2 || len(out.Lines()) != 2 {
		t.Errorf("accepted = %d, sink lines = %d, want 2/2", summary.Accepted, len(out.Lines()))
	}
}

func TestRun_PanicTwiceFailsFast(t *testing.T) {
	set := criteria.NewSet([]criteria.Criterion{&flakyCriterion{failures: 1 << 30}},
		criteria.Params{BatchSize: 100, Workers: 1})
	_, _, err := runScreen(t, "CCO a\n", set)
	if err == nil {
		t.Fatal("expected run to fail after second panic")
	}
	de := core.GetDomainError(err)
	if de == nil || de.Code != core.ErrorCodeInternalError {
		t.Errorf("error = %v, want internal error domain code", err)
	}
}

func TestRun_EmptyInput(t *testing.T) {
	summary, out, err := runScreen(t, "", aromaticSet(t, 10, 2))
	if err != nil {
		t.Fatalf("Run error = %v", err)
	}
	if summary.Seen != 0 || summary.Accepted != 0 || len(out.Lines()) != 0 {
		t.Errorf("summary = %+v, sink lines = %d, want all zero", summary, len(out.Lines()))
	}
}
