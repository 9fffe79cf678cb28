package source

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rushteam/screenkit/core"
)

func drain(t *testing.T, s Source) []core.Candidate {
	t.Helper()
	var out []core.Candidate
	for {
		c, err := s.Next(context.Background())
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("Next error = %v", err)
		}
		out = append(out, c)
	}
}

func TestLineSource_Plain(t *testing.T) {
	input := "CCO ethanol\n\nc1ccccc1 benzene\n   \nC.C pair\n"
	s, err := Open(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Open error = %v", err)
	}
	got := drain(t, s)
	want := []core.Candidate{
		{SMILES: "CCO", ID: "ethanol"},
		{SMILES: "c1ccccc1", ID: "benzene"},
		{SMILES: "C.C", ID: "pair"},
	}
	if len(got) != len(want) {
		t.Fatalf("candidates = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("candidate[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestLineSource_Gzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte("CCO ethanol\nCC#N acetonitrile\n")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	s, err := Open(&buf)
	if err != nil {
		t.Fatalf("Open error = %v", err)
	}
	defer s.Close()
	got := drain(t, s)
	if len(got) != 2 || got[1].ID != "acetonitrile" {
		t.Errorf("candidates = %+v, want 2 records ending with acetonitrile", got)
	}
}

func TestLineSource_PeekDoesNotConsume(t *testing.T) {
	s, err := Open(strings.NewReader("CCO ethanol\nO water\n"))
	if err != nil {
		t.Fatalf("Open error = %v", err)
	}
	ctx := context.Background()

	p1, err := s.Peek(ctx)
	if err != nil {
		t.Fatalf("Peek error = %v", err)
	}
	p2, err := s.Peek(ctx)
	if err != nil {
		t.Fatalf("second Peek error = %v", err)
	}
	if p1 != p2 {
		t.Errorf("repeated Peek = %+v then %+v", p1, p2)
	}

	n1, err := s.Next(ctx)
	if err != nil {
		t.Fatalf("Next error = %v", err)
	}
	if n1 != p1 {
		t.Errorf("Next after Peek = %+v, want %+v", n1, p1)
	}
	n2, err := s.Next(ctx)
	if err != nil || n2.ID != "water" {
		t.Errorf("Next = %+v, %v, want water record", n2, err)
	}
	if _, err := s.Next(ctx); !errors.Is(err, io.EOF) {
		t.Errorf("Next at end = %v, want io.EOF", err)
	}
}

func TestLineSource_MalformedFraming(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "one field", input: "CCO ethanol\nCCC\n"},
		{name: "three fields", input: "CCO ethanol extra\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("Open error = %v", err)
			}
			var lastErr error
			for {
				_, lastErr = s.Next(context.Background())
				if lastErr != nil {
					break
				}
			}
			if !core.IsMalformedRecord(lastErr) {
				t.Errorf("error = %v, want malformed record", lastErr)
			}
		})
	}
}

func TestLineSource_PeekSurfacesFramingError(t *testing.T) {
	s, err := Open(strings.NewReader("only-one-field\n"))
	if err != nil {
		t.Fatalf("Open error = %v", err)
	}
	if _, err := s.Peek(context.Background()); !core.IsMalformedRecord(err) {
		t.Errorf("Peek error = %v, want malformed record", err)
	}
	// Next 复用同一个预读结果，错误保持一致
	if _, err := s.Next(context.Background()); !core.IsMalformedRecord(err) {
		t.Errorf("Next error = %v, want malformed record", err)
	}
}

func TestOpenFile_GzipAndPlain(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "cands.smi")
	if err := os.WriteFile(plain, []byte("CCO ethanol\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := OpenFile(plain)
	if err != nil {
		t.Fatalf("OpenFile error = %v", err)
	}
	if got := drain(t, s); len(got) != 1 || got[0].ID != "ethanol" {
		t.Errorf("plain file candidates = %+v", got)
	}
	s.Close()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Write([]byte("c1ccccc1 benzene\n"))
	zw.Close()
	gz := filepath.Join(dir, "cands.smi.gz")
	if err := os.WriteFile(gz, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	gs, err := OpenFile(gz)
	if err != nil {
		t.Fatalf("OpenFile gzip error = %v", err)
	}
	defer gs.Close()
	if got := drain(t, gs); len(got) != 1 || got[0].SMILES != "c1ccccc1" {
		t.Errorf("gzip file candidates = %+v", got)
	}
}

func TestLineSource_ContextCancelled(t *testing.T) {
	s, err := Open(strings.NewReader("CCO ethanol\n"))
	if err != nil {
		t.Fatalf("Open error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Next with cancelled ctx = %v, want context.Canceled", err)
	}
}
