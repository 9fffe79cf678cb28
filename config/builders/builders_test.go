package builders

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rushteam/screenkit/config"
	"github.com/rushteam/screenkit/core"
	"github.com/rushteam/screenkit/pipeline"
)

const screenYAML = `
screen:
  name: test-screen
  batch_size: 16
  workers: 2
  criteria:
    - type: connectivity
      config:
        allow_disconnected: false
    - type: weight.max
      config:
        max: 500
    - type: elements.allowed
      config:
        elements: [C, H, O, N]
    - type: pattern.required
      config:
        patterns: ["a"]
    - type: conjugation.min
      config:
        min: 2
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "screen.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConfigDrivenSet(t *testing.T) {
	cfg, err := pipeline.LoadFromYAML(writeConfig(t, screenYAML))
	if err != nil {
		t.Fatalf("LoadFromYAML error = %v", err)
	}
	if err := config.ValidateScreenConfig(cfg); err != nil {
		t.Fatalf("ValidateScreenConfig error = %v", err)
	}
	set, err := cfg.BuildSet(config.DefaultFactory())
	if err != nil {
		t.Fatalf("BuildSet error = %v", err)
	}

	if set.BatchSize() != 16 || set.Workers() != 2 {
		t.Errorf("batch/workers = %d/%d, want 16/2", set.BatchSize(), set.Workers())
	}
	if got := len(set.Criteria()); got != 5 {
		t.Fatalf("criteria = %d, want 5", got)
	}

	ctx := context.Background()
	tests := []struct {
		smiles string
		want   bool
		reason core.Reason
	}{
		{smiles: "c1ccccc1", want: true},
		{smiles: "CCO", want: false, reason: core.ReasonSubstructure},
		{smiles: "C.C", want: false, reason: core.ReasonConnectivity},
		{smiles: "c1ccc(Cl)cc1", want: false, reason: core.ReasonElement},
	}
	for _, tt := range tests {
		ok, reason := set.Evaluate(ctx, core.Candidate{SMILES: tt.smiles})
		if ok != tt.want {
			t.Errorf("Evaluate(%q) = %v, want %v", tt.smiles, ok, tt.want)
		}
		if !tt.want && reason != tt.reason {
			t.Errorf("Evaluate(%q) reason = %s, want %s", tt.smiles, reason, tt.reason)
		}
	}
}

func TestValidate_UnknownType(t *testing.T) {
	cfg, err := pipeline.LoadFromYAML(writeConfig(t, `
screen:
  criteria:
    - type: no.such.criterion
`))
	if err != nil {
		t.Fatalf("LoadFromYAML error = %v", err)
	}
	verr := config.ValidateScreenConfig(cfg)
	if verr == nil {
		t.Fatal("expected validation error for unknown criterion type")
	}
	if !strings.Contains(verr.Error(), "weight.max") {
		t.Errorf("error %q should list the supported types", verr)
	}
}

func TestBuild_Errors(t *testing.T) {
	if _, err := BuildMaxWeight(map[string]interface{}{}); err == nil {
		t.Error("weight.max without max should fail")
	}
	if _, err := BuildMaxWeight(map[string]interface{}{"max": -1}); err == nil {
		t.Error("weight.max with non-positive max should fail")
	}
	if _, err := BuildExpr(map[string]interface{}{}); err == nil {
		t.Error("expr without expression should fail")
	}
	if _, err := BuildExpr(map[string]interface{}{"expression": "mol.weight <"}); err == nil {
		t.Error("expr with broken expression should fail")
	}
}

func TestBuild_ExprCriterion(t *testing.T) {
	c, err := BuildExpr(map[string]interface{}{"expression": "mol.fragments == 1"})
	if err != nil {
		t.Fatalf("BuildExpr error = %v", err)
	}
	if c.Name() == "" {
		t.Error("criterion name should not be empty")
	}
}
