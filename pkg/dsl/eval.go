package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/screenkit/chem"
	"github.com/rushteam/screenkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("mol", cel.DynType),
		cel.Variable("candidate", cel.DynType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	if celEnv == nil && err == nil {
		err = fmt.Errorf("cel env not initialized")
	}
	return celEnv, err
}

// Program 是针对分子属性的 CEL 表达式解释器。
// 表达式在 Compile 时编译一次，之后可被多个 worker 并发 Eval——
// 同一条表达式会以流速率逐候选执行，逐次编译付不起这个开销。
//
// 表达式语法（CEL 标准语法），可用变量：
//   - mol.weight / mol.atoms / mol.bonds / mol.fragments / mol.conjugated
//   - mol.aromatic（是否含芳香原子）/ mol.elements（元素符号列表）
//   - candidate.id / candidate.smiles
//
// 示例：
//   - `mol.weight < 300.0 && mol.conjugated >= 2`
//   - `"N" in mol.elements`
//   - `candidate.smiles.contains("[Se]")`
type Program struct {
	src string
	prg cel.Program
}

// Compile 编译 DSL 表达式。表达式必须返回布尔值。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %v", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %v", err)
	}
	return &Program{src: expr, prg: prg}, nil
}

// Source 返回表达式原文。
func (p *Program) Source() string { return p.src }

// Eval 对一个候选求值，返回布尔结果。
// 求值失败（含分子量计算失败、表达式运行时错误、非布尔结果）返回 error，
// 由判据层按“错误即拒绝”映射，不向上传播。
func (p *Program) Eval(mol *chem.Molecule, cand core.Candidate) (bool, error) {
	input, err := buildInput(mol, cand)
	if err != nil {
		return false, err
	}
	out, _, err := p.prg.Eval(input)
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(mol *chem.Molecule, cand core.Candidate) (map[string]interface{}, error) {
	weight, err := chem.MolWeight(mol)
	if err != nil {
		return nil, err
	}

	elements := make([]string, 0, 4)
	aromatic := false
	seen := make(map[string]bool, 4)
	for _, a := range mol.Atoms {
		if a.Aromatic {
			aromatic = true
		}
		if !seen[a.Element] {
			seen[a.Element] = true
			elements = append(elements, a.Element)
		}
	}

	return map[string]interface{}{
		"mol": map[string]interface{}{
			"weight":     weight,
			"atoms":      len(mol.Atoms),
			"bonds":      len(mol.Bonds),
			"fragments":  mol.Fragments,
			"conjugated": chem.ConjugatedBondCount(mol),
			"aromatic":   aromatic,
			"elements":   elements,
		},
		"candidate": map[string]interface{}{
			"id":     cand.ID,
			"smiles": cand.SMILES,
		},
	}, nil
}
