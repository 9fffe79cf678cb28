package chem

import "fmt"

// Pattern 是编译后的线性 SMARTS 子集模式：一条原子基元链 + 链上的键基元。
// 匹配语义是分子图上的路径匹配（路径上的原子两两不同）。
//
// 原子基元：
//   - '*' 任意原子；'a' 任意芳香原子；'A' 任意脂肪原子
//   - 大写元素符号（Cl/Br 双字母优先）为脂肪原子；小写 b c n o p s 为芳香原子
//   - [prim] / [!prim] 方括号内同上，'!' 取反
//
// 键基元：'-' 单键、'=' 双键、'#' 三键、':' 芳香键、'~' 任意键；
// 省略时为“单键或芳香键”。
type Pattern struct {
	src   string
	atoms []patternAtom
	bonds []patternBond
}

type patternAtom struct {
	any      bool
	aromatic int // -1 不限 / 0 脂肪 / 1 芳香
	element  string
	negate   bool
}

type patternBond struct {
	any      bool
	aromatic bool
	order    int // 0 = 单键或芳香键（缺省）
}

// Source 返回模式原文。
func (p *Pattern) Source() string { return p.src }

// CompilePattern 编译一条线性模式。编译失败返回 error；
// 按判据层的容错策略，编译失败的模式在评估时统一按拒绝处理，而非中止运行。
func CompilePattern(expr string) (*Pattern, error) {
	if expr == "" {
		return nil, fmt.Errorf("empty pattern")
	}
	p := &Pattern{src: expr}
	pending := patternBond{}
	pendingSet := false

	i := 0
	for i < len(expr) {
		c := expr[i]
		switch {
		case c == '-' || c == '/' || c == '\\':
			pending, pendingSet = patternBond{order: 1}, true
			i++
		case c == '=':
			pending, pendingSet = patternBond{order: 2}, true
			i++
		case c == '#':
			pending, pendingSet = patternBond{order: 3}, true
			i++
		case c == ':':
			pending, pendingSet = patternBond{aromatic: true}, true
			i++
		case c == '~':
			pending, pendingSet = patternBond{any: true}, true
			i++
		case c == '[':
			end := indexByteFrom(expr, i, ']')
			if end < 0 {
				return nil, fmt.Errorf("pattern %q: unclosed '['", expr)
			}
			pa, err := compileAtomPrim(expr[i+1 : end])
			if err != nil {
				return nil, fmt.Errorf("pattern %q: %w", expr, err)
			}
			p.pushAtom(pa, pending, pendingSet)
			pendingSet = false
			i = end + 1
		default:
			pa, n, err := compileBareAtom(expr, i)
			if err != nil {
				return nil, fmt.Errorf("pattern %q: %w", expr, err)
			}
			p.pushAtom(pa, pending, pendingSet)
			pendingSet = false
			i = n
		}
	}
	if len(p.atoms) == 0 {
		return nil, fmt.Errorf("pattern %q: no atoms", expr)
	}
	if pendingSet {
		return nil, fmt.Errorf("pattern %q: dangling bond symbol", expr)
	}
	return p, nil
}

func (p *Pattern) pushAtom(pa patternAtom, pending patternBond, pendingSet bool) {
	if len(p.atoms) > 0 {
		if !pendingSet {
			pending = patternBond{} // 缺省：单键或芳香键
		}
		p.bonds = append(p.bonds, pending)
	}
	p.atoms = append(p.atoms, pa)
}

func compileBareAtom(expr string, i int) (patternAtom, int, error) {
	if i+1 < len(expr) {
		two := expr[i : i+2]
		if two == "Cl" || two == "Br" {
			return patternAtom{aromatic: 0, element: two}, i + 2, nil
		}
	}
	c := expr[i]
	switch {
	case c == '*':
		return patternAtom{any: true, aromatic: -1}, i + 1, nil
	case c == 'a':
		return patternAtom{any: true, aromatic: 1}, i + 1, nil
	case c == 'A':
		return patternAtom{any: true, aromatic: 0}, i + 1, nil
	default:
		if el, ok := aromaticSubset[c]; ok {
			return patternAtom{aromatic: 1, element: el}, i + 1, nil
		}
		el := string(c)
		if organicSubset[el] {
			return patternAtom{aromatic: 0, element: el}, i + 1, nil
		}
	}
	return patternAtom{}, i, fmt.Errorf("unexpected character %q at %d", c, i)
}

func compileAtomPrim(body string) (patternAtom, error) {
	if body == "" {
		return patternAtom{}, fmt.Errorf("empty bracket primitive")
	}
	negate := false
	if body[0] == '!' {
		negate = true
		body = body[1:]
	}
	pa, n, err := compileBareAtom(body, 0)
	if err != nil {
		return patternAtom{}, err
	}
	if n != len(body) {
		return patternAtom{}, fmt.Errorf("trailing %q in bracket primitive", body[n:])
	}
	pa.negate = negate
	return pa, nil
}

// Matches 报告分子中是否存在与模式匹配的路径。
func (p *Pattern) Matches(m *Molecule) bool {
	if m == nil || len(p.atoms) == 0 {
		return false
	}
	used := make([]bool, len(m.Atoms))
	for start := range m.Atoms {
		if p.matchFrom(m, start, 0, used) {
			return true
		}
	}
	return false
}

func (p *Pattern) matchFrom(m *Molecule, atom, pos int, used []bool) bool {
	if !p.atoms[pos].match(m.Atoms[atom]) {
		return false
	}
	if pos == len(p.atoms)-1 {
		return true
	}
	used[atom] = true
	defer func() { used[atom] = false }()

	for _, bi := range m.BondsAt(atom) {
		b := m.Bonds[bi]
		if !p.bonds[pos].match(b) {
			continue
		}
		next := m.Other(b, atom)
		if used[next] {
			continue
		}
		if p.matchFrom(m, next, pos+1, used) {
			return true
		}
	}
	return false
}

func (pa patternAtom) match(a Atom) bool {
	ok := true
	if pa.aromatic == 1 && !a.Aromatic {
		ok = false
	}
	if pa.aromatic == 0 && a.Aromatic {
		ok = false
	}
	if ok && !pa.any && pa.element != a.Element {
		ok = false
	}
	if pa.negate {
		return !ok
	}
	return ok
}

func (pb patternBond) match(b Bond) bool {
	switch {
	case pb.any:
		return true
	case pb.aromatic:
		return b.Aromatic
	case pb.order == 0:
		return b.Aromatic || b.Order == 1
	default:
		return !b.Aromatic && b.Order == pb.order
	}
}

func indexByteFrom(s string, from int, c byte) int {
	for i := from; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}
