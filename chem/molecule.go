// Package chem 提供筛选判据所需的最小化学计算：SMILES 子集解析、
// 分子量/元素集合/共轭多重键计数，以及线性 SMARTS 子集的子结构匹配。
// 全部为进程内纯计算，无外部依赖；解析失败以 error 返回，绝不 panic。
package chem

import (
	"fmt"
	"strings"
)

// Atom 是解析后的一个原子。Element 为规范化元素符号（如 "C"、"Cl"）。
type Atom struct {
	Element   string
	Aromatic  bool
	Charge    int
	HCount    int  // 方括号中显式指定的氢数
	HasHCount bool // 是否显式指定了氢数（[CH3] 等）
}

// Bond 是两个原子之间的一条键。Order 为 1/2/3；芳香键 Aromatic 为 true，Order 为 1。
type Bond struct {
	From, To int
	Order    int
	Aromatic bool
}

// Molecule 是候选的内部表示：原子、键和断连片段数。
// 解析完成后不可变，可被多个 worker 无锁共享读取。
type Molecule struct {
	Atoms     []Atom
	Bonds     []Bond
	Fragments int

	adj [][]int // 原子 -> 关联键下标
}

// BondsAt 返回原子 idx 关联的键下标。
func (m *Molecule) BondsAt(idx int) []int {
	if idx < 0 || idx >= len(m.adj) {
		return nil
	}
	return m.adj[idx]
}

// Other 返回键 b 上与原子 idx 相对的另一端原子。
func (m *Molecule) Other(b Bond, idx int) int {
	if b.From == idx {
		return b.To
	}
	return b.From
}

type ringOpen struct {
	atom     int
	order    int
	aromatic bool
	hasBond  bool
}

// 有机子集中可以不带方括号书写的元素。
var organicSubset = map[string]bool{
	"B": true, "C": true, "N": true, "O": true, "P": true, "S": true,
	"F": true, "Cl": true, "Br": true, "I": true,
}

var aromaticSubset = map[byte]string{
	'b': "B", 'c': "C", 'n': "N", 'o': "O", 'p': "P", 's': "S",
}

// ParseSMILES 将一条 SMILES 子集字符串解析为 Molecule。
// 支持：有机子集原子、芳香小写原子、方括号原子（同位素/手性记号被忽略，
// 氢数与电荷被保留）、键符号 - = # : / \、环闭合数字与 %nn、分支括号、
// '.' 断连片段分隔符。无法解析时返回 error，调用方应将其视为该候选被拒绝。
func ParseSMILES(s string) (*Molecule, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty smiles")
	}

	m := &Molecule{Fragments: 1}
	prev := -1
	var stack []int
	rings := make(map[string]ringOpen)

	pendingOrder := 0
	pendingAromatic := false
	pendingSet := false

	addAtom := func(a Atom) {
		idx := len(m.Atoms)
		m.Atoms = append(m.Atoms, a)
		if prev >= 0 {
			b := resolveBond(m.Atoms[prev], a, pendingOrder, pendingAromatic, pendingSet)
			b.From, b.To = prev, idx
			m.Bonds = append(m.Bonds, b)
		}
		pendingOrder, pendingAromatic, pendingSet = 0, false, false
		prev = idx
	}

	closeRing := func(label string, pos int) error {
		if prev < 0 {
			return parseErr(pos, "ring closure before any atom")
		}
		open, ok := rings[label]
		if !ok {
			rings[label] = ringOpen{atom: prev, order: pendingOrder, aromatic: pendingAromatic, hasBond: pendingSet}
			pendingOrder, pendingAromatic, pendingSet = 0, false, false
			return nil
		}
		delete(rings, label)
		if open.atom == prev {
			return parseErr(pos, "ring closure to self")
		}
		order, arom, set := pendingOrder, pendingAromatic, pendingSet
		if !set && open.hasBond {
			order, arom, set = open.order, open.aromatic, true
		}
		b := resolveBond(m.Atoms[open.atom], m.Atoms[prev], order, arom, set)
		b.From, b.To = open.atom, prev
		m.Bonds = append(m.Bonds, b)
		pendingOrder, pendingAromatic, pendingSet = 0, false, false
		return nil
	}

	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == '(':
			if prev < 0 {
				return nil, parseErr(i, "branch before any atom")
			}
			stack = append(stack, prev)
			i++
		case c == ')':
			if len(stack) == 0 {
				return nil, parseErr(i, "unmatched ')'")
			}
			prev = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			i++
		case c == '.':
			if pendingSet {
				return nil, parseErr(i, "bond symbol before '.'")
			}
			prev = -1
			m.Fragments++
			i++
		case c == '-' || c == '/' || c == '\\':
			pendingOrder, pendingAromatic, pendingSet = 1, false, true
			i++
		case c == '=':
			pendingOrder, pendingAromatic, pendingSet = 2, false, true
			i++
		case c == '#':
			pendingOrder, pendingAromatic, pendingSet = 3, false, true
			i++
		case c == ':':
			pendingOrder, pendingAromatic, pendingSet = 1, true, true
			i++
		case c >= '0' && c <= '9':
			if err := closeRing(string(c), i); err != nil {
				return nil, err
			}
			i++
		case c == '%':
			if i+2 >= len(s) || !isDigit(s[i+1]) || !isDigit(s[i+2]) {
				return nil, parseErr(i, "'%' needs two digits")
			}
			if err := closeRing(s[i+1:i+3], i); err != nil {
				return nil, err
			}
			i += 3
		case c == '[':
			a, n, err := parseBracketAtom(s, i)
			if err != nil {
				return nil, err
			}
			addAtom(a)
			i = n
		case c == '*':
			addAtom(Atom{Element: "*"})
			i++
		default:
			a, n, err := parseOrganicAtom(s, i)
			if err != nil {
				return nil, err
			}
			addAtom(a)
			i = n
		}
	}

	if len(stack) > 0 {
		return nil, fmt.Errorf("unclosed branch")
	}
	if len(rings) > 0 {
		return nil, fmt.Errorf("unclosed ring bond")
	}
	if pendingSet {
		return nil, fmt.Errorf("dangling bond symbol")
	}

	m.adj = make([][]int, len(m.Atoms))
	for bi, b := range m.Bonds {
		m.adj[b.From] = append(m.adj[b.From], bi)
		m.adj[b.To] = append(m.adj[b.To], bi)
	}
	return m, nil
}

// resolveBond 决定一条键的阶与芳香性：显式符号优先；
// 未指定时，两端皆为芳香原子则为芳香键，否则为单键。
func resolveBond(a, b Atom, order int, aromatic, set bool) Bond {
	if set {
		return Bond{Order: order, Aromatic: aromatic}
	}
	if a.Aromatic && b.Aromatic {
		return Bond{Order: 1, Aromatic: true}
	}
	return Bond{Order: 1}
}

func parseOrganicAtom(s string, i int) (Atom, int, error) {
	// 双字母元素优先（Cl / Br）
	if i+1 < len(s) {
		two := s[i : i+2]
		if two == "Cl" || two == "Br" {
			return Atom{Element: two}, i + 2, nil
		}
	}
	c := s[i]
	if el, ok := aromaticSubset[c]; ok {
		return Atom{Element: el, Aromatic: true}, i + 1, nil
	}
	el := string(c)
	if organicSubset[el] {
		return Atom{Element: el}, i + 1, nil
	}
	return Atom{}, i, parseErr(i, fmt.Sprintf("unexpected character %q", c))
}

func parseBracketAtom(s string, start int) (Atom, int, error) {
	end := strings.IndexByte(s[start:], ']')
	if end < 0 {
		return Atom{}, start, parseErr(start, "unclosed '['")
	}
	end += start
	body := s[start+1 : end]
	if body == "" {
		return Atom{}, start, parseErr(start, "empty bracket atom")
	}

	a := Atom{}
	j := 0
	// 同位素数字，忽略
	for j < len(body) && isDigit(body[j]) {
		j++
	}
	if j >= len(body) {
		return Atom{}, start, parseErr(start, "bracket atom without element")
	}

	// 元素符号：'*'、芳香小写或大写（+可选小写）
	switch {
	case body[j] == '*':
		a.Element = "*"
		j++
	case body[j] >= 'a' && body[j] <= 'z':
		el, ok := aromaticSubset[body[j]]
		if !ok {
			return Atom{}, start, parseErr(start, fmt.Sprintf("unknown aromatic element %q", body[j]))
		}
		a.Element = el
		a.Aromatic = true
		j++
	case body[j] >= 'A' && body[j] <= 'Z':
		// 元素符号 = 大写 + 可选小写；氢数/电荷等修饰符都不以小写开头
		k := j + 1
		if k < len(body) && body[k] >= 'a' && body[k] <= 'z' {
			k++
		}
		a.Element = body[j:k]
		j = k
	default:
		return Atom{}, start, parseErr(start, fmt.Sprintf("unexpected %q in bracket atom", body[j]))
	}

	for j < len(body) {
		switch {
		case body[j] == '@': // 手性记号，忽略
			j++
		case body[j] == 'H':
			a.HasHCount = true
			a.HCount = 1
			j++
			n := 0
			for j < len(body) && isDigit(body[j]) {
				n = n*10 + int(body[j]-'0')
				j++
			}
			if n > 0 {
				a.HCount = n
			}
		case body[j] == '+' || body[j] == '-':
			sign := 1
			if body[j] == '-' {
				sign = -1
			}
			count := 0
			for j < len(body) && (body[j] == '+' || body[j] == '-') {
				count++
				j++
			}
			n := 0
			for j < len(body) && isDigit(body[j]) {
				n = n*10 + int(body[j]-'0')
				j++
			}
			if n > 0 {
				count = n
			}
			a.Charge = sign * count
		default:
			return Atom{}, start, parseErr(start, fmt.Sprintf("unexpected %q in bracket atom", body[j]))
		}
	}
	// 方括号原子未写 H 即为 0 个氢
	if !a.HasHCount {
		a.HasHCount = true
		a.HCount = 0
	}
	return a, end + 1, nil
}

func parseErr(pos int, msg string) error {
	return fmt.Errorf("smiles parse error at %d: %s", pos, msg)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
