package chem

import "fmt"

// 常见元素的标准原子量。覆盖有机筛选中会出现的元素即可；
// 表外元素让分子量计算返回 error，由判据层按拒绝处理。
var atomicWeights = map[string]float64{
	"H": 1.008, "B": 10.81, "C": 12.011, "N": 14.007, "O": 15.999,
	"F": 18.998, "Na": 22.990, "Mg": 24.305, "Al": 26.982, "Si": 28.085,
	"P": 30.974, "S": 32.06, "Cl": 35.45, "K": 39.098, "Ca": 40.078,
	"Fe": 55.845, "Zn": 65.38, "Se": 78.971, "Br": 79.904, "Sn": 118.71,
	"I": 126.904,
}

// 缺省价态表，用于推算隐式氢数。
var defaultValence = map[string]int{
	"B": 3, "C": 4, "N": 3, "O": 2, "P": 3, "S": 2,
	"F": 1, "Cl": 1, "Br": 1, "I": 1,
}

// MolWeight 计算分子量（含隐式氢）。遇到原子量表外的元素返回 error。
func MolWeight(m *Molecule) (float64, error) {
	var w float64
	for i, a := range m.Atoms {
		aw, ok := atomicWeights[a.Element]
		if !ok {
			return 0, fmt.Errorf("no atomic weight for element %q", a.Element)
		}
		w += aw
		w += float64(implicitH(m, i)) * atomicWeights["H"]
	}
	return w, nil
}

// implicitH 推算原子 idx 的氢数：方括号显式指定的优先；
// 否则按缺省价态减去已用价（芳香原子额外占用一价）。
func implicitH(m *Molecule, idx int) int {
	a := m.Atoms[idx]
	if a.HasHCount {
		return a.HCount
	}
	if a.Element == "*" || a.Charge != 0 {
		return 0
	}
	v, ok := defaultValence[a.Element]
	if !ok {
		return 0
	}
	used := 0
	for _, bi := range m.BondsAt(idx) {
		b := m.Bonds[bi]
		if b.Aromatic {
			used++
		} else {
			used += b.Order
		}
	}
	if a.Aromatic {
		used++
	}
	if h := v - used; h > 0 {
		return h
	}
	return 0
}

// Elements 返回分子中出现的元素集合（显式原子；隐式氢不计入）。
func Elements(m *Molecule) map[string]bool {
	out := make(map[string]bool, 4)
	for _, a := range m.Atoms {
		out[a.Element] = true
	}
	return out
}

// ConjugatedBondCount 统计处于共轭位置的多重键数量。
// 多重键 = 双键/三键/芳香键。候选完全没有多重键时短路返回 0；
// 否则一条多重键计入当且仅当它与另一条多重键共享原子，
// 或隔一条单键与另一条多重键相邻（经典的 C=C-C=C 形态）。
func ConjugatedBondCount(m *Molecule) int {
	multi := make([]int, 0, len(m.Bonds))
	isMulti := make([]bool, len(m.Bonds))
	for bi, b := range m.Bonds {
		if b.Aromatic || b.Order >= 2 {
			multi = append(multi, bi)
			isMulti[bi] = true
		}
	}
	if len(multi) == 0 {
		return 0
	}

	count := 0
	for _, bi := range multi {
		if conjugated(m, bi, isMulti) {
			count++
		}
	}
	return count
}

func conjugated(m *Molecule, bi int, isMulti []bool) bool {
	b := m.Bonds[bi]
	for _, end := range [2]int{b.From, b.To} {
		for _, ni := range m.BondsAt(end) {
			if ni == bi {
				continue
			}
			if isMulti[ni] {
				return true
			}
			// 隔一条单键的另一端是否挂着多重键
			far := m.Other(m.Bonds[ni], end)
			for _, fi := range m.BondsAt(far) {
				if fi != ni && isMulti[fi] {
					return true
				}
			}
		}
	}
	return false
}
