package game

import "bingo-arena/internal/shared"

var (
	diagonal1 = []int{0, 6, 12, 18, 24}
	diagonal2 = []int{4, 8, 12, 16, 20}
)

// ComputeProgress recomputes a player's earned BINGO letters from the set of
// marked cell indices. Letters are handed out by discovery order, not by the
// geometry of the completed line: the first complete row always earns B (and
// promotes any already-earned neighbors down the chain), each complete column
// earns the next unearned letter, and a complete diagonal earns at most one
// more. Recorded games depend on this exact assignment order, so it must not
// be "simplified" into a per-line mapping.
func ComputeProgress(marked []int) shared.Progress {
	set := make(map[int]bool, len(marked))
	for _, c := range marked {
		set[c] = true
	}

	var p shared.Progress

	// Rows: only the first complete row counts per pass.
	for row := 0; row < 5; row++ {
		if rowComplete(set, row) {
			p.B = true
			if p.I {
				p.N = true
			}
			if p.N {
				p.G = true
			}
			if p.G {
				p.O = true
			}
			break
		}
	}

	// Columns: each complete column takes one letter slot.
	for col := 0; col < 5; col++ {
		if colComplete(set, col) {
			takeNext(&p)
		}
	}

	// Diagonals: one slot at most, even if both are complete.
	if lineComplete(set, diagonal1) || lineComplete(set, diagonal2) {
		takeNext(&p)
	}

	return p
}

func takeNext(p *shared.Progress) {
	switch {
	case !p.B:
		p.B = true
	case !p.I:
		p.I = true
	case !p.N:
		p.N = true
	case !p.G:
		p.G = true
	case !p.O:
		p.O = true
	}
}

func rowComplete(set map[int]bool, row int) bool {
	for col := 0; col < 5; col++ {
		if !set[row*5+col] {
			return false
		}
	}
	return true
}

func colComplete(set map[int]bool, col int) bool {
	for row := 0; row < 5; row++ {
		if !set[row*5+col] {
			return false
		}
	}
	return true
}

func lineComplete(set map[int]bool, cells []int) bool {
	for _, c := range cells {
		if !set[c] {
			return false
		}
	}
	return true
}
