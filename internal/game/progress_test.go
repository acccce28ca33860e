package game

import (
	"testing"

	"bingo-arena/internal/shared"
)

func TestComputeProgress(t *testing.T) {
	cases := []struct {
		name   string
		marked []int
		want   shared.Progress
	}{
		{
			name:   "nothing marked",
			marked: nil,
			want:   shared.Progress{},
		},
		{
			name:   "first row earns B",
			marked: []int{0, 1, 2, 3, 4},
			want:   shared.Progress{B: true},
		},
		{
			name:   "last row still earns B, not O",
			marked: []int{20, 21, 22, 23, 24},
			want:   shared.Progress{B: true},
		},
		{
			name:   "single column earns B",
			marked: []int{0, 5, 10, 15, 20},
			want:   shared.Progress{B: true},
		},
		{
			name:   "row plus column: column takes the next slot",
			marked: []int{0, 1, 2, 3, 4, 5, 10, 15, 20},
			want:   shared.Progress{B: true, I: true},
		},
		{
			name:   "row plus two columns",
			marked: []int{0, 1, 2, 3, 4, 5, 10, 15, 20, 6, 11, 16, 21},
			want:   shared.Progress{B: true, I: true, N: true},
		},
		{
			name:   "four columns march through the letters",
			marked: []int{0, 5, 10, 15, 20, 1, 6, 11, 16, 21, 2, 7, 12, 17, 22, 3, 8, 13, 18, 23},
			want:   shared.Progress{B: true, I: true, N: true, G: true},
		},
		{
			name:   "main diagonal earns B",
			marked: []int{0, 6, 12, 18, 24},
			want:   shared.Progress{B: true},
		},
		{
			name:   "anti diagonal earns B",
			marked: []int{4, 8, 12, 16, 20},
			want:   shared.Progress{B: true},
		},
		{
			name:   "both diagonals consume a single slot",
			marked: []int{0, 6, 12, 18, 24, 4, 8, 16, 20},
			want:   shared.Progress{B: true},
		},
		{
			name:   "column then diagonal",
			marked: []int{0, 5, 10, 15, 20, 4, 8, 12, 16},
			want:   shared.Progress{B: true, I: true},
		},
		{
			name: "full board wins",
			marked: []int{
				0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12,
				13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24,
			},
			want: shared.Progress{B: true, I: true, N: true, G: true, O: true},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeProgress(tc.marked)
			if got != tc.want {
				t.Errorf("ComputeProgress(%v) = %+v, want %+v", tc.marked, got, tc.want)
			}
		})
	}
}

func TestProgressMonotonicUnderGrowingMarks(t *testing.T) {
	// marked cells only ever grow, so every letter earned at step k must
	// still be earned at step k+1
	sequence := []int{12, 0, 6, 18, 24, 1, 2, 3, 4, 5, 10, 15, 20, 7, 11, 16, 21, 8, 13, 9, 14, 17, 19, 22, 23}
	var prev shared.Progress
	marked := []int{}
	for _, cell := range sequence {
		marked = append(marked, cell)
		cur := ComputeProgress(marked)
		if (prev.B && !cur.B) || (prev.I && !cur.I) || (prev.N && !cur.N) ||
			(prev.G && !cur.G) || (prev.O && !cur.O) {
			t.Fatalf("progress regressed from %+v to %+v after marking %d", prev, cur, cell)
		}
		prev = cur
	}
	if !prev.Won() {
		t.Errorf("full board should win, got %+v", prev)
	}
}

func TestWon(t *testing.T) {
	if (shared.Progress{B: true, I: true, N: true, G: true}).Won() {
		t.Error("four letters should not win")
	}
	if !(shared.Progress{B: true, I: true, N: true, G: true, O: true}).Won() {
		t.Error("five letters should win")
	}
}
