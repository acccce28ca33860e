package game

import (
	"math/rand"
	"time"
)

// BoardSize is the number of cells on a bingo board (5x5).
const BoardSize = 25

// NewBoard returns the numbers 1..25 in uniformly shuffled order. Every
// player gets an independently shuffled board.
func NewBoard() []int {
	nums := make([]int, BoardSize)
	for i := range nums {
		nums[i] = i + 1
	}
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	r.Shuffle(len(nums), func(i, j int) {
		nums[i], nums[j] = nums[j], nums[i]
	})
	return nums
}
