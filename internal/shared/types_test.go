package shared

import "testing"

func twoPlayerRoom() *Room {
	return &Room{
		ID:         "r1",
		HostID:     "a",
		MaxPlayers: 2,
		Status:     StatusPlaying,
		Players: map[string]*Player{
			"a": {ID: "a", Name: "Ana", IsHost: true, JoinedAt: 100, Board: []int{1, 2, 3}},
			"b": {ID: "b", Name: "Ben", JoinedAt: 200, Board: []int{3, 2, 1}},
		},
		GameState: GameState{CurrentTurn: "a"},
	}
}

func TestPlayerOrderByJoinTime(t *testing.T) {
	r := twoPlayerRoom()
	order := r.PlayerOrder()
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("order = %v, want [a b]", order)
	}

	// same join time falls back to id ordering
	r.Players["b"].JoinedAt = 100
	order = r.PlayerOrder()
	if order[0] != "a" || order[1] != "b" {
		t.Errorf("tie order = %v, want [a b]", order)
	}
}

func TestNextTurnCycles(t *testing.T) {
	r := twoPlayerRoom()
	if got := r.NextTurn("a"); got != "b" {
		t.Errorf(`NextTurn("a") = %q, want "b"`, got)
	}
	if got := r.NextTurn("b"); got != "a" {
		t.Errorf(`NextTurn("b") = %q, want "a"`, got)
	}
	// departed holder hands the turn to the first player
	if got := r.NextTurn("gone"); got != "a" {
		t.Errorf(`NextTurn("gone") = %q, want "a"`, got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	r := twoPlayerRoom()
	w := "a"
	r.GameState.Winner = &w
	r.GameState.CalledNumbers = []int{1}
	r.Players["a"].MarkedCells = []int{0}

	cp := r.Clone()
	cp.Players["a"].MarkedCells[0] = 99
	cp.Players["a"].Board[0] = 99
	cp.GameState.CalledNumbers[0] = 99
	*cp.GameState.Winner = "b"
	cp.Players["c"] = &Player{ID: "c"}

	if r.Players["a"].MarkedCells[0] != 0 || r.Players["a"].Board[0] != 1 {
		t.Error("clone shares player slices with the original")
	}
	if r.GameState.CalledNumbers[0] != 1 {
		t.Error("clone shares calledNumbers with the original")
	}
	if *r.GameState.Winner != "a" {
		t.Error("clone shares the winner pointer with the original")
	}
	if len(r.Players) != 2 {
		t.Error("clone shares the players map with the original")
	}
}
