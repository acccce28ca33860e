package room

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bingo-arena/internal/shared"
	"bingo-arena/internal/store"
)

// startedRoom creates a two-player room in play and returns it with both ids.
func startedRoom(t *testing.T, m *Manager) (*shared.Room, string, string) {
	t.Helper()
	ctx := context.Background()
	r, err := m.CreateRoom(ctx, "Ana", 2)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, benID, err := m.JoinRoom(ctx, r.ID, "Ben")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	started, err := m.StartGame(ctx, r.ID, r.HostID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	return started, r.HostID, benID
}

// callIndex returns the player's unmarked cell index holding value.
func callIndex(t *testing.T, r *shared.Room, playerID string, value int) int {
	t.Helper()
	idx, ok := r.Players[playerID].HasCell(value)
	if !ok {
		t.Fatalf("player %s has no cell %d", playerID, value)
	}
	return idx
}

func TestApplyMoveMarksEveryHolder(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager()
	r, anaID, benID := startedRoom(t, m)

	value := 7
	got, err := m.ApplyMove(ctx, r.ID, anaID, callIndex(t, r, anaID, value), value)
	if err != nil {
		t.Fatalf("move: %v", err)
	}

	if len(got.GameState.CalledNumbers) != 1 || got.GameState.CalledNumbers[0] != value {
		t.Errorf("calledNumbers = %v", got.GameState.CalledNumbers)
	}
	// boards are permutations of the same 25 values, so both players mark
	for _, id := range []string{anaID, benID} {
		p := got.Players[id]
		if len(p.MarkedCells) != 1 {
			t.Errorf("player %s markedCells = %v", id, p.MarkedCells)
			continue
		}
		if p.Board[p.MarkedCells[0]] != value {
			t.Errorf("player %s marked the wrong cell", id)
		}
	}
	if got.GameState.CurrentTurn != benID {
		t.Errorf("turn = %q, want %q", got.GameState.CurrentTurn, benID)
	}
}

func TestApplyMoveNotYourTurn(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager()
	r, _, benID := startedRoom(t, m)

	_, err := m.ApplyMove(ctx, r.ID, benID, callIndex(t, r, benID, 3), 3)
	if !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("out-of-turn move = %v, want ErrNotYourTurn", err)
	}
	got, _ := m.GetRoom(ctx, r.ID)
	if len(got.GameState.CalledNumbers) != 0 {
		t.Errorf("calledNumbers mutated on rejected move: %v", got.GameState.CalledNumbers)
	}
}

func TestApplyMoveNumberAlreadyCalled(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager()
	r, anaID, benID := startedRoom(t, m)

	if _, err := m.ApplyMove(ctx, r.ID, anaID, callIndex(t, r, anaID, 9), 9); err != nil {
		t.Fatalf("first move: %v", err)
	}
	cur, _ := m.GetRoom(ctx, r.ID)
	_, err := m.ApplyMove(ctx, r.ID, benID, callIndex(t, cur, benID, 10), 9)
	if !errors.Is(err, ErrNumberAlreadyCalled) {
		t.Fatalf("repeat call = %v, want ErrNumberAlreadyCalled", err)
	}
	got, _ := m.GetRoom(ctx, r.ID)
	if len(got.GameState.CalledNumbers) != 1 {
		t.Errorf("calledNumbers = %v, want just the first call", got.GameState.CalledNumbers)
	}
}

func TestApplyMoveCellAlreadyMarked(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager()
	r, anaID, benID := startedRoom(t, m)

	firstIdx := callIndex(t, r, anaID, 5)
	if _, err := m.ApplyMove(ctx, r.ID, anaID, firstIdx, 5); err != nil {
		t.Fatalf("ana: %v", err)
	}
	cur, _ := m.GetRoom(ctx, r.ID)
	if _, err := m.ApplyMove(ctx, r.ID, benID, callIndex(t, cur, benID, 6), 6); err != nil {
		t.Fatalf("ben: %v", err)
	}

	// back to Ana, reusing the already-marked cell with a fresh value
	_, err := m.ApplyMove(ctx, r.ID, anaID, firstIdx, 11)
	if !errors.Is(err, ErrCellAlreadyMarked) {
		t.Fatalf("marked-cell move = %v, want ErrCellAlreadyMarked", err)
	}
}

func TestGamePlaysToSingleWinner(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager()
	r, _, _ := startedRoom(t, m)

	var winner string
	for value := 1; value <= 25; value++ {
		cur, err := m.GetRoom(ctx, r.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if cur.GameState.Winner != nil {
			winner = *cur.GameState.Winner
			if cur.Status != shared.StatusFinished {
				t.Errorf("winner set but status = %q", cur.Status)
			}
			break
		}
		turn := cur.GameState.CurrentTurn
		if _, err := m.ApplyMove(ctx, r.ID, turn, callIndex(t, cur, turn, value), value); err != nil {
			t.Fatalf("move %d: %v", value, err)
		}
	}
	if winner == "" {
		t.Fatal("no winner after all numbers were called")
	}

	final, _ := m.GetRoom(ctx, r.ID)
	if !final.Players[winner].BingoProgress.Won() {
		t.Errorf("winner progress = %+v", final.Players[winner].BingoProgress)
	}
}

func TestProgressMonotonicAcrossMoves(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager()
	r, anaID, _ := startedRoom(t, m)

	prev := map[string]shared.Progress{}
	for value := 1; value <= 25; value++ {
		cur, _ := m.GetRoom(ctx, r.ID)
		if cur.GameState.Winner != nil {
			break
		}
		turn := cur.GameState.CurrentTurn
		got, err := m.ApplyMove(ctx, r.ID, turn, callIndex(t, cur, turn, value), value)
		if err != nil {
			t.Fatalf("move %d: %v", value, err)
		}
		for id, p := range got.Players {
			was := prev[id]
			now := p.BingoProgress
			if (was.B && !now.B) || (was.I && !now.I) || (was.N && !now.N) ||
				(was.G && !now.G) || (was.O && !now.O) {
				t.Fatalf("player %s progress regressed from %+v to %+v", id, was, now)
			}
			prev[id] = now
		}
	}
	_ = anaID
}

func TestConcurrentMovesAppendExactlyOnce(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager()
	r, anaID, _ := startedRoom(t, m)

	value := 13
	idx := callIndex(t, r, anaID, value)

	const racers = 4
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = m.ApplyMove(ctx, r.ID, anaID, idx, value)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		}
	}
	if wins != 1 {
		t.Errorf("%d racing moves committed, want exactly 1", wins)
	}

	got, _ := m.GetRoom(ctx, r.ID)
	count := 0
	for _, n := range got.GameState.CalledNumbers {
		if n == value {
			count++
		}
	}
	if count != 1 {
		t.Errorf("value %d appended %d times: %v", value, count, got.GameState.CalledNumbers)
	}
}

func TestFinishedRoomIsCleanedUpAfterLinger(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	cfg := testConfig()
	cfg.FinishedRoomLinger = 20 * time.Millisecond
	m := NewManager(st, cfg)

	r, _, _ := startedRoom(t, m)
	for value := 1; value <= 25; value++ {
		cur, err := m.GetRoom(ctx, r.ID)
		if err != nil || cur.GameState.Winner != nil {
			break
		}
		turn := cur.GameState.CurrentTurn
		if _, err := m.ApplyMove(ctx, r.ID, turn, callIndex(t, cur, turn, value), value); err != nil {
			t.Fatalf("move %d: %v", value, err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := m.GetRoom(ctx, r.ID); errors.Is(err, ErrRoomNotFound) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("finished room was not cleaned up after the linger delay")
}
