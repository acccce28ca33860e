package room

import (
	"context"

	log "github.com/sirupsen/logrus"

	"bingo-arena/internal/game"
	"bingo-arena/internal/shared"
)

// ApplyMove validates and applies one called number as a single conditional
// commit. The number is recorded once, every player holding it gets the cell
// marked and their letters recomputed, and either a winner is recorded or
// the turn advances. Marked cells only ever grow, so letter progress is
// monotonic by construction.
func (m *Manager) ApplyMove(ctx context.Context, roomID, playerID string, cellIndex, cellValue int) (*shared.Room, error) {
	r, err := m.update(ctx, roomID, func(r *shared.Room) error {
		gs := &r.GameState
		if gs.CurrentTurn != playerID {
			return ErrNotYourTurn
		}
		for _, n := range gs.CalledNumbers {
			if n == cellValue {
				return ErrNumberAlreadyCalled
			}
		}
		caller, ok := r.Players[playerID]
		if !ok {
			return ErrPlayerNotFound
		}
		if caller.IsMarked(cellIndex) {
			return ErrCellAlreadyMarked
		}

		gs.CalledNumbers = append(gs.CalledNumbers, cellValue)

		// Join order makes the winner deterministic when one call completes
		// several boards at once: the earliest joiner wins.
		for _, id := range r.PlayerOrder() {
			p := r.Players[id]
			idx, ok := p.HasCell(cellValue)
			if !ok {
				continue
			}
			p.MarkedCells = append(p.MarkedCells, idx)
			p.BingoProgress = game.ComputeProgress(p.MarkedCells)
			if p.BingoProgress.Won() && gs.Winner == nil {
				winner := id
				gs.Winner = &winner
				r.Status = shared.StatusFinished
			}
		}

		if gs.Winner == nil {
			gs.CurrentTurn = r.NextTurn(playerID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if r.GameState.Winner != nil {
		log.WithFields(log.Fields{
			"room":   roomID,
			"winner": *r.GameState.Winner,
			"called": cellValue,
		}).Info("bingo, game finished")
		m.scheduleCleanup(roomID)
	} else {
		log.WithFields(log.Fields{
			"room":   roomID,
			"player": playerID,
			"called": cellValue,
			"next":   r.GameState.CurrentTurn,
		}).Debug("move applied")
	}
	return r, nil
}
