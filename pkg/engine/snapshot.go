package engine

// Snapshot is a read-only projection of a game for callers and transports.
type Snapshot struct {
	Board          Board  `json:"board"`
	Dice           [2]int `json:"dice"`
	MovesRemaining []int  `json:"moves_remaining"`
	CurrentPlayer  Side   `json:"current_player"`
	GameOver       bool   `json:"game_over"`
	Winner         Side   `json:"winner,omitempty"`
	BarWhite       int    `json:"bar_white"`
	BarBlack       int    `json:"bar_black"`
	BorneOffWhite  int    `json:"borne_off_white"`
	BorneOffBlack  int    `json:"borne_off_black"`
	AllInHome      bool   `json:"all_in_home"`
	LegalMoves     []Move `json:"legal_moves"`
	PipWhite       int    `json:"pip_white"`
	PipBlack       int    `json:"pip_black"`
	Turn           int    `json:"turn"`
	PositionID     string `json:"position_id"`
}

// Snapshot advances a stuck turn, exactly as AdvanceIfStuck does, and then
// describes the resulting state. Callers therefore never observe a side on
// roll that has dice but no legal move.
func (g *Game) Snapshot() Snapshot {
	g.AdvanceIfStuck()
	return g.state.snapshot()
}

func (s *GameState) snapshot() Snapshot {
	moves := s.LegalMoves()
	if moves == nil {
		moves = []Move{}
	}
	remaining := append([]int{}, s.MovesRemaining...)
	return Snapshot{
		Board:          s.Board,
		Dice:           s.Dice,
		MovesRemaining: remaining,
		CurrentPlayer:  s.CurrentPlayer,
		GameOver:       s.GameOver(),
		Winner:         s.Winner,
		BarWhite:       s.BarWhite,
		BarBlack:       s.BarBlack,
		BorneOffWhite:  s.BorneOffWhite,
		BorneOffBlack:  s.BorneOffBlack,
		AllInHome:      s.AllInHome(s.CurrentPlayer),
		LegalMoves:     moves,
		PipWhite:       s.PipCount(White),
		PipBlack:       s.PipCount(Black),
		Turn:           s.Turn,
		PositionID:     s.PositionID(),
	}
}
