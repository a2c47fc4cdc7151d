package engine

import (
	"sort"

	"github.com/JamiaHub/JAMIAHUB/rules"
)

// mvvLva[victim][attacker]
var mvvLva = [7][7]uint16{
	{0, 0, 0, 0, 0, 0, 0},
	{0, 14, 13, 12, 11, 10, 0}, // victim Pawn
	{0, 24, 23, 22, 21, 20, 0}, // victim Knight
	{0, 34, 33, 32, 31, 30, 0}, // victim Bishop
	{0, 44, 43, 42, 41, 40, 0}, // victim Rook
	{0, 54, 53, 52, 51, 50, 0}, // victim Queen
	{0, 0, 0, 0, 0, 0, 0},      // victim King
}

func captureScore(pos rules.Position, m rules.Move) uint16 {
	if !m.Capture {
		return 0
	}
	attacker, _ := pos.PieceAt(m.From)
	victim := rules.Pawn
	if !m.EnPassant {
		if p, ok := pos.PieceAt(m.To); ok {
			victim = p.Type
		}
	}
	return mvvLva[victim][attacker.Type]
}

// capturesFirst reorders moves in place, best captures first. Quiet moves
// keep their canonical relative order.
func capturesFirst(pos rules.Position, moves []rules.Move) {
	scores := make(map[rules.Move]uint16, len(moves))
	for _, m := range moves {
		scores[m] = captureScore(pos, m)
	}
	sort.SliceStable(moves, func(i, j int) bool {
		return scores[moves[i]] > scores[moves[j]]
	})
}
