package engine

import "github.com/JamiaHub/JAMIAHUB/rules"

// =============================================================================
// MATERIAL
// =============================================================================

// PieceValues is indexed by rules.PieceType.
var PieceValues = [7]int{
	rules.NoPieceType: 0,
	rules.Pawn:        100,
	rules.Knight:      320,
	rules.Bishop:      330,
	rules.Rook:        500,
	rules.Queen:       900,
	rules.King:        2000,
}

// Evaluate scores pure material from White's point of view.
func Evaluate(pos rules.Position) int {
	score := 0
	for sq := rules.Square(0); sq < 64; sq++ {
		piece, ok := pos.PieceAt(sq)
		if !ok {
			continue
		}
		if piece.Color == rules.White {
			score += PieceValues[piece.Type]
		} else {
			score -= PieceValues[piece.Type]
		}
	}
	return score
}
