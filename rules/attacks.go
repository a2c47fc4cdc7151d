package rules

var (
	knightSteps = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingSteps   = [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	rookRays    = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopRays  = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

func offset(sq Square, df, dr int) (Square, bool) {
	f, r := sq.File()+df, sq.Rank()+dr
	if f < 0 || f > 7 || r < 0 || r > 7 {
		return 0, false
	}
	return NewSquare(f, r), true
}

// attacked reports whether any piece of color by attacks sq.
func attacked(pieceAt func(Square) (Piece, bool), sq Square, by Color) bool {
	holds := func(s Square, types ...PieceType) bool {
		p, ok := pieceAt(s)
		if !ok || p.Color != by {
			return false
		}
		for _, t := range types {
			if p.Type == t {
				return true
			}
		}
		return false
	}

	// A pawn of color by attacks from one rank behind, relative to its direction.
	dr := -1
	if by == Black {
		dr = 1
	}
	for _, df := range [2]int{-1, 1} {
		if s, ok := offset(sq, df, dr); ok && holds(s, Pawn) {
			return true
		}
	}
	for _, st := range knightSteps {
		if s, ok := offset(sq, st[0], st[1]); ok && holds(s, Knight) {
			return true
		}
	}
	for _, st := range kingSteps {
		if s, ok := offset(sq, st[0], st[1]); ok && holds(s, King) {
			return true
		}
	}
	slide := func(rays [4][2]int, types ...PieceType) bool {
		for _, ray := range rays {
			s := sq
			for {
				var ok bool
				if s, ok = offset(s, ray[0], ray[1]); !ok {
					break
				}
				if _, occupied := pieceAt(s); occupied {
					if holds(s, types...) {
						return true
					}
					break
				}
			}
		}
		return false
	}
	return slide(rookRays, Rook, Queen) || slide(bishopRays, Bishop, Queen)
}

// kingInCheck locates the king of side and tests it against the other color.
func kingInCheck(pieceAt func(Square) (Piece, bool), side Color) bool {
	for sq := Square(0); sq < 64; sq++ {
		if p, ok := pieceAt(sq); ok && p.Type == King && p.Color == side {
			return attacked(pieceAt, sq, side.Other())
		}
	}
	return false
}
