package rules

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

const fiftyMoveLimit = 100

// Position is the mutable game state the search borrows. Every Apply must be
// paired with exactly one Undo.
type Position interface {
	// LegalMoves returns the legal moves of the side to move in canonical
	// order: ascending origin square, then destination, then promotion.
	LegalMoves() []Move
	// LegalMovesFrom is LegalMoves limited to moves of the piece on sq.
	LegalMovesFrom(sq Square) []Move
	Apply(m Move) error
	Undo()

	IsGameOver() bool
	IsCheckmate() bool
	IsDraw() bool
	InCheck() bool
	SideToMove() Color
	PieceAt(sq Square) (Piece, bool)
	FEN() string
}

// Backend names a move generator implementation.
type Backend string

const (
	BackendGoose  Backend = "goose"
	BackendDragon Backend = "dragon"
	BackendNotnil Backend = "notnil"
)

var Backends = []Backend{BackendGoose, BackendDragon, BackendNotnil}

// New builds a position from a FEN using the given backend.
func New(backend Backend, fen string) (Position, error) {
	switch backend {
	case BackendGoose, "":
		return NewGooseBoard(fen)
	case BackendDragon:
		return NewDragonBoard(fen)
	case BackendNotnil:
		return NewNotnilBoard(fen)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}

func sortMoves(moves []Move) {
	sort.Slice(moves, func(i, j int) bool {
		a, b := moves[i], moves[j]
		if a.From != b.From {
			return a.From < b.From
		}
		if a.To != b.To {
			return a.To < b.To
		}
		return a.Promotion < b.Promotion
	})
}

func filterFrom(moves []Move, sq Square) []Move {
	out := make([]Move, 0, 8)
	for _, m := range moves {
		if m.From == sq {
			out = append(out, m)
		}
	}
	return out
}

func findMove(moves []Move, m Move) (int, bool) {
	for i, cand := range moves {
		if cand.Same(m) {
			return i, true
		}
	}
	return -1, false
}

// insufficientMaterial reports positions where neither side can mate: bare
// kings, a single minor piece, or one bishop each on the same square colour.
func insufficientMaterial(pieceAt func(Square) (Piece, bool)) bool {
	minors := 0
	bishopSquareColor := [2]int{-1, -1}
	bishops := 0
	for sq := Square(0); sq < 64; sq++ {
		p, ok := pieceAt(sq)
		if !ok {
			continue
		}
		switch p.Type {
		case Pawn, Rook, Queen:
			return false
		case Knight:
			minors++
		case Bishop:
			minors++
			bishops++
			bishopSquareColor[p.Color] = (sq.File() + sq.Rank()) % 2
		}
	}
	if minors <= 1 {
		return true
	}
	return minors == 2 && bishops == 2 &&
		bishopSquareColor[White] >= 0 && bishopSquareColor[White] == bishopSquareColor[Black]
}

// fenHalfmoveClock extracts the halfmove clock field of a FEN.
func fenHalfmoveClock(fen string) int {
	fields := strings.Fields(fen)
	if len(fields) < 5 {
		return 0
	}
	n, err := strconv.Atoi(fields[4])
	if err != nil {
		return 0
	}
	return n
}

// fenKey drops the move counters so that equal placements, side, castling and
// en passant compare equal for repetition detection.
func fenKey(fen string) string {
	fields := strings.Fields(fen)
	if len(fields) > 4 {
		fields = fields[:4]
	}
	return strings.Join(fields, " ")
}

func checkFEN(fen string) error {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return fmt.Errorf("%w: %q", ErrInvalidFEN, fen)
	}
	if strings.Count(fields[0], "/") != 7 {
		return fmt.Errorf("%w: %q", ErrInvalidFEN, fen)
	}
	if fields[1] != "w" && fields[1] != "b" {
		return fmt.Errorf("%w: bad side to move in %q", ErrInvalidFEN, fen)
	}
	return nil
}

// completeFEN appends default move counters to a four or five field FEN.
func completeFEN(fen string) string {
	switch len(strings.Fields(fen)) {
	case 4:
		return strings.TrimSpace(fen) + " 0 1"
	case 5:
		return strings.TrimSpace(fen) + " 1"
	}
	return strings.TrimSpace(fen)
}
