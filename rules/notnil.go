package rules

import (
	"fmt"

	"github.com/notnil/chess"
)

// NotnilBoard adapts notnil/chess. Positions there are immutable, so Apply
// pushes the successor and Undo pops it.
type NotnilBoard struct {
	positions []*chess.Position
	keys      []string
}

func NewNotnilBoard(fen string) (*NotnilBoard, error) {
	fen = completeFEN(fen)
	if err := checkFEN(fen); err != nil {
		return nil, err
	}
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	pos := chess.NewGame(opt).Position()
	return &NotnilBoard{
		positions: []*chess.Position{pos},
		keys:      []string{fenKey(pos.String())},
	}, nil
}

func (n *NotnilBoard) current() *chess.Position { return n.positions[len(n.positions)-1] }

func (n *NotnilBoard) LegalMoves() []Move {
	native := n.current().ValidMoves()
	moves := make([]Move, 0, len(native))
	for _, nm := range native {
		moves = append(moves, moveFromNotnil(nm))
	}
	sortMoves(moves)
	return moves
}

func (n *NotnilBoard) LegalMovesFrom(sq Square) []Move {
	return filterFrom(n.LegalMoves(), sq)
}

func (n *NotnilBoard) Apply(m Move) error {
	pos := n.current()
	for _, nm := range pos.ValidMoves() {
		if !moveFromNotnil(nm).Same(m) {
			continue
		}
		next := pos.Update(nm)
		n.positions = append(n.positions, next)
		n.keys = append(n.keys, fenKey(next.String()))
		return nil
	}
	return fmt.Errorf("%w: %s in %s", ErrIllegalMove, m, n.FEN())
}

func (n *NotnilBoard) Undo() {
	if len(n.positions) <= 1 {
		panic("rules: Undo with no applied move")
	}
	n.positions = n.positions[:len(n.positions)-1]
	n.keys = n.keys[:len(n.keys)-1]
}

func (n *NotnilBoard) IsGameOver() bool {
	return len(n.current().ValidMoves()) == 0 || n.IsDraw()
}

func (n *NotnilBoard) IsCheckmate() bool {
	return n.current().Status() == chess.Checkmate
}

func (n *NotnilBoard) IsDraw() bool {
	pos := n.current()
	if pos.Status() == chess.Stalemate {
		return true
	}
	if fenHalfmoveClock(pos.String()) >= fiftyMoveLimit {
		return true
	}
	return n.repetitions() >= 3 || insufficientMaterial(n.PieceAt)
}

func (n *NotnilBoard) repetitions() int {
	current := n.keys[len(n.keys)-1]
	count := 0
	for _, k := range n.keys {
		if k == current {
			count++
		}
	}
	return count
}

// InCheck is computed from the board since notnil only exposes check as a
// tag on the move that delivered it.
func (n *NotnilBoard) InCheck() bool {
	return kingInCheck(n.PieceAt, n.SideToMove())
}

func (n *NotnilBoard) SideToMove() Color {
	if n.current().Turn() == chess.White {
		return White
	}
	return Black
}

func (n *NotnilBoard) PieceAt(sq Square) (Piece, bool) {
	p := n.current().Board().Piece(chess.Square(sq))
	if p == chess.NoPiece {
		return Piece{}, false
	}
	color := White
	if p.Color() == chess.Black {
		color = Black
	}
	return Piece{pieceTypeFromNotnil(p.Type()), color}, true
}

func (n *NotnilBoard) FEN() string { return n.current().String() }

func moveFromNotnil(nm *chess.Move) Move {
	return Move{
		From:      Square(nm.S1()),
		To:        Square(nm.S2()),
		Promotion: pieceTypeFromNotnil(nm.Promo()),
		Capture:   nm.HasTag(chess.Capture) || nm.HasTag(chess.EnPassant),
		Castle:    nm.HasTag(chess.KingSideCastle) || nm.HasTag(chess.QueenSideCastle),
		EnPassant: nm.HasTag(chess.EnPassant),
	}
}

func pieceTypeFromNotnil(t chess.PieceType) PieceType {
	switch t {
	case chess.Pawn:
		return Pawn
	case chess.Knight:
		return Knight
	case chess.Bishop:
		return Bishop
	case chess.Rook:
		return Rook
	case chess.Queen:
		return Queen
	case chess.King:
		return King
	}
	return NoPieceType
}
