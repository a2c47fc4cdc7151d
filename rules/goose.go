package rules

import (
	"fmt"

	gm "github.com/Oliverans/GooseEngineMG/goosemg"
)

// GooseBoard adapts the goosemg move generator. Moves are made with
// PushMove/PopMove so the MoveState stack and zobrist history stay in step.
type GooseBoard struct {
	board   *gm.Board
	stack   []gm.MoveState
	history []uint64
}

func NewGooseBoard(fen string) (*GooseBoard, error) {
	fen = completeFEN(fen)
	if err := checkFEN(fen); err != nil {
		return nil, err
	}
	board, err := gm.ParseFEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	return &GooseBoard{
		board:   board,
		history: []uint64{board.ComputeZobrist()},
	}, nil
}

func (g *GooseBoard) LegalMoves() []Move {
	native := g.board.GenerateMoves()
	moves := make([]Move, 0, len(native))
	for _, nm := range native {
		moves = append(moves, moveFromGoose(nm))
	}
	sortMoves(moves)
	return moves
}

func (g *GooseBoard) LegalMovesFrom(sq Square) []Move {
	return filterFrom(g.LegalMoves(), sq)
}

func (g *GooseBoard) Apply(m Move) error {
	for _, nm := range g.board.GenerateMoves() {
		if !moveFromGoose(nm).Same(m) {
			continue
		}
		if !g.board.PushMove(nm, &g.stack, &g.history) {
			return fmt.Errorf("%w: %s in %s", ErrIllegalMove, m, g.FEN())
		}
		return nil
	}
	return fmt.Errorf("%w: %s in %s", ErrIllegalMove, m, g.FEN())
}

func (g *GooseBoard) Undo() {
	if len(g.stack) == 0 {
		panic("rules: Undo with no applied move")
	}
	g.board.PopMove(&g.stack, &g.history)
}

func (g *GooseBoard) IsGameOver() bool {
	return !g.board.HasLegalMoves() || g.IsDraw()
}

func (g *GooseBoard) IsCheckmate() bool { return g.board.InCheckmate() }

func (g *GooseBoard) IsDraw() bool {
	return g.board.InStalemate() ||
		g.board.IsDrawBy50() ||
		g.board.IsDrawByRepetition(g.history) ||
		insufficientMaterial(g.PieceAt)
}

func (g *GooseBoard) InCheck() bool {
	return g.board.InCheck(g.board.SideToMove())
}

func (g *GooseBoard) SideToMove() Color {
	if g.board.SideToMove() == gm.White {
		return White
	}
	return Black
}

func (g *GooseBoard) PieceAt(sq Square) (Piece, bool) {
	return pieceFromGoose(g.board.PieceAt(gm.Square(sq)))
}

func (g *GooseBoard) FEN() string { return g.board.ToFEN() }

func moveFromGoose(nm gm.Move) Move {
	m := Move{
		From:      Square(nm.From()),
		To:        Square(nm.To()),
		Capture:   nm.CapturedPiece() != gm.NoPiece,
		Castle:    nm.Flags() == gm.FlagCastle,
		EnPassant: nm.Flags() == gm.FlagEnPassant,
	}
	if promo, ok := pieceFromGoose(nm.PromotionPiece()); ok {
		m.Promotion = promo.Type
	}
	return m
}

func pieceFromGoose(p gm.Piece) (Piece, bool) {
	switch p {
	case gm.WhitePawn:
		return Piece{Pawn, White}, true
	case gm.WhiteKnight:
		return Piece{Knight, White}, true
	case gm.WhiteBishop:
		return Piece{Bishop, White}, true
	case gm.WhiteRook:
		return Piece{Rook, White}, true
	case gm.WhiteQueen:
		return Piece{Queen, White}, true
	case gm.WhiteKing:
		return Piece{King, White}, true
	case gm.BlackPawn:
		return Piece{Pawn, Black}, true
	case gm.BlackKnight:
		return Piece{Knight, Black}, true
	case gm.BlackBishop:
		return Piece{Bishop, Black}, true
	case gm.BlackRook:
		return Piece{Rook, Black}, true
	case gm.BlackQueen:
		return Piece{Queen, Black}, true
	case gm.BlackKing:
		return Piece{King, Black}, true
	}
	return Piece{}, false
}
