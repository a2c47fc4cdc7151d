package rules

import (
	"fmt"

	"github.com/dylhunn/dragontoothmg"
)

// DragonBoard adapts dragontoothmg. Board.Apply hands back the closure that
// reverts the move; those closures are kept on a stack for Undo.
type DragonBoard struct {
	board   dragontoothmg.Board
	undo    []func()
	history []uint64
}

func NewDragonBoard(fen string) (b *DragonBoard, err error) {
	fen = completeFEN(fen)
	if err := checkFEN(fen); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			b, err = nil, fmt.Errorf("%w: %v", ErrInvalidFEN, r)
		}
	}()
	board := dragontoothmg.ParseFen(fen)
	return &DragonBoard{
		board:   board,
		history: []uint64{board.Hash()},
	}, nil
}

func (d *DragonBoard) LegalMoves() []Move {
	native := d.board.GenerateLegalMoves()
	moves := make([]Move, 0, len(native))
	for _, nm := range native {
		moves = append(moves, d.moveFromDragon(nm))
	}
	sortMoves(moves)
	return moves
}

func (d *DragonBoard) LegalMovesFrom(sq Square) []Move {
	return filterFrom(d.LegalMoves(), sq)
}

func (d *DragonBoard) Apply(m Move) error {
	for _, nm := range d.board.GenerateLegalMoves() {
		if !d.moveFromDragon(nm).Same(m) {
			continue
		}
		unapply := d.board.Apply(nm)
		d.undo = append(d.undo, unapply)
		d.history = append(d.history, d.board.Hash())
		return nil
	}
	return fmt.Errorf("%w: %s in %s", ErrIllegalMove, m, d.FEN())
}

func (d *DragonBoard) Undo() {
	n := len(d.undo)
	if n == 0 {
		panic("rules: Undo with no applied move")
	}
	unapply := d.undo[n-1]
	d.undo = d.undo[:n-1]
	d.history = d.history[:len(d.history)-1]
	unapply()
}

func (d *DragonBoard) hasLegalMoves() bool {
	return len(d.board.GenerateLegalMoves()) > 0
}

func (d *DragonBoard) IsGameOver() bool {
	return !d.hasLegalMoves() || d.IsDraw()
}

func (d *DragonBoard) IsCheckmate() bool {
	return d.board.OurKingInCheck() && !d.hasLegalMoves()
}

func (d *DragonBoard) IsDraw() bool {
	if !d.board.OurKingInCheck() && !d.hasLegalMoves() {
		return true
	}
	if int(d.board.Halfmoveclock) >= fiftyMoveLimit {
		return true
	}
	return d.repetitions() >= 3 || insufficientMaterial(d.PieceAt)
}

// repetitions counts occurrences of the current hash, the current position included.
func (d *DragonBoard) repetitions() int {
	current := d.board.Hash()
	count := 0
	for _, h := range d.history {
		if h == current {
			count++
		}
	}
	return count
}

func (d *DragonBoard) InCheck() bool { return d.board.OurKingInCheck() }

func (d *DragonBoard) SideToMove() Color {
	if d.board.Wtomove {
		return White
	}
	return Black
}

func (d *DragonBoard) PieceAt(sq Square) (Piece, bool) {
	if pt, ok := pieceTypeAt(uint8(sq), &d.board.White); ok {
		return Piece{pt, White}, true
	}
	if pt, ok := pieceTypeAt(uint8(sq), &d.board.Black); ok {
		return Piece{pt, Black}, true
	}
	return Piece{}, false
}

func (d *DragonBoard) FEN() string { return d.board.ToFen() }

func (d *DragonBoard) moveFromDragon(nm dragontoothmg.Move) Move {
	m := Move{
		From:      Square(nm.From()),
		To:        Square(nm.To()),
		Promotion: pieceTypeFromDragon(nm.Promote()),
	}
	mover, _ := d.PieceAt(m.From)
	_, occupied := d.PieceAt(m.To)
	switch mover.Type {
	case Pawn:
		m.EnPassant = !occupied && m.From.File() != m.To.File()
	case King:
		df := m.To.File() - m.From.File()
		m.Castle = df == 2 || df == -2
	}
	m.Capture = occupied || m.EnPassant
	return m
}

// pieceTypeAt finds which of one side's bitboards holds the square.
func pieceTypeAt(position uint8, bitboards *dragontoothmg.Bitboards) (PieceType, bool) {
	mask := uint64(1) << position
	switch {
	case bitboards.Pawns&mask != 0:
		return Pawn, true
	case bitboards.Knights&mask != 0:
		return Knight, true
	case bitboards.Bishops&mask != 0:
		return Bishop, true
	case bitboards.Rooks&mask != 0:
		return Rook, true
	case bitboards.Queens&mask != 0:
		return Queen, true
	case bitboards.Kings&mask != 0:
		return King, true
	}
	return NoPieceType, false
}

func pieceTypeFromDragon(p dragontoothmg.Piece) PieceType {
	switch p {
	case dragontoothmg.Knight:
		return Knight
	case dragontoothmg.Bishop:
		return Bishop
	case dragontoothmg.Rook:
		return Rook
	case dragontoothmg.Queen:
		return Queen
	}
	return NoPieceType
}
