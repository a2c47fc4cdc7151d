package rules

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrIllegalMove    = errors.New("illegal move")
	ErrInvalidFEN     = errors.New("invalid FEN")
	ErrInvalidMove    = errors.New("invalid move notation")
	ErrInvalidSquare  = errors.New("invalid square")
	ErrUnknownBackend = errors.New("unknown rules backend")
)

// Color is the side owning a piece or having the move.
type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Other() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// ParseColor accepts "w", "white", "b" and "black" in any case.
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "w", "white":
		return White, nil
	case "b", "black":
		return Black, nil
	}
	return White, fmt.Errorf("unknown color %q", s)
}

// PieceType is a colorless piece kind.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceLetters = [...]byte{' ', 'p', 'n', 'b', 'r', 'q', 'k'}

// Letter returns the lower case FEN letter of the piece type.
func (pt PieceType) Letter() byte { return pieceLetters[pt] }

func pieceTypeFromLetter(ch byte) PieceType {
	switch ch {
	case 'n', 'N':
		return Knight
	case 'b', 'B':
		return Bishop
	case 'r', 'R':
		return Rook
	case 'q', 'Q':
		return Queen
	}
	return NoPieceType
}

// Piece is a piece type together with its owner.
type Piece struct {
	Type  PieceType
	Color Color
}

func (p Piece) String() string {
	ch := p.Type.Letter()
	if p.Color == White {
		ch -= 'a' - 'A'
	}
	return string(ch)
}

// Square indexes the board little-endian rank-file: a1 = 0, b1 = 1, h8 = 63.
type Square uint8

func NewSquare(file, rank int) Square { return Square(rank*8 + file) }

func (sq Square) File() int { return int(sq) % 8 }
func (sq Square) Rank() int { return int(sq) / 8 }

func (sq Square) String() string {
	return string([]byte{'a' + byte(sq.File()), '1' + byte(sq.Rank())})
}

// ParseSquare reads algebraic coordinates such as "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	file := int(s[0] - 'a')
	rank := int(s[1] - '1')
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	return NewSquare(file, rank), nil
}

// Move is a candidate transition produced by move enumeration. The flags are
// filled in by the backend that generated it; ParseMove leaves them unset.
type Move struct {
	From      Square
	To        Square
	Promotion PieceType
	Capture   bool
	Castle    bool
	EnPassant bool
}

// String returns the move in UCI long algebraic notation (e2e4, e7e8q).
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.Promotion != NoPieceType {
		s += string(m.Promotion.Letter())
	}
	return s
}

// Same reports whether two moves describe the same transition regardless of flags.
func (m Move) Same(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Promotion == o.Promotion
}

// ParseMove reads a UCI move string.
func ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	m := Move{From: from, To: to}
	if len(s) == 5 {
		m.Promotion = pieceTypeFromLetter(s[4])
		if m.Promotion == NoPieceType {
			return Move{}, fmt.Errorf("%w: bad promotion in %q", ErrInvalidMove, s)
		}
	}
	return m, nil
}
