package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	kiwipeteFEN  = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	foolsMateFEN = "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"
	stalemateFEN = "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"
)

func newPosition(t *testing.T, backend Backend, fen string) Position {
	t.Helper()
	p, err := New(backend, fen)
	require.NoError(t, err, "backend %s fen %q", backend, fen)
	return p
}

func mustMove(t *testing.T, s string) Move {
	t.Helper()
	m, err := ParseMove(s)
	require.NoError(t, err)
	return m
}

func TestNewUnknownBackend(t *testing.T) {
	_, err := New("stockfish", StartFEN)
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestNewDefaultsToGoose(t *testing.T) {
	p, err := New("", StartFEN)
	require.NoError(t, err)
	assert.IsType(t, &GooseBoard{}, p)
}

func TestNewRejectsBadFEN(t *testing.T) {
	for _, backend := range Backends {
		for _, fen := range []string{"", "not a fen", "8/8/8 w - -", "8/8/8/8/8/8/8/8 x - - 0 1"} {
			_, err := New(backend, fen)
			assert.ErrorIs(t, err, ErrInvalidFEN, "backend %s fen %q", backend, fen)
		}
	}
}

func TestPerftStartPosition(t *testing.T) {
	want := []uint64{1, 20, 400, 8902}
	for _, backend := range Backends {
		p := newPosition(t, backend, StartFEN)
		before := p.FEN()
		for depth, nodes := range want {
			assert.Equal(t, nodes, Perft(p, depth), "backend %s depth %d", backend, depth)
		}
		assert.Equal(t, before, p.FEN(), "backend %s left position modified", backend)
	}
}

func TestPerftKiwipete(t *testing.T) {
	for _, backend := range Backends {
		p := newPosition(t, backend, kiwipeteFEN)
		assert.Equal(t, uint64(48), Perft(p, 1), "backend %s", backend)
		assert.Equal(t, uint64(2039), Perft(p, 2), "backend %s", backend)
	}
}

func TestPerftDivideSumsToPerft(t *testing.T) {
	p := newPosition(t, BackendGoose, kiwipeteFEN)
	div := PerftDivide(p, 2)
	require.Len(t, div, 48)
	var sum uint64
	for _, n := range div {
		sum += n
	}
	assert.Equal(t, uint64(2039), sum)
	assert.Empty(t, PerftDivide(p, 0))
}

func TestLegalMovesCanonicalAcrossBackends(t *testing.T) {
	for _, fen := range []string{StartFEN, kiwipeteFEN, foolsMateFEN, stalemateFEN} {
		var reference []string
		for i, backend := range Backends {
			p := newPosition(t, backend, fen)
			moves := p.LegalMoves()
			got := make([]string, len(moves))
			for j, m := range moves {
				got[j] = m.String()
				if j > 0 {
					prev := moves[j-1]
					assert.True(t, prev.From < m.From || (prev.From == m.From && prev.To <= m.To),
						"backend %s not sorted at %s after %s", backend, m, prev)
				}
			}
			if i == 0 {
				reference = got
				continue
			}
			assert.Equal(t, reference, got, "backend %s fen %q", backend, fen)
		}
	}
}

func TestMoveFlagsAgreeAcrossBackends(t *testing.T) {
	for _, backend := range Backends {
		p := newPosition(t, backend, kiwipeteFEN)
		var captures, castles int
		for _, m := range p.LegalMoves() {
			if m.Capture {
				captures++
			}
			if m.Castle {
				castles++
			}
		}
		assert.Equal(t, 8, captures, "backend %s", backend)
		assert.Equal(t, 2, castles, "backend %s", backend)
	}
}

func TestEnPassantFlag(t *testing.T) {
	fen := "rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3"
	for _, backend := range Backends {
		p := newPosition(t, backend, fen)
		var found bool
		for _, m := range p.LegalMovesFrom(mustSquare(t, "e5")) {
			if m.String() == "e5f6" {
				found = true
				assert.True(t, m.EnPassant, "backend %s", backend)
				assert.True(t, m.Capture, "backend %s", backend)
			}
		}
		assert.True(t, found, "backend %s missing e5f6", backend)
	}
}

func TestApplyUndoRestoresFEN(t *testing.T) {
	line := []string{"e2e4", "d7d5", "e4d5", "d8d5", "b1c3"}
	for _, backend := range Backends {
		p := newPosition(t, backend, StartFEN)
		fens := []string{p.FEN()}
		for _, s := range line {
			require.NoError(t, p.Apply(mustMove(t, s)), "backend %s move %s", backend, s)
			fens = append(fens, p.FEN())
		}
		for i := len(line) - 1; i >= 0; i-- {
			p.Undo()
			assert.Equal(t, fens[i], p.FEN(), "backend %s after undoing %s", backend, line[i])
		}
	}
}

func TestApplyIllegalMove(t *testing.T) {
	for _, backend := range Backends {
		p := newPosition(t, backend, StartFEN)
		before := p.FEN()
		err := p.Apply(mustMove(t, "e2e5"))
		assert.ErrorIs(t, err, ErrIllegalMove, "backend %s", backend)
		assert.Equal(t, before, p.FEN())
	}
}

func TestUndoWithoutApplyPanics(t *testing.T) {
	for _, backend := range Backends {
		p := newPosition(t, backend, StartFEN)
		assert.Panics(t, p.Undo, "backend %s", backend)
	}
}

func TestPromotionMoves(t *testing.T) {
	fen := "8/P6k/8/8/8/8/8/K7 w - - 0 1"
	for _, backend := range Backends {
		p := newPosition(t, backend, fen)
		var promos []PieceType
		for _, m := range p.LegalMovesFrom(mustSquare(t, "a7")) {
			promos = append(promos, m.Promotion)
		}
		assert.ElementsMatch(t, []PieceType{Knight, Bishop, Rook, Queen}, promos, "backend %s", backend)
		require.NoError(t, p.Apply(mustMove(t, "a7a8q")))
		piece, ok := p.PieceAt(mustSquare(t, "a8"))
		require.True(t, ok)
		assert.Equal(t, Piece{Queen, White}, piece, "backend %s", backend)
	}
}

func TestCheckmate(t *testing.T) {
	for _, backend := range Backends {
		p := newPosition(t, backend, foolsMateFEN)
		assert.Empty(t, p.LegalMoves(), "backend %s", backend)
		assert.True(t, p.InCheck(), "backend %s", backend)
		assert.True(t, p.IsCheckmate(), "backend %s", backend)
		assert.False(t, p.IsDraw(), "backend %s", backend)
		assert.True(t, p.IsGameOver(), "backend %s", backend)
		assert.Equal(t, White, p.SideToMove())
	}
}

func TestStalemate(t *testing.T) {
	for _, backend := range Backends {
		p := newPosition(t, backend, stalemateFEN)
		assert.Empty(t, p.LegalMoves(), "backend %s", backend)
		assert.False(t, p.InCheck(), "backend %s", backend)
		assert.False(t, p.IsCheckmate(), "backend %s", backend)
		assert.True(t, p.IsDraw(), "backend %s", backend)
		assert.True(t, p.IsGameOver(), "backend %s", backend)
	}
}

func TestFiftyMoveRule(t *testing.T) {
	for _, backend := range Backends {
		p := newPosition(t, backend, "7k/8/8/8/8/8/R7/K7 w - - 100 80")
		assert.True(t, p.IsDraw(), "backend %s", backend)
		assert.True(t, p.IsGameOver(), "backend %s", backend)

		p = newPosition(t, backend, "7k/8/8/8/8/8/R7/K7 w - - 99 80")
		assert.False(t, p.IsDraw(), "backend %s", backend)
	}
}

func TestThreefoldRepetition(t *testing.T) {
	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}
	for _, backend := range Backends {
		p := newPosition(t, backend, StartFEN)
		for _, s := range shuffle {
			require.NoError(t, p.Apply(mustMove(t, s)))
		}
		assert.False(t, p.IsDraw(), "backend %s: only two occurrences", backend)
		for _, s := range shuffle {
			require.NoError(t, p.Apply(mustMove(t, s)))
		}
		assert.True(t, p.IsDraw(), "backend %s", backend)
		p.Undo()
		assert.False(t, p.IsDraw(), "backend %s after undo", backend)
	}
}

func TestInsufficientMaterial(t *testing.T) {
	cases := []struct {
		fen  string
		draw bool
	}{
		{"8/8/4k3/8/8/3K4/8/8 w - - 0 1", true},
		{"8/8/4k3/8/8/3K4/8/6N1 w - - 0 1", true},
		{"8/8/4k3/8/8/3K4/8/5B2 w - - 0 1", true},
		{"8/8/2b1k3/8/8/3K4/8/5B2 w - - 0 1", true},
		{"8/8/3bk3/8/8/3K4/8/5B2 w - - 0 1", false},
		{"8/8/4k3/8/8/3K4/8/4NN2 w - - 0 1", false},
		{"8/8/4k3/8/8/3K4/4P3/8 w - - 0 1", false},
	}
	for _, c := range cases {
		for _, backend := range Backends {
			p := newPosition(t, backend, c.fen)
			assert.Equal(t, c.draw, p.IsDraw(), "backend %s fen %q", backend, c.fen)
		}
	}
}

func TestPieceAtAndSideToMove(t *testing.T) {
	for _, backend := range Backends {
		p := newPosition(t, backend, StartFEN)
		piece, ok := p.PieceAt(mustSquare(t, "e1"))
		require.True(t, ok)
		assert.Equal(t, Piece{King, White}, piece)
		piece, ok = p.PieceAt(mustSquare(t, "d8"))
		require.True(t, ok)
		assert.Equal(t, Piece{Queen, Black}, piece)
		_, ok = p.PieceAt(mustSquare(t, "e4"))
		assert.False(t, ok)

		require.NoError(t, p.Apply(mustMove(t, "e2e4")))
		assert.Equal(t, Black, p.SideToMove(), "backend %s", backend)
	}
}

func TestLegalMovesFrom(t *testing.T) {
	for _, backend := range Backends {
		p := newPosition(t, backend, StartFEN)
		moves := p.LegalMovesFrom(mustSquare(t, "g1"))
		require.Len(t, moves, 2, "backend %s", backend)
		assert.Equal(t, "g1f3", moves[0].String())
		assert.Equal(t, "g1h3", moves[1].String())
		assert.Empty(t, p.LegalMovesFrom(mustSquare(t, "e4")))
		assert.Empty(t, p.LegalMovesFrom(mustSquare(t, "e7")))
	}
}
