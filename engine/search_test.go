package engine

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JamiaHub/JAMIAHUB/rules"
)

var searchFENs = []string{
	rules.StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1",
	"rnbqkb1r/pppp1ppp/5n2/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
	"4k3/3r4/8/8/3Q4/8/8/4K3 b - - 0 1",
}

func newPosition(t *testing.T, backend rules.Backend, fen string) rules.Position {
	t.Helper()
	p, err := rules.New(backend, fen)
	require.NoError(t, err)
	return p
}

func seeded(opts Options) Options {
	opts.Rand = rand.New(rand.NewSource(1))
	return opts
}

// mirrorFEN swaps colours and flips the board vertically.
func mirrorFEN(fen string) string {
	fields := strings.Fields(fen)
	ranks := strings.Split(fields[0], "/")
	for i, j := 0, len(ranks)-1; i < j; i, j = i+1, j-1 {
		ranks[i], ranks[j] = ranks[j], ranks[i]
	}
	swapCase := func(s string) string {
		return strings.Map(func(r rune) rune {
			switch {
			case r >= 'a' && r <= 'z':
				return r - 'a' + 'A'
			case r >= 'A' && r <= 'Z':
				return r - 'A' + 'a'
			}
			return r
		}, s)
	}
	fields[0] = swapCase(strings.Join(ranks, "/"))
	if fields[1] == "w" {
		fields[1] = "b"
	} else {
		fields[1] = "w"
	}
	if fields[2] != "-" {
		swapped := swapCase(fields[2])
		var rights strings.Builder
		for _, r := range "KQkq" {
			if strings.ContainsRune(swapped, r) {
				rights.WriteRune(r)
			}
		}
		fields[2] = rights.String()
	}
	if ep := fields[3]; ep != "-" {
		fields[3] = string([]byte{ep[0], '1' + ('8' - ep[1])})
	}
	return strings.Join(fields, " ")
}

func TestSelectBestMoveIsLegal(t *testing.T) {
	for _, backend := range rules.Backends {
		for _, fen := range searchFENs {
			pos := newPosition(t, backend, fen)
			legal := pos.LegalMoves()
			m, ok := NewSearcher(seeded(Options{Depth: 2, Pruning: true})).SelectBestMove(pos, pos.SideToMove())
			require.True(t, ok, "backend %s fen %q", backend, fen)
			assert.Contains(t, legal, m, "backend %s fen %q", backend, fen)
		}
	}
}

func TestSearchRestoresPosition(t *testing.T) {
	for _, backend := range rules.Backends {
		for _, fen := range searchFENs {
			pos := newPosition(t, backend, fen)
			before := pos.FEN()
			_, _ = SelectBestMove(pos, pos.SideToMove(), DefaultDepth)
			assert.Equal(t, before, pos.FEN(), "backend %s", backend)
			_ = Minimax(pos, 2, -Inf, Inf, true)
			assert.Equal(t, before, pos.FEN(), "backend %s", backend)
		}
	}
}

func TestMinimaxDepthZeroIsEvaluate(t *testing.T) {
	for _, fen := range searchFENs {
		pos := newPosition(t, rules.BackendGoose, fen)
		assert.Equal(t, Evaluate(pos), Minimax(pos, 0, -Inf, Inf, true))
		assert.Equal(t, Evaluate(pos), Minimax(pos, -3, -Inf, Inf, false))
	}
}

func TestMinimaxGameOverIsEvaluate(t *testing.T) {
	pos := newPosition(t, rules.BackendGoose, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	assert.Equal(t, Evaluate(pos), Minimax(pos, 3, -Inf, Inf, true))
}

func TestEvaluateMaterial(t *testing.T) {
	pos := newPosition(t, rules.BackendGoose, rules.StartFEN)
	assert.Equal(t, 0, Evaluate(pos))

	pos = newPosition(t, rules.BackendGoose, "4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1")
	assert.Equal(t, 500-900, Evaluate(pos))
}

func TestEvaluateMirrorSymmetry(t *testing.T) {
	for _, backend := range rules.Backends {
		for _, fen := range searchFENs {
			pos := newPosition(t, backend, fen)
			mirrored := newPosition(t, backend, mirrorFEN(fen))
			assert.Equal(t, -Evaluate(pos), Evaluate(mirrored), "fen %q", fen)
		}
	}
}

func TestAlphaBetaMatchesFullMinimax(t *testing.T) {
	for _, fen := range searchFENs {
		for depth := 1; depth <= 3; depth++ {
			if depth == 3 && strings.HasPrefix(fen, "r3k2r") {
				continue
			}
			pos := newPosition(t, rules.BackendGoose, fen)
			maximizing := pos.SideToMove() == rules.White

			pruned := NewSearcher(Options{Depth: depth, Pruning: true})
			full := NewSearcher(Options{Depth: depth})
			ordered := NewSearcher(Options{Depth: depth, Pruning: true, CapturesFirst: true})

			want := full.Minimax(pos, depth, -Inf, Inf, maximizing)
			assert.Equal(t, want, pruned.Minimax(pos, depth, -Inf, Inf, maximizing), "fen %q depth %d", fen, depth)
			assert.Equal(t, want, ordered.Minimax(pos, depth, -Inf, Inf, maximizing), "fen %q depth %d", fen, depth)
			assert.LessOrEqual(t, pruned.Stats().Nodes, full.Stats().Nodes)
			assert.Zero(t, full.Stats().BetaCutoffs)
		}
	}
}

func TestPruningAndOrderingKeepTheChosenMove(t *testing.T) {
	for _, fen := range searchFENs {
		pos := newPosition(t, rules.BackendGoose, fen)
		side := pos.SideToMove()

		full := NewSearcher(seeded(Options{Depth: 2}))
		want, ok := full.SelectBestMove(pos, side)
		require.True(t, ok)

		for _, opts := range []Options{
			{Depth: 2, Pruning: true},
			{Depth: 2, Pruning: true, CapturesFirst: true},
		} {
			s := NewSearcher(seeded(opts))
			got, ok := s.SelectBestMove(pos, side)
			require.True(t, ok)
			assert.Equal(t, want, got, "fen %q opts %+v", fen, opts)
		}
	}
}

func TestPruningVisitsFewerNodes(t *testing.T) {
	pos := newPosition(t, rules.BackendGoose, rules.StartFEN)
	pruned := NewSearcher(Options{Depth: 3, Pruning: true})
	full := NewSearcher(Options{Depth: 3})
	pruned.SelectBestMove(pos, rules.White)
	full.SelectBestMove(pos, rules.White)
	assert.Less(t, pruned.Stats().Nodes, full.Stats().Nodes)
	assert.Positive(t, pruned.Stats().BetaCutoffs)
	assert.Equal(t, uint64(8902), full.Stats().Leaves)
}

func TestSelectBestMoveCapturesHangingQueen(t *testing.T) {
	for _, backend := range rules.Backends {
		for _, depth := range []int{1, 3} {
			pos := newPosition(t, backend, "4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1")
			m, ok := SelectBestMove(pos, rules.White, depth)
			require.True(t, ok)
			assert.Equal(t, "d2d5", m.String(), "backend %s depth %d", backend, depth)

			pos = newPosition(t, backend, "4k3/3r4/8/8/3Q4/8/8/4K3 b - - 0 1")
			m, ok = SelectBestMove(pos, rules.Black, depth)
			require.True(t, ok)
			assert.Equal(t, "d7d4", m.String(), "backend %s depth %d", backend, depth)
		}
	}
}

func TestSelectBestMoveTiesKeepFirstCanonicalMove(t *testing.T) {
	pos := newPosition(t, rules.BackendGoose, rules.StartFEN)
	m, ok := SelectBestMove(pos, rules.White, 1)
	require.True(t, ok)
	assert.Equal(t, pos.LegalMoves()[0], m)
}

func TestSelectBestMoveDepthClamp(t *testing.T) {
	pos := newPosition(t, rules.BackendGoose, "4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1")
	m, ok := SelectBestMove(pos, rules.White, 0)
	require.True(t, ok)
	assert.Equal(t, "d2d5", m.String())
}

func TestSelectBestMoveWrongSide(t *testing.T) {
	pos := newPosition(t, rules.BackendGoose, rules.StartFEN)
	m, ok := SelectBestMove(pos, rules.Black, 2)
	assert.False(t, ok)
	assert.Equal(t, rules.Move{}, m)
}

func TestSelectBestMoveNoMoves(t *testing.T) {
	for _, fen := range []string{
		"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3",
		"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
	} {
		pos := newPosition(t, rules.BackendGoose, fen)
		_, ok := SelectBestMove(pos, pos.SideToMove(), 3)
		assert.False(t, ok, fen)
	}
}

// refusing accepts no move, which leaves the root without a scored candidate.
type refusing struct{ rules.Position }

func (refusing) Apply(rules.Move) error { return errors.New("refused") }

func TestSelectBestMoveFallsBackToRandomLegalMove(t *testing.T) {
	pos := refusing{newPosition(t, rules.BackendGoose, rules.StartFEN)}
	m, ok := NewSearcher(seeded(DefaultOptions())).SelectBestMove(pos, rules.White)
	require.True(t, ok)
	assert.Contains(t, pos.LegalMoves(), m)
}

// exploding panics on the n-th PieceAt call, deep inside the search tree.
type exploding struct {
	rules.Position
	left int
}

func (e *exploding) PieceAt(sq rules.Square) (rules.Piece, bool) {
	e.left--
	if e.left == 0 {
		panic("evaluation failed")
	}
	return e.Position.PieceAt(sq)
}

func TestSearchRestoresPositionOnPanic(t *testing.T) {
	for _, backend := range rules.Backends {
		inner := newPosition(t, backend, rules.StartFEN)
		before := inner.FEN()
		pos := &exploding{Position: inner, left: 64*30 + 7}
		assert.Panics(t, func() { Minimax(pos, 3, -Inf, Inf, true) }, "backend %s", backend)
		assert.Equal(t, before, inner.FEN(), "backend %s", backend)
		assert.Equal(t, 20, len(inner.LegalMoves()))
	}
}

func TestCapturesFirstOrdering(t *testing.T) {
	pos := newPosition(t, rules.BackendGoose, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	canonical := pos.LegalMoves()
	moves := append([]rules.Move(nil), canonical...)
	capturesFirst(pos, moves)

	require.Len(t, moves, len(canonical))
	seenQuiet := false
	var quiets []rules.Move
	for i, m := range moves {
		if !m.Capture {
			seenQuiet = true
			quiets = append(quiets, m)
			continue
		}
		assert.False(t, seenQuiet, "capture %s after a quiet move", m)
		if i > 0 && moves[i-1].Capture {
			assert.GreaterOrEqual(t, captureScore(pos, moves[i-1]), captureScore(pos, m))
		}
	}
	var canonicalQuiets []rules.Move
	for _, m := range canonical {
		if !m.Capture {
			canonicalQuiets = append(canonicalQuiets, m)
		}
	}
	assert.Equal(t, canonicalQuiets, quiets)
}

func TestCaptureScoreMVVLVA(t *testing.T) {
	pos := newPosition(t, rules.BackendGoose, "4k3/8/8/3q4/4P3/8/3R4/4K3 w - - 0 1")
	var pawnTakesQueen, rookTakesQueen rules.Move
	for _, m := range pos.LegalMoves() {
		switch m.String() {
		case "e4d5":
			pawnTakesQueen = m
		case "d2d5":
			rookTakesQueen = m
		}
	}
	require.True(t, pawnTakesQueen.Capture)
	require.True(t, rookTakesQueen.Capture)
	assert.Greater(t, captureScore(pos, pawnTakesQueen), captureScore(pos, rookTakesQueen))
}
