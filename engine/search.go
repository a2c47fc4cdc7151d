package engine

import (
	"math"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/JamiaHub/JAMIAHUB/rules"
)

// =============================================================================
// SCORE CONSTANTS
// =============================================================================
const (
	// Inf bounds every reachable score; the material total never approaches it.
	Inf          = math.MaxInt32
	DefaultDepth = 3
)

// Options configures a Searcher.
type Options struct {
	Depth int
	// CapturesFirst orders interior nodes by MVV-LVA. The root keeps canonical
	// order so the chosen move is the same either way.
	CapturesFirst bool
	// Pruning enables alpha-beta cutoffs. Without it the search visits the full tree.
	Pruning bool
	// Rand drives the fallback move choice. Nil seeds from the clock.
	Rand   *rand.Rand
	Logger logrus.FieldLogger
}

func DefaultOptions() Options {
	return Options{Depth: DefaultDepth, Pruning: true}
}

// Searcher runs depth-limited minimax over a borrowed position. It keeps no
// state between searches other than the last Stats and is not safe for
// concurrent use.
type Searcher struct {
	opts  Options
	rng   *rand.Rand
	log   logrus.FieldLogger
	stats Stats
}

func NewSearcher(opts Options) *Searcher {
	if opts.Depth < 1 {
		opts.Depth = 1
	}
	s := &Searcher{opts: opts, rng: opts.Rand, log: opts.Logger}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	return s
}

func (s *Searcher) Stats() Stats { return s.stats }

// Minimax evaluates pos to the given depth with a fresh pruning searcher.
func Minimax(pos rules.Position, depth, alpha, beta int, maximizing bool) int {
	return NewSearcher(DefaultOptions()).Minimax(pos, depth, alpha, beta, maximizing)
}

// SelectBestMove searches to maxDepth for side and reports false when side has no move.
func SelectBestMove(pos rules.Position, side rules.Color, maxDepth int) (rules.Move, bool) {
	opts := DefaultOptions()
	opts.Depth = maxDepth
	return NewSearcher(opts).SelectBestMove(pos, side)
}

// withMove applies m, runs fn and undoes m before returning, panics included.
func withMove(pos rules.Position, m rules.Move, fn func() int) (int, error) {
	if err := pos.Apply(m); err != nil {
		return 0, err
	}
	defer pos.Undo()
	return fn(), nil
}

func (s *Searcher) Minimax(pos rules.Position, depth, alpha, beta int, maximizing bool) int {
	s.stats.Nodes++
	if depth <= 0 || pos.IsGameOver() {
		s.stats.Leaves++
		return Evaluate(pos)
	}

	moves := pos.LegalMoves()
	if s.opts.CapturesFirst {
		capturesFirst(pos, moves)
	}

	best := Inf
	if maximizing {
		best = -Inf
	}
	for _, m := range moves {
		score, err := withMove(pos, m, func() int {
			return s.Minimax(pos, depth-1, alpha, beta, !maximizing)
		})
		if err != nil {
			s.log.WithError(err).WithField("move", m.String()).Warn("skipping move the position refused")
			continue
		}
		if maximizing {
			best = Max(best, score)
			alpha = Max(alpha, score)
		} else {
			best = Min(best, score)
			beta = Min(beta, score)
		}
		if s.opts.Pruning && beta <= alpha {
			s.stats.BetaCutoffs++
			break
		}
	}
	return best
}

// SelectBestMove scores every root move in canonical order and keeps the first
// best one, maximizing for White and minimizing for Black.
func (s *Searcher) SelectBestMove(pos rules.Position, side rules.Color) (rules.Move, bool) {
	s.stats.Reset()
	if side != pos.SideToMove() {
		return rules.Move{}, false
	}
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return rules.Move{}, false
	}

	var best rules.Move
	found := false
	bestScore := Inf
	if side == rules.White {
		bestScore = -Inf
	}
	for _, m := range moves {
		score, err := withMove(pos, m, func() int {
			return s.Minimax(pos, s.opts.Depth-1, -Inf, Inf, side == rules.Black)
		})
		if err != nil {
			s.log.WithError(err).WithField("move", m.String()).Warn("skipping root move the position refused")
			continue
		}
		if (side == rules.White && score > bestScore) || (side == rules.Black && score < bestScore) {
			best, bestScore, found = m, score, true
		}
	}

	if !found {
		best = moves[s.rng.Intn(len(moves))]
		s.log.WithField("move", best.String()).Debug("no scored move, falling back to a random legal move")
	}
	s.log.WithFields(s.stats.fields()).WithFields(logrus.Fields{
		"depth": s.opts.Depth,
		"best":  best.String(),
		"score": bestScore,
	}).Debug("search finished")
	return best, true
}
