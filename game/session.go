package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"

	"github.com/JamiaHub/JAMIAHUB/engine"
	"github.com/JamiaHub/JAMIAHUB/rules"
)

var (
	ErrNotStarted   = errors.New("game not started")
	ErrGameOver     = errors.New("game is over")
	ErrNotYourTurn  = errors.New("not your turn")
	ErrNotYourPiece = errors.New("no piece of yours on that square")
)

const (
	StatusSelectSide    = "Select your side and start the game."
	StatusDraw          = "Draw"
	StatusCheck         = "Check"
	StatusYourMove      = "Your move"
	StatusComputersMove = "Computer's move"
)

// Entry is one played move in the history.
type Entry struct {
	Color rules.Color  `json:"color"`
	From  rules.Square `json:"from"`
	To    rules.Square `json:"to"`
}

func (e Entry) String() string { return fmt.Sprintf("%s %s%s", e.Color, e.From, e.To) }

// Session is a game between a human player and the search engine.
type Session struct {
	pos     rules.Position
	player  rules.Color
	started bool
	history []Entry

	search engine.Options
	rng    *rand.Rand
	log    logrus.FieldLogger
}

func NewSession(pos rules.Position, depth int) *Session {
	opts := engine.DefaultOptions()
	opts.Depth = depth
	return NewSessionWithOptions(pos, opts)
}

func NewSessionWithOptions(pos rules.Position, opts engine.Options) *Session {
	if opts.Depth < 1 {
		opts.Depth = engine.DefaultDepth
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		opts.Rand = rng
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Session{pos: pos, search: opts, rng: rng, log: log}
}

// Start begins a game with the player on side, rewinding any moves already played.
func (s *Session) Start(side rules.Color) {
	s.rewind()
	s.player = side
	s.started = true
	s.log.WithField("player", side).Debug("game started")
}

// NewGame replaces the position and waits for a side to be chosen again.
func (s *Session) NewGame(pos rules.Position) {
	s.pos = pos
	s.started = false
	s.history = nil
}

func (s *Session) rewind() {
	for range s.history {
		s.pos.Undo()
	}
	s.history = nil
}

func (s *Session) Started() bool            { return s.started }
func (s *Session) Player() rules.Color      { return s.player }
func (s *Session) Computer() rules.Color    { return s.player.Other() }
func (s *Session) Position() rules.Position { return s.pos }

func (s *Session) History() []Entry {
	return append([]Entry(nil), s.history...)
}

// Pending reports whether the computer is due to move.
func (s *Session) Pending() bool {
	return s.started && !s.pos.IsGameOver() && s.pos.SideToMove() == s.Computer()
}

// Highlights returns sq followed by the destinations of its legal moves when
// sq holds the player's piece and it is the player's turn. Otherwise nil.
func (s *Session) Highlights(sq rules.Square) []rules.Square {
	if !s.started || s.pos.IsGameOver() || s.pos.SideToMove() != s.player {
		return nil
	}
	piece, ok := s.pos.PieceAt(sq)
	if !ok || piece.Color != s.player {
		return nil
	}
	out := []rules.Square{sq}
	for _, m := range s.pos.LegalMovesFrom(sq) {
		if !slices.Contains(out, m.To) {
			out = append(out, m.To)
		}
	}
	return out
}

// PlayerMove plays from-to for the player. Pawns reaching the last rank become queens.
func (s *Session) PlayerMove(from, to rules.Square) (rules.Move, error) {
	switch {
	case !s.started:
		return rules.Move{}, ErrNotStarted
	case s.pos.IsGameOver():
		return rules.Move{}, ErrGameOver
	case s.pos.SideToMove() != s.player:
		return rules.Move{}, ErrNotYourTurn
	}
	if piece, ok := s.pos.PieceAt(from); !ok || piece.Color != s.player {
		return rules.Move{}, fmt.Errorf("%w: %s", ErrNotYourPiece, from)
	}

	moves := s.pos.LegalMovesFrom(from)
	i := slices.IndexFunc(moves, func(m rules.Move) bool {
		return m.To == to && (m.Promotion == rules.NoPieceType || m.Promotion == rules.Queen)
	})
	if i < 0 {
		return rules.Move{}, fmt.Errorf("%w: %s%s", rules.ErrIllegalMove, from, to)
	}
	if err := s.play(moves[i]); err != nil {
		return rules.Move{}, err
	}
	return moves[i], nil
}

// ComputerMove lets the engine move when it is the computer's turn.
func (s *Session) ComputerMove() (rules.Move, bool) {
	if !s.Pending() {
		return rules.Move{}, false
	}
	side := s.Computer()
	m, ok := engine.NewSearcher(s.search).SelectBestMove(s.pos, side)
	if !ok {
		moves := s.pos.LegalMoves()
		if len(moves) == 0 {
			return rules.Move{}, false
		}
		m = moves[s.rng.Intn(len(moves))]
	}
	if err := s.play(m); err != nil {
		s.log.WithError(err).Error("computer move rejected")
		return rules.Move{}, false
	}
	return m, true
}

func (s *Session) play(m rules.Move) error {
	color := s.pos.SideToMove()
	if err := s.pos.Apply(m); err != nil {
		return err
	}
	s.history = append(s.history, Entry{Color: color, From: m.From, To: m.To})
	s.log.WithFields(logrus.Fields{"color": color, "move": m.String()}).Debug("move played")
	return nil
}

func (s *Session) Status() string {
	switch {
	case !s.started:
		return StatusSelectSide
	case s.pos.IsCheckmate():
		return fmt.Sprintf("%s wins (checkmate)", title(s.pos.SideToMove().Other()))
	case s.pos.IsDraw():
		return StatusDraw
	case s.pos.InCheck():
		return StatusCheck
	case s.pos.SideToMove() == s.player:
		return StatusYourMove
	}
	return StatusComputersMove
}

func title(c rules.Color) string {
	if c == rules.White {
		return "White"
	}
	return "Black"
}
