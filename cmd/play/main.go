package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/JamiaHub/JAMIAHUB/config"
	"github.com/JamiaHub/JAMIAHUB/game"
	"github.com/JamiaHub/JAMIAHUB/rules"
)

const help = `commands:
  e2e4       move a piece
  e2         show where the piece on e2 can go
  new w|b    start over playing white or black
  history    list the moves so far
  quit`

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}
	closeLog, err := config.SetupLogging(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logging:", err)
		os.Exit(2)
	}
	defer closeLog()

	if err := play(os.Stdin, os.Stdout, cfg); err != nil {
		logrus.WithError(err).Error("game aborted")
		os.Exit(1)
	}
}

func play(in io.Reader, out io.Writer, cfg *config.Config) error {
	pos, err := rules.New(cfg.Rules.Backend, rules.StartFEN)
	if err != nil {
		return err
	}
	session := game.NewSessionWithOptions(pos, cfg.SearchOptions())
	scanner := bufio.NewScanner(in)

	fmt.Fprintln(out, help)
	fmt.Fprint(out, "play as (w/b)? ")
	for scanner.Scan() {
		tokens := strings.Fields(strings.ToLower(scanner.Text()))
		if len(tokens) == 0 {
			continue
		}

		switch cmd := tokens[0]; {
		case cmd == "quit":
			return nil
		case !session.Started() || cmd == "new":
			side := cmd
			if cmd == "new" && len(tokens) > 1 {
				side = tokens[1]
			}
			color, err := rules.ParseColor(side)
			if err != nil {
				fmt.Fprint(out, "play as (w/b)? ")
				continue
			}
			if cmd == "new" {
				fresh, err := rules.New(cfg.Rules.Backend, rules.StartFEN)
				if err != nil {
					return err
				}
				session.NewGame(fresh)
			}
			session.Start(color)
		case cmd == "history":
			for i, e := range session.History() {
				fmt.Fprintf(out, "%3d. %s\n", i+1, e)
			}
		case len(cmd) == 2:
			sq, err := rules.ParseSquare(cmd)
			if err != nil {
				fmt.Fprintln(out, err)
				break
			}
			squares := session.Highlights(sq)
			if len(squares) < 2 {
				fmt.Fprintln(out, "no moves from", sq)
				break
			}
			names := make([]string, 0, len(squares)-1)
			for _, to := range squares[1:] {
				names = append(names, to.String())
			}
			fmt.Fprintln(out, sq, "->", strings.Join(names, " "))
			continue
		default:
			m, err := rules.ParseMove(cmd)
			if err != nil {
				fmt.Fprintln(out, err)
				break
			}
			if _, err := session.PlayerMove(m.From, m.To); err != nil {
				fmt.Fprintln(out, err)
			}
		}

		if m, ok := session.ComputerMove(); ok {
			fmt.Fprintln(out, "computer plays", m)
		}
		drawBoard(out, session.Position(), session.Player())
		fmt.Fprintln(out, session.Status())
		fmt.Fprint(out, "> ")
	}
	return scanner.Err()
}

// drawBoard prints the position from the given side's point of view.
func drawBoard(out io.Writer, pos rules.Position, side rules.Color) {
	for row := 0; row < 8; row++ {
		rank := 7 - row
		if side == rules.Black {
			rank = row
		}
		var b strings.Builder
		fmt.Fprintf(&b, "%d ", rank+1)
		for col := 0; col < 8; col++ {
			file := col
			if side == rules.Black {
				file = 7 - col
			}
			if p, ok := pos.PieceAt(rules.NewSquare(file, rank)); ok {
				b.WriteString(p.String())
			} else {
				b.WriteByte('.')
			}
			b.WriteByte(' ')
		}
		fmt.Fprintln(out, strings.TrimRight(b.String(), " "))
	}
	if side == rules.Black {
		fmt.Fprintln(out, "  h g f e d c b a")
	} else {
		fmt.Fprintln(out, "  a b c d e f g h")
	}
}
