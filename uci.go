package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/JamiaHub/JAMIAHUB/config"
	"github.com/JamiaHub/JAMIAHUB/engine"
	"github.com/JamiaHub/JAMIAHUB/rules"
)

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

	uciLoop(os.Stdin, os.Stdout, cfg)
}

// uciLoop answers commands from in until quit or EOF. Output goes to out and
// nothing but protocol lines is written there; diagnostics go to the logger.
func uciLoop(in io.Reader, out io.Writer, cfg *config.Config) {
	scanner := bufio.NewScanner(in)
	log := logrus.WithField("component", "uci")
	board, err := rules.New(cfg.Rules.Backend, rules.StartFEN) // the game board
	if err != nil {
		log.WithError(err).Error("cannot build start position")
		return
	}

	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Fields(line)
		if len(tokens) == 0 { // ignore blank lines
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "uci":
			fmt.Fprintln(out, "id name JamiaHub minimax")
			fmt.Fprintln(out, "id author JamiaHub")
			fmt.Fprintln(out, "uciok")
		case "isready":
			fmt.Fprintln(out, "readyok")
		case "ucinewgame":
			if fresh, err := rules.New(cfg.Rules.Backend, rules.StartFEN); err == nil {
				board = fresh
			}
		case "quit":
			return
		case "eval":
			fmt.Fprintf(out, "info string eval %d\n", engine.Evaluate(board))
		case "perft":
			depth := 1
			if len(tokens) > 1 {
				if depth, err = strconv.Atoi(tokens[1]); err != nil || depth < 0 {
					fmt.Fprintln(out, "info string Malformed perft depth")
					continue
				}
			}
			fmt.Fprintf(out, "info string perft %d nodes %d\n", depth, rules.Perft(board, depth))
		case "go":
			depth, err := goDepth(tokens[1:], cfg.Search.Depth)
			if err != nil {
				fmt.Fprintln(out, "info string", err)
				continue
			}
			opts := cfg.SearchOptions()
			opts.Depth = depth
			searcher := engine.NewSearcher(opts)
			best, ok := searcher.SelectBestMove(board, board.SideToMove())
			if !ok {
				fmt.Fprintln(out, "bestmove (none)")
				continue
			}
			stats := searcher.Stats()
			fmt.Fprintf(out, "info depth %d nodes %d\n", depth, stats.Nodes)
			fmt.Fprintln(out, "bestmove", best.String())
		case "position":
			next, err := parsePosition(cfg.Rules.Backend, tokens[1:])
			if err != nil {
				fmt.Fprintln(out, "info string", err)
				continue
			}
			board = next
		default:
			fmt.Fprintln(out, "info string Unknown command:", line)
		}
	}
	if err := scanner.Err(); err != nil {
		log.WithError(err).Error("reading commands")
	}
}

// goDepth reads "depth N" from the go arguments. Other subcommands are ignored
// since the search is not clocked.
func goDepth(args []string, fallback int) (int, error) {
	depth := fallback
	for i := 0; i < len(args); i++ {
		if strings.ToLower(args[i]) != "depth" {
			continue
		}
		if i+1 >= len(args) {
			return 0, errors.New("malformed go command option depth")
		}
		n, err := strconv.Atoi(args[i+1])
		if err != nil || n < 1 {
			return 0, fmt.Errorf("malformed go command option; could not convert depth %q", args[i+1])
		}
		depth = n
		i++
	}
	return depth, nil
}

// parsePosition builds the board described by "startpos|fen <fen> [moves ...]".
// A move that is not legal aborts the whole command so the previous board stays.
func parsePosition(backend rules.Backend, args []string) (rules.Position, error) {
	if len(args) == 0 {
		return nil, errors.New("malformed position command")
	}

	var fen string
	rest := args[1:]
	switch strings.ToLower(args[0]) {
	case "startpos":
		fen = rules.StartFEN
	case "fen":
		var fields []string
		for len(rest) > 0 && strings.ToLower(rest[0]) != "moves" {
			fields = append(fields, rest[0])
			rest = rest[1:]
		}
		if len(fields) == 0 {
			return nil, errors.New("invalid fen position")
		}
		fen = strings.Join(fields, " ")
	default:
		return nil, fmt.Errorf("invalid position subcommand %q", args[0])
	}

	board, err := rules.New(backend, fen)
	if err != nil {
		return nil, err
	}
	if len(rest) == 0 || strings.ToLower(rest[0]) != "moves" {
		return board, nil
	}
	for _, moveStr := range rest[1:] {
		m, err := rules.ParseMove(strings.ToLower(moveStr))
		if err != nil {
			return nil, err
		}
		if err := board.Apply(m); err != nil {
			return nil, err
		}
	}
	return board, nil
}
