package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/JamiaHub/JAMIAHUB/engine"
	"github.com/JamiaHub/JAMIAHUB/rules"
)

type variant struct {
	name          string
	pruning       bool
	capturesFirst bool
}

var variants = []variant{
	{"full", false, false},
	{"alphabeta", true, false},
	{"alphabeta+mvvlva", true, true},
}

func main() {
	// --- Flags ---
	depthFlag := flag.Int("depth", engine.DefaultDepth, "search depth in plies")
	repeatFlag := flag.Int("repeat", 1, "number of searches to run per variant")
	fenFlag := flag.String("fen", rules.StartFEN, "FEN to search")
	backendFlag := flag.String("backend", string(rules.BackendGoose), "move generator: goose, dragon or notnil")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	memProfile := flag.String("memprofile", "", "write memory profile (heap) to file")
	flag.Parse()

	if *depthFlag <= 0 {
		logrus.Fatalf("depth must be positive, got %d", *depthFlag)
	}

	// --- Optional CPU profiling setup ---
	if *cpuProfile != "" {
		cpuFile, err := os.Create(*cpuProfile)
		if err != nil {
			logrus.Fatalf("could not create CPU profile: %v", err)
		}
		if err := pprof.StartCPUProfile(cpuFile); err != nil {
			logrus.Fatalf("could not start CPU profile: %v", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			cpuFile.Close()
		}()
	}

	fmt.Printf("searchbench: backend=%s fen=%q depth=%d repeat=%d\n", *backendFlag, *fenFlag, *depthFlag, *repeatFlag)

	for _, v := range variants {
		opts := engine.DefaultOptions()
		opts.Depth = *depthFlag
		opts.Pruning = v.pruning
		opts.CapturesFirst = v.capturesFirst

		var total engine.Stats
		var best rules.Move
		start := time.Now()
		for i := 0; i < *repeatFlag; i++ {
			// Fresh position for each run
			board, err := rules.New(rules.Backend(*backendFlag), *fenFlag)
			if err != nil {
				logrus.Fatalf("position: %v", err)
			}
			searcher := engine.NewSearcher(opts)
			move, ok := searcher.SelectBestMove(board, board.SideToMove())
			if !ok {
				logrus.Fatalf("no legal move in %s", *fenFlag)
			}
			best = move
			stats := searcher.Stats()
			total.Nodes += stats.Nodes
			total.Leaves += stats.Leaves
			total.BetaCutoffs += stats.BetaCutoffs
		}
		elapsed := time.Since(start)
		fmt.Printf("%-18s bestmove %s  nodes=%d leaves=%d cutoffs=%d  time=%v\n",
			v.name, best, total.Nodes, total.Leaves, total.BetaCutoffs, elapsed)
	}

	// --- Optional heap profile at the end ---
	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			logrus.Fatalf("could not create memory profile: %v", err)
		}
		defer f.Close()

		runtime.GC() // get up-to-date heap info
		if err := pprof.WriteHeapProfile(f); err != nil {
			logrus.Fatalf("could not write memory profile: %v", err)
		}
	}
}
