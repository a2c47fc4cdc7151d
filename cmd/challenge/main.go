package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"github.com/JamiaHub/JAMIAHUB/challenge"
	"github.com/JamiaHub/JAMIAHUB/config"
	"github.com/JamiaHub/JAMIAHUB/sandbox"
)

type output struct {
	Challenge string              `json:"challenge"`
	Report    challenge.RunReport `json:"report"`
	Passed    int                 `json:"passed"`
	Total     int                 `json:"total"`
	Award     int                 `json:"award"`
	Score     int                 `json:"score"`
	TimeLeft  string              `json:"timeLeft"`
}

func main() {
	list := flag.Bool("list", false, "List the catalog and exit")
	name := flag.String("challenge", "", "Challenge slug or title")
	file := flag.String("file", "", "JavaScript solution file, - for stdin (defaults to the starter code)")
	flag.Parse()

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

	if *list {
		for _, c := range challenge.Catalog() {
			fmt.Printf("%-16s %s\n", c.Slug(), c.Signature)
		}
		return
	}

	c, ok := challenge.Find(*name)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown challenge %q, try -list\n", *name)
		os.Exit(2)
	}
	code, err := readSolution(*file, c.Starter)
	if err != nil {
		fmt.Fprintln(os.Stderr, "reading solution:", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log := logrus.WithField("challenge", c.Slug())
	runner := challenge.NewRunner(sandbox.NewGojaHost(log), challengeOptions(cfg, log))
	defer runner.Close()

	session := challenge.NewSession(nil)
	report := runner.RunChallenge(ctx, c, code)
	award := session.Record(report)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(output{
		Challenge: c.Title,
		Report:    report,
		Passed:    report.PassedCount(),
		Total:     len(c.Tests),
		Award:     award,
		Score:     session.Score(),
		TimeLeft:  challenge.FormatClock(session.TimeLeft()),
	}); err != nil {
		log.WithError(err).Error("writing report")
	}
	if !report.Passed() {
		os.Exit(1)
	}
}

func challengeOptions(cfg *config.Config, log logrus.FieldLogger) challenge.Options {
	opts := cfg.RunnerOptions()
	opts.Logger = log
	return opts
}

func readSolution(path, starter string) (string, error) {
	switch path {
	case "":
		return starter, nil
	case "-":
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}
