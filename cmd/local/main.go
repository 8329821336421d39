package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/iamasit07/connect4-ai/internal/config"
	"github.com/iamasit07/connect4-ai/internal/domain"
	"github.com/iamasit07/connect4-ai/internal/service/bot"
)

type options struct {
	versus string // "ai" or "human"
	first  string // "random", "human" or "ai"
	depth  int
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	godotenv.Load()
	cfg := config.LoadConfig()

	opts := options{}
	flag.StringVar(&opts.versus, "versus", "ai", `opponent: "ai" or "human"`)
	flag.StringVar(&opts.first, "first", "random", `who moves first against the AI: "random", "human" or "ai"`)
	flag.IntVar(&opts.depth, "depth", cfg.SearchDepth, "search depth in plies")
	verbose := flag.Bool("v", false, "log engine statistics")
	flag.Parse()

	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	engine := bot.NewEngine(bot.WithDepth(opts.depth), bot.WithMaxCacheEntries(cfg.MaxCacheEntries))
	if err := run(context.Background(), os.Stdin, os.Stdout, opts, engine, frand.Intn); err != nil {
		log.Fatal().Err(err).Msg("game aborted")
	}
}

// run plays one game on in/out. pick chooses the starting side against the AI.
func run(ctx context.Context, in io.Reader, out io.Writer, opts options, engine *bot.Engine, pick func(int) int) error {
	first := domain.PlayerPiece
	if opts.versus == "ai" {
		switch opts.first {
		case "human":
		case "ai":
			first = domain.AIPiece
		default:
			first = domain.Cell(pick(2) + 1)
		}
	}

	g := domain.NewGame(first)
	scanner := bufio.NewScanner(in)
	newGame := true

	for !g.IsFinished() {
		fmt.Fprintln(out, g.Board.String())

		var col int
		if opts.versus == "ai" && g.CurrentPlayer == domain.AIPiece {
			var err error
			col, err = engine.SelectMove(ctx, g.Board, domain.AIPiece, domain.LegalColumns(g.Board), newGame)
			if err != nil {
				return fmt.Errorf("engine failed: %w", err)
			}
			newGame = false
			fmt.Fprintf(out, "AI plays column %d\n", col+1)
		} else {
			var err error
			col, err = readColumn(scanner, out, g)
			if err != nil {
				return err
			}
		}

		if _, err := g.MakeMove(g.CurrentPlayer, col); err != nil {
			fmt.Fprintf(out, "%v, try again\n", err)
		}
	}

	fmt.Fprintln(out, g.Board.String())
	switch {
	case g.Status == domain.StatusDraw:
		fmt.Fprintln(out, "Draw!")
	case opts.versus == "ai" && g.Winner == domain.AIPiece:
		fmt.Fprintln(out, "AI wins!")
	default:
		fmt.Fprintf(out, "Player %d wins!\n", g.Winner)
	}
	return nil
}

// readColumn prompts until it gets a number in 1..7 and returns it zero based.
func readColumn(scanner *bufio.Scanner, out io.Writer, g *domain.Game) (int, error) {
	for {
		fmt.Fprintf(out, "Player %d, choose a column (1-%d): ", g.CurrentPlayer, domain.Columns)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return 0, err
			}
			return 0, errors.New("input closed before the game finished")
		}
		n, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err != nil || n < 1 || n > domain.Columns {
			fmt.Fprintf(out, "enter a number between 1 and %d\n", domain.Columns)
			continue
		}
		return n - 1, nil
	}
}
