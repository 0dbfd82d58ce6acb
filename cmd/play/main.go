package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/TechHon-P/othello-game/internal/api"
	"github.com/TechHon-P/othello-game/internal/config"
	"github.com/TechHon-P/othello-game/internal/models"
	"github.com/TechHon-P/othello-game/internal/othello"
	"github.com/TechHon-P/othello-game/internal/session"
)

const (
	pollInterval  = 100 * time.Millisecond
	waitTimeout   = time.Minute
	deleteTimeout = 5 * time.Second
)

const usage = `commands:
  d3            place a disc
  pass          pass when you cannot move
  undo          take back your last move
  reset         start over
  hints         toggle hints
  ai            toggle the computer player
  strength <n>  set the computer strength (1-10)
  advice        ask for the best move
  quit          leave the game`

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("Failed to load .env file", "error", err)
		os.Exit(1)
	}

	config.SetLogLevel()

	client := api.NewClient(config.LoadClientConfig())

	ctx := context.Background()

	view, err := client.CreateSession(ctx, models.CreateSessionRequest{})
	if err != nil {
		slog.Error("Failed to create session", "error", err)
		os.Exit(1)
	}

	deleteSession := sessionDeleter(client, view.ID)
	defer deleteSession()

	// Delete the session on interrupt, the blocked stdin read never returns
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go exitOnSignal(signals, deleteSession, os.Exit)

	fmt.Println(usage)
	printView(view)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if line == "quit" {
			return
		}

		if line == "advice" {
			printAdvice(ctx, client, view)
			continue
		}

		action, err := parseAction(line)
		if err != nil {
			fmt.Println(err)
			continue
		}

		next, err := client.Act(ctx, view.ID, action)
		if errors.Is(err, api.ErrRejected) {
			fmt.Println(err)
			continue
		}
		if err != nil {
			slog.Error("Failed to send action", "error", err)
			return
		}

		view = next
		printView(view)

		if view.ComputerPending {
			fmt.Println("computer is thinking...")

			waitCtx, cancel := context.WithTimeout(ctx, waitTimeout)
			view, err = client.WaitForHuman(waitCtx, view.ID, pollInterval)
			cancel()

			if err != nil {
				slog.Error("Failed to wait for computer move", "error", err)
				return
			}

			printView(view)
		}
	}
}

// sessionDeleter returns a function deleting session id once, however often it is called.
func sessionDeleter(client *api.Client, id string) func() {
	return sync.OnceFunc(func() {
		ctx, cancel := context.WithTimeout(context.Background(), deleteTimeout)
		defer cancel()

		if err := client.DeleteSession(ctx, id); err != nil {
			slog.Warn("Failed to delete session", "error", err)
		}
	})
}

func exitOnSignal(signals <-chan os.Signal, cleanup func(), exit func(code int)) {
	sig := <-signals
	slog.Info("Leaving game", "signal", sig.String())

	cleanup()
	exit(1)
}

func parseAction(line string) (models.ActionRequest, error) {
	fields := strings.Fields(line)

	switch fields[0] {
	case "pass":
		return models.ActionRequest{Type: models.ActionPass}, nil
	case "undo":
		return models.ActionRequest{Type: models.ActionUndo}, nil
	case "reset":
		return models.ActionRequest{Type: models.ActionReset}, nil
	case "hints":
		return models.ActionRequest{Type: models.ActionToggleHints}, nil
	case "ai":
		return models.ActionRequest{Type: models.ActionToggleAI}, nil
	case "strength":
		if len(fields) != 2 {
			return models.ActionRequest{}, errors.New("usage: strength <n>")
		}
		strength, err := strconv.Atoi(fields[1])
		if err != nil {
			return models.ActionRequest{}, fmt.Errorf("invalid strength: %w", err)
		}
		return models.ActionRequest{Type: models.ActionSetStrength, Strength: strength}, nil
	}

	move, err := othello.ParseMove(fields[0])
	if err != nil {
		return models.ActionRequest{}, fmt.Errorf("unknown command %q", line)
	}

	return models.ActionRequest{Type: models.ActionMove, Row: move.Row, Col: move.Col}, nil
}

func printAdvice(ctx context.Context, client *api.Client, view models.SessionView) {
	advice, err := client.BestMove(ctx, view.Board, view.Turn, view.Settings.Strength)
	if err != nil {
		fmt.Println(err)
		return
	}

	if advice.Move == nil {
		fmt.Printf("%s has to pass\n", view.Turn)
		return
	}

	fmt.Printf("best move for %s: %s\n", view.Turn, advice.Move)
}

func printView(view models.SessionView) {
	for _, line := range view.Board.ASCIIArtLines(view.Turn, view.Settings.ShowHints) {
		fmt.Println(line)
	}

	fmt.Printf("black: %d, white: %d\n", view.Black, view.White)

	if view.Status == session.Finished {
		if view.Winner == othello.EMPTY {
			fmt.Println("game over, it is a draw")
		} else {
			fmt.Printf("game over, %s wins\n", view.Winner)
		}
		return
	}

	if view.Passed {
		fmt.Printf("%s had to pass\n", view.Turn.Opponent())
	}

	fmt.Printf("%s to move\n", view.Turn)

	for _, hint := range view.Hints {
		fmt.Printf("  %s %.2f\n", hint.Move, hint.Score)
	}
}
