package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/TechHon-P/othello-game/internal/advisor"
	"github.com/TechHon-P/othello-game/internal/othello"
)

func main() {
	boardString := flag.String("board", othello.NewBoardStart().String(), "the board to show, in hex")
	playerString := flag.String("player", "b", "the player to move: b or w")
	hints := flag.Bool("hints", false, "mark legal moves and show their scores")
	strength := flag.Int("strength", advisor.DefaultStrength, "the advisor strength")
	flag.Parse()

	board, err := othello.NewBoardFromString(*boardString)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	player, err := othello.ParseColor(*playerString)
	if err != nil || !player.IsPlayer() {
		fmt.Printf("invalid player %q\n", *playerString)
		os.Exit(1)
	}

	for _, line := range board.ASCIIArtLines(player, *hints) {
		fmt.Println(line)
	}

	black, white := board.CountPieces()
	fmt.Printf("black: %d, white: %d, to move: %s\n", black, white, player)

	if board.IsGameOver() {
		fmt.Printf("game over, winner: %s\n", board.Winner())
		return
	}

	if *hints {
		for _, scored := range advisor.RankMoves(board, player, advisor.ClampStrength(*strength)) {
			marker := ""
			if scored.IsBest {
				marker = " *"
			}
			fmt.Printf("%s %8.2f%s\n", scored.Move, scored.Score, marker)
		}
	}

	move, ok := advisor.BestMove(board, player, advisor.ClampStrength(*strength))
	if !ok {
		fmt.Printf("%s has to pass\n", player)
		return
	}

	fmt.Printf("best move: %s\n", move)
}
