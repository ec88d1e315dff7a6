// Command solve runs the deduction engine against a human on the
// console: think of a number, answer each guess with "bulls cows"
// (or "win"), and the engine narrows the space until one code remains.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"example.com/bc-solver/internal/solver"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := solver.New(solver.DefaultAlphabetSize, solver.DefaultCodeLength)

	fmt.Printf("Think of a %d-digit number with unique digits.\n", s.CodeLength())
	fmt.Println("For each guess, answer with \"bulls cows\" (or \"win\" if correct).")
	fmt.Println()

	c := &console{in: bufio.NewScanner(os.Stdin), slv: s}
	if _, err := s.Run(ctx, c); err != nil && !errors.Is(err, solver.ErrContradiction) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type console struct {
	in  *bufio.Scanner
	slv *solver.Solver
}

func (c *console) PresentGuess(guess string, round int, expectedGain float64) {
	fmt.Printf("Possible codes remaining: %d (%.4f bits)\n", c.slv.Remaining(), c.slv.Uncertainty())
	fmt.Printf("Attempt %d: my guess is %s (expected gain %.4f bits)\n", round, guess, expectedGain)
}

func (c *console) RequestFeedback(ctx context.Context, guess string, round int) (solver.Feedback, error) {
	length := c.slv.CodeLength()
	for {
		if err := ctx.Err(); err != nil {
			return solver.Feedback{}, err
		}

		fmt.Print("Enter feedback as 'bulls cows': ")
		if !c.in.Scan() {
			return solver.Feedback{}, errors.New("input closed")
		}
		line := strings.ToLower(strings.TrimSpace(c.in.Text()))

		if line == "win" {
			return solver.Feedback{Bulls: length}, nil
		}

		var fb solver.Feedback
		if _, err := fmt.Sscanf(line, "%d %d", &fb.Bulls, &fb.Cows); err != nil {
			fmt.Println("Please enter two numbers separated by a space, or 'win'.")
			continue
		}
		if !fb.Valid(length) {
			fmt.Printf("Bulls and cows must be between 0 and %d, with their sum <= %d.\n", length, length)
			continue
		}
		return fb, nil
	}
}

func (c *console) PresentResult(outcome solver.State, answer string) {
	switch outcome {
	case solver.StateSolved:
		fmt.Printf("\nYour number is %s, found in %d attempts!\n", answer, c.slv.Round())
	case solver.StateContradiction:
		fmt.Println("\nNo possible codes remain. Please check your feedback.")
	}
}
