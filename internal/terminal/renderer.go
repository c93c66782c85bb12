// Package terminal renders a game as a line-based prompt: option numbers
// stand in for flag taps and Enter dismisses a notice.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"guess-the-flag/internal/app"
	"guess-the-flag/internal/domain"
)

// Renderer plays one game against a reader and writer.
type Renderer struct {
	service *app.GameService
	in      *bufio.Scanner
	out     io.Writer
	log     *zap.Logger
}

func New(service *app.GameService, in io.Reader, out io.Writer, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{service: service, in: bufio.NewScanner(in), out: out, log: log}
}

// Run starts a game from catalogID and plays until the input ends, the
// player types q, or ctx is canceled.
func (r *Renderer) Run(ctx context.Context, catalogID string) error {
	snap, err := r.service.Start(ctx, catalogID)
	if err != nil {
		return err
	}
	defer func() {
		if err := r.service.End(context.Background(), snap.GameID); err != nil {
			r.log.Warn("end game", zap.String("game_id", snap.GameID), zap.Error(err))
		}
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if snap.Notice != nil {
			r.printNotice(*snap.Notice)
			line, ok := r.readLine()
			if !ok || line == "q" {
				return r.in.Err()
			}
			if snap, err = r.service.Acknowledge(ctx, snap.GameID); err != nil {
				return err
			}
			continue
		}

		r.printQuestion(snap)
		line, ok := r.readLine()
		if !ok || line == "q" {
			return r.in.Err()
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(snap.Options) {
			fmt.Fprintf(r.out, "Pick a number from 1 to %d.\n", len(snap.Options))
			continue
		}
		next, err := r.service.Guess(ctx, snap.GameID, n-1)
		if err != nil {
			if errors.Is(err, domain.ErrOptionOutOfRange) {
				continue
			}
			return err
		}
		snap = next
	}
}

func (r *Renderer) printQuestion(snap domain.Snapshot) {
	fmt.Fprintf(r.out, "\nGuess The Flag%20s\n", "Score: "+strconv.Itoa(snap.Score))
	fmt.Fprintf(r.out, "Tap the flag of %s\n", snap.Prompt)
	for i, option := range snap.Options {
		fmt.Fprintf(r.out, "  %d) %s\n", i+1, option.FlagAsset())
	}
	fmt.Fprintf(r.out, "# %d of %d\n> ", snap.QuestionNumber, snap.MaxQuestions)
}

func (r *Renderer) printNotice(notice domain.Notice) {
	fmt.Fprintf(r.out, "\n== %s ==\n", notice.Title)
	if notice.Body != "" {
		fmt.Fprintln(r.out, notice.Body)
	}
	fmt.Fprintf(r.out, "[Enter] %s\n", notice.Dismiss)
}

func (r *Renderer) readLine() (string, bool) {
	if !r.in.Scan() {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(r.in.Text())), true
}
