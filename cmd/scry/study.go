package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-deck/internal/domain"
	"github.com/phrazzld/scry-deck/internal/service/study"
	"github.com/spf13/cobra"
)

const studyHelp = `Commands:
  Enter      reveal the answer
  w, g, e    rate weak, good or great
  s          skip to another card
  d          toggle due cards only
  r          start the cycle over
  q          quit`

func newStudyCmd(opts *rootOptions) *cobra.Command {
	var (
		lessons []string
		dueOnly bool
	)

	cmd := &cobra.Command{
		Use:   "study",
		Short: "Run an interactive study session",
		Long: `Presents one card at a time. Press Enter to reveal the answer, then rate
your recall with w (weak), g (good) or e (great).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(a *app) error {
				ctx := cmd.Context()
				if cmd.Flags().Changed("lesson") {
					a.engine.SetSelectedLessons(ctx, lessons)
				}
				if cmd.Flags().Changed("due") {
					a.engine.SetShowOnlyDue(ctx, dueOnly)
				}
				return newSession(a.engine, cmd.InOrStdin(), cmd.OutOrStdout()).run(ctx)
			})
		},
	}

	cmd.Flags().StringSliceVarP(&lessons, "lesson", "l", nil, "study only these lessons (repeatable)")
	cmd.Flags().BoolVar(&dueOnly, "due", false, "study only cards that are due")
	return cmd
}

// session drives the engine from line-oriented input.
type session struct {
	engine  *study.Engine
	in      *bufio.Scanner
	out     io.Writer
	prompts bool
	styles  styles
	now     func() time.Time
}

func newSession(engine *study.Engine, in io.Reader, out io.Writer) *session {
	return &session{
		engine:  engine,
		in:      bufio.NewScanner(in),
		out:     out,
		prompts: isTerminal(in),
		styles:  newStyles(out),
		now:     time.Now,
	}
}

func (s *session) run(ctx context.Context) error {
	var shown uuid.UUID
	for ctx.Err() == nil {
		snap := s.engine.Snapshot()
		if snap.CurrentCard == nil {
			s.printEmpty(snap)
			return nil
		}
		if snap.CurrentCard.ID != shown {
			s.printCard(snap)
			shown = snap.CurrentCard.ID
		}
		s.prompt(snap)

		if !s.in.Scan() {
			fmt.Fprintln(s.out, "Bye.")
			return s.in.Err()
		}

		input := strings.ToLower(strings.TrimSpace(s.in.Text()))
		switch input {
		case "":
			if !snap.ShowAnswers {
				s.engine.Reveal(ctx)
				s.printAnswer(snap.CurrentCard)
			}
		case "q", "quit":
			fmt.Fprintln(s.out, "Bye.")
			return nil
		case "s", "skip":
			s.engine.PickNext(ctx)
			shown = uuid.Nil
		case "d", "due":
			s.engine.ToggleShowOnlyDue(ctx)
			s.printFilter()
			shown = uuid.Nil
		case "r", "reset":
			s.engine.ResetCycle(ctx)
			fmt.Fprintln(s.out, s.styles.muted.Render("Cycle reset."))
		case "?", "h", "help":
			fmt.Fprintln(s.out, studyHelp)
		default:
			rating, err := domain.ParseRating(input)
			if err != nil {
				fmt.Fprintf(s.out, "Unknown command %q, type ? for help.\n", input)
				continue
			}
			if err := s.rate(ctx, snap.CurrentCard.ID, rating); err != nil {
				return err
			}
			shown = uuid.Nil
		}
	}
	return nil
}

func (s *session) rate(ctx context.Context, id uuid.UUID, rating domain.Rating) error {
	if err := s.engine.Rate(ctx, rating); err != nil {
		return fmt.Errorf("failed to rate card: %w", err)
	}
	if card, err := s.engine.Card(id); err == nil {
		fmt.Fprintln(s.out, s.styles.muted.Render(
			fmt.Sprintf("Rated %s, next review %s.", rating, formatDue(card.NextDue, s.now()))))
	}
	return nil
}

func (s *session) printCard(snap study.Snapshot) {
	if snap.CycleCompleted {
		fmt.Fprintln(s.out, s.styles.banner.Render("Cycle complete, starting over."))
	}

	card := snap.CurrentCard
	header := fmt.Sprintf("[%d/%d]", snap.Progress.Index, snap.Progress.Total)
	if snap.ShowOnlyDue {
		header = "[due " + header[1:]
	}
	if card.Lesson != "" {
		header += " " + s.styles.lesson.Render(card.Lesson)
	}

	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, header)
	fmt.Fprintln(s.out, s.styles.title.Render(card.Question))
	if snap.ShowAnswers {
		s.printAnswer(card)
	}
}

func (s *session) printAnswer(card *domain.Card) {
	fmt.Fprintln(s.out, s.styles.answer.Render(card.Answer))
}

func (s *session) printEmpty(snap study.Snapshot) {
	switch {
	case snap.Stats.Total == 0:
		fmt.Fprintln(s.out, "The deck is empty. Add cards with \"scry cards add\" or \"scry import csv\".")
	case snap.ShowOnlyDue:
		fmt.Fprintln(s.out, "No cards are due.")
	default:
		fmt.Fprintln(s.out, "No cards match the selected lessons.")
	}
}

func (s *session) printFilter() {
	state := "off"
	if s.engine.Snapshot().ShowOnlyDue {
		state = "on"
	}
	fmt.Fprintln(s.out, s.styles.muted.Render("Due cards only: "+state+"."))
}

func (s *session) prompt(snap study.Snapshot) {
	if !s.prompts {
		return
	}
	if snap.ShowAnswers {
		fmt.Fprint(s.out, s.styles.muted.Render("rate [w]eak [g]ood gr[e]at, [s]kip, [q]uit? "))
		return
	}
	fmt.Fprint(s.out, s.styles.muted.Render("Enter to reveal, ? for help: "))
}
