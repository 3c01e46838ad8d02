package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/phrazzld/scry-deck/internal/domain"
	"github.com/phrazzld/scry-deck/internal/service/study"
	"github.com/spf13/cobra"
)

const shortIDLen = 8

var validate = validator.New()

// cardInput is the card content accepted from flags.
type cardInput struct {
	Lesson   string `validate:"max=200"`
	Question string `validate:"required"`
	Answer   string `validate:"required"`
}

func (in *cardInput) normalize() error {
	in.Lesson = strings.TrimSpace(in.Lesson)
	in.Question = strings.TrimSpace(in.Question)
	in.Answer = strings.TrimSpace(in.Answer)
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	return nil
}

func newCardsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "List and edit the cards of the deck",
	}
	cmd.AddCommand(
		newCardsListCmd(opts),
		newCardsAddCmd(opts),
		newCardsEditCmd(opts),
		newCardsDeleteCmd(opts),
	)
	return cmd
}

func newCardsListCmd(opts *rootOptions) *cobra.Command {
	var lesson string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cards with their review history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(a *app) error {
				now := time.Now()
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tLESSON\tQUESTION\tSHOWN\tLAST\tDUE")
				for _, card := range a.engine.Cards() {
					if cmd.Flags().Changed("lesson") && card.Lesson != lesson {
						continue
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
						card.ID.String()[:shortIDLen],
						card.Lesson,
						card.Question,
						card.TimesShown,
						card.LastRating,
						formatDue(card.NextDue, now))
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&lesson, "lesson", "", "only list cards of this lesson")
	return cmd
}

func newCardsAddCmd(opts *rootOptions) *cobra.Command {
	var in cardInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := in.normalize(); err != nil {
				return err
			}
			return opts.withApp(cmd, func(a *app) error {
				card, err := a.engine.AddCard(cmd.Context(), in.Lesson, in.Question, in.Answer)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added card %s.\n", card.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&in.Lesson, "lesson", "", "lesson label")
	cmd.Flags().StringVarP(&in.Question, "question", "q", "", "question text")
	cmd.Flags().StringVarP(&in.Answer, "answer", "a", "", "answer text")
	return cmd
}

func newCardsEditCmd(opts *rootOptions) *cobra.Command {
	var in cardInput

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the lesson, question or answer of a card",
		Long:  "Changes the given fields of a card. Its review history is kept. The id may be abbreviated.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(a *app) error {
				card, err := resolveCard(a.engine, args[0])
				if err != nil {
					return err
				}

				edited := cardInput{Lesson: card.Lesson, Question: card.Question, Answer: card.Answer}
				if cmd.Flags().Changed("lesson") {
					edited.Lesson = in.Lesson
				}
				if cmd.Flags().Changed("question") {
					edited.Question = in.Question
				}
				if cmd.Flags().Changed("answer") {
					edited.Answer = in.Answer
				}
				if err := edited.normalize(); err != nil {
					return err
				}

				if err := a.engine.UpdateCard(cmd.Context(), card.ID, edited.Lesson, edited.Question, edited.Answer); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated card %s.\n", card.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&in.Lesson, "lesson", "", "new lesson label")
	cmd.Flags().StringVarP(&in.Question, "question", "q", "", "new question text")
	cmd.Flags().StringVarP(&in.Answer, "answer", "a", "", "new answer text")
	return cmd
}

func newCardsDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(a *app) error {
				card, err := resolveCard(a.engine, args[0])
				if err != nil {
					return err
				}
				if err := a.engine.DeleteCard(cmd.Context(), card.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted card %s.\n", card.ID)
				return nil
			})
		},
	}
}

// resolveCard finds a card by full ID or by a unique ID prefix.
func resolveCard(engine *study.Engine, ref string) (*domain.Card, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return engine.Card(id)
	}

	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return nil, fmt.Errorf("%w: empty card id", domain.ErrValidation)
	}

	var match *domain.Card
	for _, card := range engine.Cards() {
		if !strings.HasPrefix(card.ID.String(), ref) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("%w: card id %q is ambiguous", domain.ErrValidation, ref)
		}
		match = card
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", study.ErrCardNotFound, ref)
	}
	return match, nil
}
