package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/phrazzld/scry-deck/internal/service/study"
	"github.com/spf13/cobra"
)

const exportFilePerm = 0o640

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show review statistics for the deck",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(a *app) error {
				stats := a.engine.Snapshot().Stats
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintf(w, "Cards:\t%d\n", stats.Total)
				fmt.Fprintf(w, "Reviews:\t%d\n", stats.Shown)
				fmt.Fprintf(w, "Weak / good / great:\t%d / %d / %d\n", stats.Weak, stats.Good, stats.Great)
				fmt.Fprintf(w, "Accuracy:\t%.1f%%\n", stats.Accuracy*100)
				for _, lesson := range stats.Lessons() {
					name := lesson
					if name == "" {
						name = "(no lesson)"
					}
					fmt.Fprintf(w, "  %s:\t%d\n", name, stats.ByLesson[lesson])
				}
				return w.Flush()
			})
		},
	}
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import cards from CSV or a deck file",
	}

	var appendMode bool
	csvCmd := &cobra.Command{
		Use:   "csv <file>",
		Short: "Import lesson;question;answer lines",
		Long: `Reads one card per line as lesson, question and answer separated by
semicolons. A line with fewer than three semicolon-separated fields is
split on tabs instead. Use - for stdin. Blank lines are ignored and lines
without three fields are skipped. The deck is replaced unless --append
is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			mode := study.ImportReplace
			if appendMode {
				mode = study.ImportAppend
			}
			return opts.withApp(cmd, func(a *app) error {
				result, err := a.engine.ImportCSV(cmd.Context(), string(data), mode)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d cards (%s), skipped %d lines.\n",
					len(result.Cards), mode, result.Skipped)
				return nil
			})
		},
	}
	csvCmd.Flags().BoolVar(&appendMode, "append", false, "add to the existing deck instead of replacing it")

	deckCmd := &cobra.Command{
		Use:   "deck <file>",
		Short: "Replace the deck with an exported deck file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			return opts.withApp(cmd, func(a *app) error {
				if err := a.engine.ImportDeck(cmd.Context(), data); err != nil {
					return fmt.Errorf("failed to import deck: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d cards.\n", len(a.engine.Cards()))
				return nil
			})
		},
	}

	cmd.AddCommand(csvCmd, deckCmd)
	return cmd
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the deck as JSON to a file or stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(a *app) error {
				data, err := a.engine.ExportDeck()
				if err != nil {
					return err
				}
				if len(args) == 0 || args[0] == "-" {
					_, err = cmd.OutOrStdout().Write(append(data, '\n'))
					return err
				}
				if err := os.WriteFile(args[0], data, exportFilePerm); err != nil {
					return fmt.Errorf("failed to write %s: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d cards to %s.\n", len(a.engine.Cards()), args[0])
				return nil
			})
		},
	}
}

func newDeckCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deck",
		Short: "Start over with a new, sample or reset deck",
	}

	var yes bool
	deckAction := func(use, short, question, done string, run func(*cobra.Command, *app) error) *cobra.Command {
		c := &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				ok, err := confirm(cmd, question, yes)
				if err != nil || !ok {
					return err
				}
				return opts.withApp(cmd, func(a *app) error {
					if err := run(cmd, a); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), done)
					return nil
				})
			},
		}
		c.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
		return c
	}

	cmd.AddCommand(
		deckAction("new", "Replace the deck with an empty one",
			"Replace the deck with an empty one?", "Created an empty deck.",
			func(cmd *cobra.Command, a *app) error { return a.engine.CreateNewDeck(cmd.Context()) }),
		deckAction("sample", "Replace the deck with the sample deck",
			"Replace the deck with the sample deck?", "Loaded the sample deck.",
			func(cmd *cobra.Command, a *app) error { return a.engine.CreateSampleDeck(cmd.Context()) }),
		deckAction("delete", "Delete the deck and its history",
			"Delete the deck and all review history?", "Deleted the deck, the sample deck was restored.",
			func(cmd *cobra.Command, a *app) error { return a.engine.DeleteDeck(cmd.Context()) }),
	)
	return cmd
}

func newBackupCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Manage deck backups",
		Long: `Manage deck backups. Backup names carry the UTC minute the backup was
taken; the CREATED column of list shows it in local time.`,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List backups, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(a *app) error {
				backups, err := a.engine.ListBackups(cmd.Context())
				if err != nil {
					return err
				}
				if len(backups) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No backups.")
					return nil
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tCREATED\tCARDS")
				for _, b := range backups {
					cards := "?"
					if b.Cards >= 0 {
						cards = fmt.Sprint(b.Cards)
					}
					fmt.Fprintf(w, "%s\t%s\t%s\n", b.Name, b.CreatedAt.Local().Format("2006-01-02 15:04"), cards)
				}
				return w.Flush()
			})
		},
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Back up the current deck",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(a *app) error {
				info, err := a.engine.CreateBackup(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%d cards).\n", info.Name, info.Cards)
				return nil
			})
		},
	}

	restoreCmd := &cobra.Command{
		Use:   "restore <name>",
		Short: "Replace the deck with a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(a *app) error {
				if err := a.engine.RestoreBackup(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Restored %s (%d cards).\n", args[0], len(a.engine.Cards()))
				return nil
			})
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(a *app) error {
				if err := a.engine.DeleteBackup(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", args[0])
				return nil
			})
		},
	}

	cmd.AddCommand(listCmd, createCmd, restoreCmd, deleteCmd)
	return cmd
}

// readInput reads a whole file, or stdin for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// confirm asks question on a terminal. Without a terminal the action only
// proceeds when yes is set.
func confirm(cmd *cobra.Command, question string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	if !isTerminal(cmd.InOrStdin()) {
		return false, errors.New("refusing to continue without confirmation, pass --yes")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
		return false, nil
	}
}
