package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
)

// NewEvalCommand creates "calc eval <operation> <a> <b>".
func NewEvalCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "eval <operation> <a> <b>",
		Short:   "Evaluate one calculation and record it",
		Example: "  calc eval add 5 3\n  calc eval power 2 0.5\n  calc eval subtract -- -5 3",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := parseNumber(args[1])
			if err != nil {
				return err
			}
			b, err := parseNumber(args[2])
			if err != nil {
				return err
			}

			s, err := root.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			c, err := s.svc.Calculate(cmd.Context(), args[0], a, b)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Result: %s\n", c.Expression)
			return nil
		},
	}
}

// NewHistoryCommand creates "calc history".
func NewHistoryCommand(root *RootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show calculation history, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := root.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			history, err := s.svc.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			printHistory(cmd.OutOrStdout(), history)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "maximum number of entries")
	return cmd
}

// NewClearCommand creates "calc clear".
func NewClearCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all calculation history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := root.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.svc.ClearHistory(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared!")
			return nil
		},
	}
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

func printHistory(w io.Writer, history []string) {
	if len(history) == 0 {
		fmt.Fprintln(w, "No calculations performed yet.")
		return
	}
	for i, expr := range history {
		fmt.Fprintf(w, "%d. %s\n", i+1, expr)
	}
}
