package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/warp/calc-engine/calc"
)

var errQuit = errors.New("quit")

type menuEntry struct {
	label  string
	op     calc.Operation
	prompt [2]string
}

var twoNumbers = [2]string{"Enter first number: ", "Enter second number: "}

var menuEntries = []menuEntry{
	{"Addition", calc.OpAdd, twoNumbers},
	{"Subtraction", calc.OpSubtract, twoNumbers},
	{"Multiplication", calc.OpMultiply, twoNumbers},
	{"Division", calc.OpDivide, twoNumbers},
	{"Power", calc.OpPower, [2]string{"Enter base number: ", "Enter exponent: "}},
}

// NewMenuCommand creates "calc menu", the interactive numbered menu.
func NewMenuCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Interactive calculator menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := root.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			m := &menu{
				svc: s.svc,
				in:  bufio.NewScanner(cmd.InOrStdin()),
				out: cmd.OutOrStdout(),
			}
			return m.run(cmd.Context())
		},
	}
}

type menu struct {
	svc *calc.Service
	in  *bufio.Scanner
	out io.Writer
}

// run loops until the user exits or input ends. End of input is a normal
// exit.
func (m *menu) run(ctx context.Context) error {
	fmt.Fprintln(m.out, "Welcome to the Simple Calculator App!")
	fmt.Fprintln(m.out, "This calculator can perform basic arithmetic operations.")

	for {
		m.display()
		choice, err := m.readLine("\nEnter your choice (1-8): ")
		if err != nil {
			return m.exit(err)
		}

		switch choice {
		case "1", "2", "3", "4", "5":
			n, _ := strconv.Atoi(choice)
			if err := m.calculate(ctx, menuEntries[n-1]); err != nil {
				return m.exit(err)
			}
			cont, err := m.readLine("\nPress Enter to continue or 'q' to quit: ")
			if err != nil || strings.EqualFold(cont, "q") {
				return m.exit(errQuit)
			}
		case "6":
			fmt.Fprintln(m.out, "\n--- CALCULATION HISTORY ---")
			history, err := m.svc.History(ctx, 50)
			if err != nil {
				fmt.Fprintf(m.out, "Error: %v\n", err)
				continue
			}
			printHistory(m.out, history)
		case "7":
			if err := m.svc.ClearHistory(ctx); err != nil {
				fmt.Fprintf(m.out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintln(m.out, "\nHistory cleared!")
		case "8":
			return m.exit(errQuit)
		default:
			fmt.Fprintln(m.out, "Invalid choice! Please enter a number between 1-8.")
		}
	}
}

func (m *menu) display() {
	line := strings.Repeat("=", 50)
	fmt.Fprintln(m.out, "\n"+line)
	fmt.Fprintln(m.out, "           SIMPLE CALCULATOR APP")
	fmt.Fprintln(m.out, line)
	for i, e := range menuEntries {
		fmt.Fprintf(m.out, "%d. %s (%s)\n", i+1, e.label, e.op.Symbol())
	}
	fmt.Fprintln(m.out, "6. View History")
	fmt.Fprintln(m.out, "7. Clear History")
	fmt.Fprintln(m.out, "8. Exit")
	fmt.Fprintln(m.out, line)
}

func (m *menu) calculate(ctx context.Context, e menuEntry) error {
	fmt.Fprintf(m.out, "\n--- %s ---\n", strings.ToUpper(e.label))

	a, err := m.readNumber(e.prompt[0])
	if err != nil {
		return err
	}
	b, err := m.readNumber(e.prompt[1])
	if err != nil {
		return err
	}

	c, err := m.svc.Calculate(ctx, string(e.op), a, b)
	if err != nil {
		fmt.Fprintf(m.out, "Error: %v\n", err)
		return nil
	}
	fmt.Fprintf(m.out, "Result: %s\n", c.Expression)
	return nil
}

// readNumber re-prompts until a number is entered.
func (m *menu) readNumber(prompt string) (float64, error) {
	for {
		line, err := m.readLine(prompt)
		if err != nil {
			return 0, err
		}
		if v, err := strconv.ParseFloat(line, 64); err == nil {
			return v, nil
		}
		fmt.Fprintln(m.out, "Invalid input! Please enter a valid number.")
	}
}

func (m *menu) readLine(prompt string) (string, error) {
	fmt.Fprint(m.out, prompt)
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(m.in.Text()), nil
}

func (m *menu) exit(err error) error {
	if err != nil && !errors.Is(err, errQuit) && !errors.Is(err, io.EOF) {
		return err
	}
	fmt.Fprintln(m.out, "\nThank you for using the Simple Calculator App!")
	fmt.Fprintln(m.out, "Goodbye!")
	return nil
}
