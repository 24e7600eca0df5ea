package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mind-engage/mindengage-gradebook/internal/chart"
	"github.com/mind-engage/mindengage-gradebook/internal/gradebook"
)

const menu = `1. Student grade
2. Assignment statistics
3. Assignment graph
Enter your selection:
`

// Loop is the console driver around a Reporter.
type Loop struct {
	Out      io.Writer
	Reporter gradebook.Reporter
	Renderer chart.Renderer

	in *bufio.Scanner
}

func NewLoop(in io.Reader, out io.Writer, rep gradebook.Reporter, rnd chart.Renderer) *Loop {
	return &Loop{Out: out, Reporter: rep, Renderer: rnd, in: bufio.NewScanner(in)}
}

// Run serves menu selections until an unrecognized choice or end of input.
// Only fatal errors, including input read failures, are returned; not-found
// style outcomes are printed.
func (l *Loop) Run(ctx context.Context) error {
	for {
		fmt.Fprint(l.Out, menu)
		choice, ok := l.readLine()
		if !ok {
			return l.in.Err()
		}

		var err error
		switch strings.TrimSpace(choice) {
		case "1":
			name, ok := l.prompt("What is the student's name: ")
			if !ok {
				return l.in.Err()
			}
			err = l.studentGrade(ctx, name)
		case "2":
			name, ok := l.prompt("What is the assignment name: ")
			if !ok {
				return l.in.Err()
			}
			err = l.assignmentStats(ctx, name)
		case "3":
			name, ok := l.prompt("What is the assignment name: ")
			if !ok {
				return l.in.Err()
			}
			err = l.assignmentGraph(ctx, name)
		default:
			fmt.Fprintln(l.Out, "Invalid choice, exiting program.")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (l *Loop) studentGrade(ctx context.Context, name string) error {
	rep, err := l.Reporter.StudentGrade(ctx, name)
	switch {
	case errors.Is(err, gradebook.ErrStudentNotFound):
		fmt.Fprintln(l.Out, "Student not found. Loaded students are:")
		students, err := l.Reporter.Students(ctx)
		if err != nil {
			return err
		}
		for _, s := range students {
			fmt.Fprintf(l.Out, "%s: %s\n", s.ID, s.Name)
		}
		return nil
	case errors.Is(err, gradebook.ErrNoSubmissions):
		fmt.Fprintln(l.Out, "No submissions found for the student")
		return nil
	case err != nil:
		return err
	}
	fmt.Fprintf(l.Out, "%s: %d%%\n", rep.DisplayName(), rep.Percent)
	return nil
}

func (l *Loop) assignmentStats(ctx context.Context, name string) error {
	st, err := l.Reporter.AssignmentStats(ctx, name)
	if handled, err := l.assignmentOutcome(err); handled {
		return err
	}
	fmt.Fprintf(l.Out, "Min: %d%%\nAvg: %d%%\nMax: %d%%\n", st.Min, st.Avg, st.Max)
	return nil
}

func (l *Loop) assignmentGraph(ctx context.Context, name string) error {
	h, err := l.Reporter.AssignmentHistogram(ctx, name)
	if handled, err := l.assignmentOutcome(err); handled {
		return err
	}
	fmt.Fprintln(l.Out, h.Title())
	for _, b := range h.Bins {
		fmt.Fprintf(l.Out, "%-7s %d\n", b.Label(), b.Count)
	}
	if h.OutOfRange > 0 {
		fmt.Fprintf(l.Out, "(%d scores outside 0-100 not shown)\n", h.OutOfRange)
	}
	if l.Renderer == nil {
		return nil
	}
	url, err := l.Renderer.Render(ctx, h)
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	fmt.Fprintf(l.Out, "Chart written to %s\n", url)
	return nil
}

// assignmentOutcome prints the reported assignment outcomes. handled is true
// when the caller should stop and return err.
func (l *Loop) assignmentOutcome(err error) (handled bool, _ error) {
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, gradebook.ErrAssignmentNotFound):
		fmt.Fprintln(l.Out, "Assignment not found")
		return true, nil
	case errors.Is(err, gradebook.ErrNoSubmissions):
		fmt.Fprintln(l.Out, "No submissions found for the assignment")
		return true, nil
	default:
		return true, err
	}
}

func (l *Loop) prompt(q string) (string, bool) {
	fmt.Fprint(l.Out, q)
	return l.readLine()
}

func (l *Loop) readLine() (string, bool) {
	if !l.in.Scan() {
		return "", false
	}
	return l.in.Text(), true
}
