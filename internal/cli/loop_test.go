package cli_test

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mind-engage/mindengage-gradebook/internal/cli"
	"github.com/mind-engage/mindengage-gradebook/internal/gradebook"
)

type fakeRenderer struct {
	rendered []gradebook.Histogram
	err      error
}

func (f *fakeRenderer) Render(_ context.Context, h gradebook.Histogram) (string, error) {
	f.rendered = append(f.rendered, h)
	return "file:///tmp/charts/A1.xlsx", f.err
}

func seed(t *testing.T) *gradebook.Data {
	t.Helper()
	d := &gradebook.Data{}
	d.Students.Add(gradebook.NewStudent("001", "Alice Smith"))
	d.Students.Add(gradebook.NewStudent("002", "Bob Jones"))
	a, err := gradebook.NewAssignment("A1", "Homework 1", "100")
	if err != nil {
		t.Fatalf("assignment: %v", err)
	}
	d.Assignments.Add(a)
	e, _ := gradebook.NewAssignment("A2", "Essay", "20")
	d.Assignments.Add(e)
	d.Submissions = []gradebook.Submission{
		{StudentID: "001", AssignmentID: "A1", Percent: 60},
		{StudentID: "001", AssignmentID: "A1", Percent: 90},
	}
	return d
}

func run(t *testing.T, d *gradebook.Data, rnd *fakeRenderer, input string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	l := cli.NewLoop(strings.NewReader(input), &out, gradebook.NewMemoryReporter(d), rnd)
	err := l.Run(context.Background())
	return out.String(), err
}

func TestLoop_StudentGrade(t *testing.T) {
	out, err := run(t, seed(t), &fakeRenderer{}, "1\n aLiCe smith \nq\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "What is the student's name: ") {
		t.Fatalf("missing prompt in %q", out)
	}
	if !strings.Contains(out, "Alice Smith: 75%\n") {
		t.Fatalf("missing grade line in %q", out)
	}
	if !strings.HasSuffix(out, "Invalid choice, exiting program.\n") {
		t.Fatalf("expected exit message, got %q", out)
	}
	if strings.Count(out, "Enter your selection:") != 2 {
		t.Fatalf("expected menu twice, got %q", out)
	}
}

func TestLoop_ReportedOutcomes(t *testing.T) {
	input := strings.Join([]string{
		"1", "nobody",
		"1", "bob jones",
		"2", "Final",
		"2", "essay",
		"3", "Final",
		"x",
	}, "\n") + "\n"

	out, err := run(t, seed(t), &fakeRenderer{}, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		"Student not found. Loaded students are:\n001: alice smith\n002: bob jones\n",
		"No submissions found for the student\n",
		"Assignment not found\n",
		"No submissions found for the assignment\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}

func TestLoop_AssignmentStats(t *testing.T) {
	out, err := run(t, seed(t), &fakeRenderer{}, "2\nHOMEWORK 1\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Min: 60%\nAvg: 75%\nMax: 90%\n") {
		t.Fatalf("missing stats in %q", out)
	}
}

func TestLoop_AssignmentGraph(t *testing.T) {
	rnd := &fakeRenderer{}
	out, err := run(t, seed(t), rnd, "3\nHomework 1\n4\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rnd.rendered) != 1 {
		t.Fatalf("expected one render, got %d", len(rnd.rendered))
	}
	h := rnd.rendered[0]
	if h.Bins[2].Count != 1 || h.Bins[3].Count != 1 {
		t.Fatalf("unexpected bins %+v", h.Bins)
	}
	for _, want := range []string{"Scores Distribution for Homework 1\n", "50-75   1\n", "Chart written to file:///tmp/charts/A1.xlsx\n"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}

func TestLoop_RenderFailureIsFatal(t *testing.T) {
	rnd := &fakeRenderer{err: errors.New("disk full")}
	_, err := run(t, seed(t), rnd, "3\nHomework 1\n")
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected render error, got %v", err)
	}
}

func TestLoop_UnknownAssignmentIsFatal(t *testing.T) {
	d := seed(t)
	d.Submissions = append(d.Submissions, gradebook.Submission{StudentID: "002", AssignmentID: "ZZ", Percent: 10})

	_, err := run(t, d, &fakeRenderer{}, "1\nbob jones\n")
	if !errors.Is(err, gradebook.ErrUnknownAssignment) {
		t.Fatalf("expected ErrUnknownAssignment, got %v", err)
	}
}

func TestLoop_EOFExits(t *testing.T) {
	out, err := run(t, seed(t), &fakeRenderer{}, "1\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "Invalid choice") {
		t.Fatalf("EOF should exit quietly, got %q", out)
	}
}

func TestLoop_ReadErrorIsReturned(t *testing.T) {
	long := strings.Repeat("x", bufio.MaxScanTokenSize+1)

	_, err := run(t, seed(t), &fakeRenderer{}, "1\n"+long+"\n")
	if !errors.Is(err, bufio.ErrTooLong) {
		t.Fatalf("expected bufio.ErrTooLong, got %v", err)
	}
	_, err = run(t, seed(t), &fakeRenderer{}, long+"\n")
	if !errors.Is(err, bufio.ErrTooLong) {
		t.Fatalf("expected bufio.ErrTooLong on the menu line, got %v", err)
	}
}
