package gradebook

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

var ErrParse = errors.New("parse error")

// idWidth is the fixed width of the id prefix on roster lines.
const idWidth = 3

type Paths struct {
	Students       string
	Assignments    string
	SubmissionsDir string
}

// Load runs the three loaders in order. Any failure aborts the whole load.
func Load(p Paths) (*Data, error) {
	students, err := LoadStudents(p.Students)
	if err != nil {
		return nil, err
	}
	assignments, err := LoadAssignments(p.Assignments)
	if err != nil {
		return nil, err
	}
	subs, err := LoadSubmissions(p.SubmissionsDir)
	if err != nil {
		return nil, err
	}
	log.Printf("loaded %d students, %d assignments, %d submissions",
		students.Len(), assignments.Len(), len(subs))
	return &Data{Students: students, Assignments: assignments, Submissions: subs}, nil
}

// LoadStudents parses a roster file: a 3 character id immediately followed by
// the student's name on every line.
func LoadStudents(path string) (Roster, error) {
	var r Roster
	lines, err := readLines(path)
	if err != nil {
		return r, err
	}
	for i, line := range lines {
		runes := []rune(line)
		if len(runes) < idWidth {
			return Roster{}, fmt.Errorf("%w: %s:%d: roster line shorter than %d characters", ErrParse, path, i+1, idWidth)
		}
		r.Add(NewStudent(string(runes[:idWidth]), string(runes[idWidth:])))
	}
	return r, nil
}

// LoadAssignments parses repeating name / id / points line triples.
func LoadAssignments(path string) (Catalog, error) {
	var c Catalog
	lines, err := readLines(path)
	if err != nil {
		return c, err
	}
	if rem := len(lines) % 3; rem != 0 {
		return Catalog{}, fmt.Errorf("%w: %s: %d lines is not a whole number of name/id/points groups (%d trailing)",
			ErrParse, path, len(lines), rem)
	}
	for i := 0; i < len(lines); i += 3 {
		a, err := NewAssignment(lines[i+1], lines[i], lines[i+2])
		if err != nil {
			return Catalog{}, fmt.Errorf("%s:%d: %w", path, i+3, err)
		}
		c.Add(a)
	}
	return c, nil
}

// LoadSubmissions reads every regular file in dir, in filename order, as
// student|assignment|percent lines. Blank lines are skipped.
func LoadSubmissions(dir string) ([]Submission, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read submissions dir: %w", err)
	}
	var out []Submission
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		lines, err := readLines(path)
		if err != nil {
			return nil, err
		}
		for i, line := range lines {
			if strings.TrimSpace(line) == "" {
				continue
			}
			parts := strings.Split(strings.TrimSpace(line), "|")
			if len(parts) != 3 {
				return nil, fmt.Errorf("%w: %s:%d: want 3 '|' separated fields, got %d", ErrParse, path, i+1, len(parts))
			}
			s, err := NewSubmission(parts[0], parts[1], parts[2])
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, i+1, err)
			}
			out = append(out, s)
		}
	}
	return out, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}
