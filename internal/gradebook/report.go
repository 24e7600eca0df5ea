package gradebook

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	ErrStudentNotFound    = errors.New("student not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrNoSubmissions      = errors.New("no submissions found")
	// ErrUnknownAssignment means a submission references an assignment id
	// that was never loaded. It is fatal, never skipped.
	ErrUnknownAssignment = errors.New("submission references unknown assignment")
)

type GradeReport struct {
	Student  Student
	Earned   float64
	Possible int
	Percent  int
}

func (g GradeReport) DisplayName() string {
	return cases.Title(language.English).String(g.Student.Name)
}

type StatsReport struct {
	Assignment Assignment
	Count      int
	Min        int
	Avg        int
	Max        int
}

type Bin struct {
	Lo, Hi float64
	Count  int
}

func (b Bin) Label() string { return fmt.Sprintf("%g-%g", b.Lo, b.Hi) }

type Histogram struct {
	Assignment Assignment
	Bins       []Bin
	// OutOfRange counts percents below the first edge or above the last.
	OutOfRange int
}

func (h Histogram) Title() string { return "Scores Distribution for " + h.Assignment.Name }

// HistogramEdges are the bucket boundaries. Every bucket is half-open except
// the last, which includes its upper edge.
var HistogramEdges = []float64{0, 25, 50, 75, 100}

// StudentGrade computes the points-weighted overall grade for the first
// student in roster order whose name matches.
func StudentGrade(d *Data, name string) (GradeReport, error) {
	st, ok := findStudent(d, name)
	if !ok {
		return GradeReport{}, fmt.Errorf("%w: %q", ErrStudentNotFound, name)
	}
	rep := GradeReport{Student: st}
	for _, s := range d.Submissions {
		if s.StudentID != st.ID {
			continue
		}
		a, ok := d.Assignments.Get(s.AssignmentID)
		if !ok {
			return GradeReport{}, fmt.Errorf("%w: %q (student %s)", ErrUnknownAssignment, s.AssignmentID, st.ID)
		}
		rep.Earned += s.Percent / 100 * float64(a.Points)
		rep.Possible += a.Points
	}
	if rep.Possible == 0 {
		return GradeReport{}, fmt.Errorf("%w for student %s", ErrNoSubmissions, st.ID)
	}
	rep.Percent = roundPercent(100 * rep.Earned / float64(rep.Possible))
	return rep, nil
}

func AssignmentStats(d *Data, name string) (StatsReport, error) {
	a, scores, err := assignmentScores(d, name)
	if err != nil {
		return StatsReport{}, err
	}
	return statsOf(a, scores), nil
}

func AssignmentHistogram(d *Data, name string) (Histogram, error) {
	a, scores, err := assignmentScores(d, name)
	if err != nil {
		return Histogram{}, err
	}
	return bucketize(a, scores), nil
}

func findStudent(d *Data, name string) (Student, bool) {
	want := normalizeName(name)
	for _, s := range d.Students.List() {
		if s.Name == want {
			return s, true
		}
	}
	return Student{}, false
}

func findAssignment(d *Data, name string) (Assignment, bool) {
	want := normalizeName(name)
	for _, a := range d.Assignments.List() {
		if normalizeName(a.Name) == want {
			return a, true
		}
	}
	return Assignment{}, false
}

// assignmentScores returns the raw percents submitted for the named assignment.
func assignmentScores(d *Data, name string) (Assignment, []float64, error) {
	a, ok := findAssignment(d, name)
	if !ok {
		return Assignment{}, nil, fmt.Errorf("%w: %q", ErrAssignmentNotFound, name)
	}
	var scores []float64
	for _, s := range d.Submissions {
		if s.AssignmentID == a.ID {
			scores = append(scores, s.Percent)
		}
	}
	if len(scores) == 0 {
		return Assignment{}, nil, fmt.Errorf("%w for assignment %s", ErrNoSubmissions, a.ID)
	}
	return a, scores, nil
}

func statsOf(a Assignment, scores []float64) StatsReport {
	lo, hi, sum := scores[0], scores[0], 0.0
	for _, v := range scores {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		sum += v
	}
	return StatsReport{
		Assignment: a,
		Count:      len(scores),
		Min:        roundPercent(lo),
		Avg:        roundPercent(sum / float64(len(scores))),
		Max:        roundPercent(hi),
	}
}

func bucketize(a Assignment, scores []float64) Histogram {
	h := Histogram{Assignment: a, Bins: make([]Bin, len(HistogramEdges)-1)}
	for i := range h.Bins {
		h.Bins[i] = Bin{Lo: HistogramEdges[i], Hi: HistogramEdges[i+1]}
	}
	last := len(h.Bins) - 1
	for _, v := range scores {
		placed := false
		for i, b := range h.Bins {
			if v >= b.Lo && (v < b.Hi || (i == last && v == b.Hi)) {
				h.Bins[i].Count++
				placed = true
				break
			}
		}
		if !placed {
			h.OutOfRange++
		}
	}
	return h
}

// roundPercent rounds half away from zero.
func roundPercent(v float64) int { return int(math.Round(v)) }
