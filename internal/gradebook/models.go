package gradebook

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Student struct {
	ID   string `json:"id"`
	Name string `json:"name"` // lowercased
}

type Assignment struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// Submission is one recorded score. Duplicates for the same student/assignment
// pair are kept and counted independently.
type Submission struct {
	StudentID    string  `json:"student_id"`
	AssignmentID string  `json:"assignment_id"`
	Percent      float64 `json:"percent"` // 0-100, independent of Assignment.Points
}

func NewStudent(id, name string) Student {
	return Student{ID: strings.TrimSpace(id), Name: normalizeName(name)}
}

func NewAssignment(id, name, points string) (Assignment, error) {
	p, err := strconv.Atoi(strings.TrimSpace(points))
	if err != nil {
		return Assignment{}, fmt.Errorf("%w: points %q is not an integer", ErrParse, points)
	}
	if p <= 0 {
		return Assignment{}, fmt.Errorf("%w: points must be positive, got %d", ErrParse, p)
	}
	return Assignment{ID: strings.TrimSpace(id), Name: strings.TrimSpace(name), Points: p}, nil
}

func NewSubmission(studentID, assignmentID, percent string) (Submission, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(percent), 64)
	if err != nil {
		return Submission{}, fmt.Errorf("%w: percent %q is not a number", ErrParse, percent)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Submission{}, fmt.Errorf("%w: percent %q is not finite", ErrParse, percent)
	}
	return Submission{
		StudentID:    strings.TrimSpace(studentID),
		AssignmentID: strings.TrimSpace(assignmentID),
		Percent:      v,
	}, nil
}

// Roster maps student id to Student and iterates in load order. Re-adding an
// id replaces the record in place.
type Roster struct {
	byID  map[string]Student
	order []string
}

func (r *Roster) Add(s Student) {
	if r.byID == nil {
		r.byID = map[string]Student{}
	}
	if _, ok := r.byID[s.ID]; !ok {
		r.order = append(r.order, s.ID)
	}
	r.byID[s.ID] = s
}

func (r *Roster) Get(id string) (Student, bool) {
	s, ok := r.byID[id]
	return s, ok
}

func (r *Roster) Len() int { return len(r.order) }

func (r *Roster) List() []Student {
	out := make([]Student, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Catalog is the assignment counterpart of Roster.
type Catalog struct {
	byID  map[string]Assignment
	order []string
}

func (c *Catalog) Add(a Assignment) {
	if c.byID == nil {
		c.byID = map[string]Assignment{}
	}
	if _, ok := c.byID[a.ID]; !ok {
		c.order = append(c.order, a.ID)
	}
	c.byID[a.ID] = a
}

func (c *Catalog) Get(id string) (Assignment, bool) {
	a, ok := c.byID[id]
	return a, ok
}

func (c *Catalog) Len() int { return len(c.order) }

func (c *Catalog) List() []Assignment {
	out := make([]Assignment, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Data is the loaded application state. It is built once and only read after.
type Data struct {
	Students    Roster
	Assignments Catalog
	Submissions []Submission
}

func normalizeName(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
