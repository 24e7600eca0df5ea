package gradebook

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLReporter answers queries from scratch tables filled from the loaded
// flat files. The tables are wiped on every load and never used as a source.
type SQLReporter struct {
	db *sql.DB
}

func NewSQLReporter(ctx context.Context, db *sql.DB, d *Data) (*SQLReporter, error) {
	s := &SQLReporter{db: db}
	if err := s.load(ctx, d); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLReporter) load(ctx context.Context, d *Data) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, t := range []string{"submissions", "assignments", "students"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t); err != nil {
			return fmt.Errorf("clear %s: %w", t, err)
		}
	}
	for i, st := range d.Students.List() {
		if _, err := tx.ExecContext(ctx, `INSERT INTO students (seq,id,name) VALUES ($1,$2,$3)`,
			i, st.ID, st.Name); err != nil {
			return fmt.Errorf("insert student %s: %w", st.ID, err)
		}
	}
	for i, a := range d.Assignments.List() {
		if _, err := tx.ExecContext(ctx, `INSERT INTO assignments (seq,id,name,name_key,points) VALUES ($1,$2,$3,$4,$5)`,
			i, a.ID, a.Name, normalizeName(a.Name), a.Points); err != nil {
			return fmt.Errorf("insert assignment %s: %w", a.ID, err)
		}
	}
	for i, sub := range d.Submissions {
		if _, err := tx.ExecContext(ctx, `INSERT INTO submissions (seq,student_id,assignment_id,percent) VALUES ($1,$2,$3,$4)`,
			i, sub.StudentID, sub.AssignmentID, sub.Percent); err != nil {
			return fmt.Errorf("insert submission %d: %w", i, err)
		}
	}
	return tx.Commit()
}

func (s *SQLReporter) StudentGrade(ctx context.Context, name string) (GradeReport, error) {
	var st Student
	err := s.db.QueryRowContext(ctx, `SELECT id,name FROM students WHERE name=$1 ORDER BY seq LIMIT 1`,
		normalizeName(name)).Scan(&st.ID, &st.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return GradeReport{}, fmt.Errorf("%w: %q", ErrStudentNotFound, name)
	}
	if err != nil {
		return GradeReport{}, err
	}

	var missing string
	err = s.db.QueryRowContext(ctx, `
		SELECT s.assignment_id FROM submissions s
		LEFT JOIN assignments a ON a.id = s.assignment_id
		WHERE s.student_id=$1 AND a.id IS NULL
		ORDER BY s.seq LIMIT 1`, st.ID).Scan(&missing)
	switch {
	case err == nil:
		return GradeReport{}, fmt.Errorf("%w: %q (student %s)", ErrUnknownAssignment, missing, st.ID)
	case !errors.Is(err, sql.ErrNoRows):
		return GradeReport{}, err
	}

	rep := GradeReport{Student: st}
	var possible int64
	if err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(s.percent / 100.0 * a.points), 0), COALESCE(SUM(a.points), 0)
		FROM submissions s JOIN assignments a ON a.id = s.assignment_id
		WHERE s.student_id=$1`, st.ID).Scan(&rep.Earned, &possible); err != nil {
		return GradeReport{}, err
	}
	if possible == 0 {
		return GradeReport{}, fmt.Errorf("%w for student %s", ErrNoSubmissions, st.ID)
	}
	rep.Possible = int(possible)
	rep.Percent = roundPercent(100 * rep.Earned / float64(rep.Possible))
	return rep, nil
}

func (s *SQLReporter) AssignmentStats(ctx context.Context, name string) (StatsReport, error) {
	a, err := s.findAssignment(ctx, name)
	if err != nil {
		return StatsReport{}, err
	}
	var (
		n           int
		lo, avg, hi sql.NullFloat64
	)
	if err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), MIN(percent), AVG(percent), MAX(percent)
		FROM submissions WHERE assignment_id=$1`, a.ID).Scan(&n, &lo, &avg, &hi); err != nil {
		return StatsReport{}, err
	}
	if n == 0 {
		return StatsReport{}, fmt.Errorf("%w for assignment %s", ErrNoSubmissions, a.ID)
	}
	return StatsReport{
		Assignment: a,
		Count:      n,
		Min:        roundPercent(lo.Float64),
		Avg:        roundPercent(avg.Float64),
		Max:        roundPercent(hi.Float64),
	}, nil
}

func (s *SQLReporter) AssignmentHistogram(ctx context.Context, name string) (Histogram, error) {
	a, err := s.findAssignment(ctx, name)
	if err != nil {
		return Histogram{}, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT percent FROM submissions WHERE assignment_id=$1 ORDER BY seq`, a.ID)
	if err != nil {
		return Histogram{}, err
	}
	defer rows.Close()
	var scores []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return Histogram{}, err
		}
		scores = append(scores, v)
	}
	if err := rows.Err(); err != nil {
		return Histogram{}, err
	}
	if len(scores) == 0 {
		return Histogram{}, fmt.Errorf("%w for assignment %s", ErrNoSubmissions, a.ID)
	}
	return bucketize(a, scores), nil
}

func (s *SQLReporter) Students(ctx context.Context) ([]Student, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,name FROM students ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Student
	for rows.Next() {
		var st Student
		if err := rows.Scan(&st.ID, &st.Name); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *SQLReporter) findAssignment(ctx context.Context, name string) (Assignment, error) {
	var a Assignment
	err := s.db.QueryRowContext(ctx, `SELECT id,name,points FROM assignments WHERE name_key=$1 ORDER BY seq LIMIT 1`,
		normalizeName(name)).Scan(&a.ID, &a.Name, &a.Points)
	if errors.Is(err, sql.ErrNoRows) {
		return Assignment{}, fmt.Errorf("%w: %q", ErrAssignmentNotFound, name)
	}
	return a, err
}
