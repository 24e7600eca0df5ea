package gradebook

import "context"

// Reporter answers the gradebook queries. Implementations must return the
// package's sentinel errors so callers can tell reported outcomes from fatal ones.
type Reporter interface {
	StudentGrade(ctx context.Context, name string) (GradeReport, error)
	AssignmentStats(ctx context.Context, name string) (StatsReport, error)
	AssignmentHistogram(ctx context.Context, name string) (Histogram, error)
	Students(ctx context.Context) ([]Student, error)
}

type memoryReporter struct{ d *Data }

func NewMemoryReporter(d *Data) Reporter { return &memoryReporter{d: d} }

func (m *memoryReporter) StudentGrade(_ context.Context, name string) (GradeReport, error) {
	return StudentGrade(m.d, name)
}

func (m *memoryReporter) AssignmentStats(_ context.Context, name string) (StatsReport, error) {
	return AssignmentStats(m.d, name)
}

func (m *memoryReporter) AssignmentHistogram(_ context.Context, name string) (Histogram, error) {
	return AssignmentHistogram(m.d, name)
}

func (m *memoryReporter) Students(context.Context) ([]Student, error) {
	return m.d.Students.List(), nil
}
