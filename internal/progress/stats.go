package progress

import (
	"math"

	"learnhub/internal/domain"
)

// ComputeStats is a pure function of records: one pass, four counters and a
// progress sum.
func ComputeStats(records []domain.EnrollmentRecord) domain.DashboardStats {
	var stats domain.DashboardStats
	sum := 0
	for _, r := range records {
		stats.TotalCourses++
		sum += r.ProgressPercent
		switch r.Bucket() {
		case domain.StatusCompleted:
			stats.CompletedCourses++
		case domain.StatusInProgress:
			stats.InProgressCourses++
		default:
			stats.NotStartedCourses++
		}
	}
	if stats.TotalCourses > 0 {
		stats.AverageProgress = int(math.Round(float64(sum) / float64(stats.TotalCourses)))
	}
	return stats
}

// Filter returns the records matching f in their original order. The input
// slice is never modified.
func Filter(records []domain.EnrollmentRecord, f domain.EnrollmentFilter) []domain.EnrollmentRecord {
	out := make([]domain.EnrollmentRecord, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
