package certificate

import "learnhub/internal/domain"

// StatusFor is issued iff the course is completed, pending otherwise. It
// expects a purchased record; see StatusForCourse for lookups.
func StatusFor(rec domain.EnrollmentRecord) domain.CertificateStatus {
	if !rec.Purchased {
		return domain.CertificateNotApplicable
	}
	if rec.IsCompleted {
		return domain.CertificateIssued
	}
	return domain.CertificatePending
}

// StatusForCourse treats a missing record as not applicable, never pending.
func StatusForCourse(records []domain.EnrollmentRecord, courseID string) domain.CertificateStatus {
	for _, r := range records {
		if r.CourseID == courseID {
			return StatusFor(r)
		}
	}
	return domain.CertificateNotApplicable
}

// List builds the certificate list, one entry per purchased course in
// record order. The artifact link is whatever the server reported for an
// issued certificate; nothing is generated locally.
func List(records []domain.EnrollmentRecord) []domain.Certificate {
	out := make([]domain.Certificate, 0, len(records))
	for _, r := range records {
		status := StatusFor(r)
		if status == domain.CertificateNotApplicable {
			continue
		}
		c := domain.Certificate{
			CourseID: r.CourseID,
			Title:    r.Title,
			Status:   status,
			Progress: r.ProgressPercent,
		}
		if status == domain.CertificateIssued {
			c.ArtifactURL = r.CertificateURL
		}
		out = append(out, c)
	}
	return out
}
