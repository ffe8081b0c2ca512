package domain

// AccessState is the learner's access to one course.
type AccessState string

const (
	AccessLocked     AccessState = "locked"
	AccessUnlocked   AccessState = "unlocked"
	AccessInProgress AccessState = "in_progress"
	AccessCompleted  AccessState = "completed"
)

// AccessEvent is a server-confirmed fact that may move an AccessState.
type AccessEvent string

const (
	EventPurchaseConfirmed AccessEvent = "purchase_confirmed"
	EventLessonCompleted   AccessEvent = "lesson_completed"
)

type CertificateStatus string

const (
	CertificateIssued        CertificateStatus = "issued"
	CertificatePending       CertificateStatus = "pending"
	CertificateNotApplicable CertificateStatus = "not_applicable"
)

// Certificate is one row of the learner's certificate list.
type Certificate struct {
	CourseID    string            `json:"courseId"`
	Title       string            `json:"title"`
	Status      CertificateStatus `json:"status"`
	Progress    int               `json:"progressPercent"`
	ArtifactURL string            `json:"artifactUrl,omitempty"`
}
