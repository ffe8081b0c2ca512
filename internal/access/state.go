package access

import (
	"fmt"

	"learnhub/internal/domain"
)

// StateOf derives the course access state from the learner's record. A
// missing record means the course is locked.
func StateOf(rec *domain.EnrollmentRecord) domain.AccessState {
	switch {
	case rec == nil || !rec.Purchased:
		return domain.AccessLocked
	case rec.IsCompleted:
		return domain.AccessCompleted
	case rec.ProgressPercent > 0:
		return domain.AccessInProgress
	default:
		return domain.AccessUnlocked
	}
}

// Transition applies a server-confirmed event. progress is the course
// progress the server reported with the event. Completed is terminal and no
// transition ever moves backwards.
func Transition(from domain.AccessState, ev domain.AccessEvent, progress int) (domain.AccessState, error) {
	progress = domain.ClampPercent(progress)
	switch from {
	case domain.AccessLocked:
		if ev == domain.EventPurchaseConfirmed {
			return domain.AccessUnlocked, nil
		}
	case domain.AccessUnlocked, domain.AccessInProgress:
		switch ev {
		case domain.EventPurchaseConfirmed:
			return from, nil
		case domain.EventLessonCompleted:
			if progress == 100 {
				return domain.AccessCompleted, nil
			}
			if progress > 0 {
				return domain.AccessInProgress, nil
			}
			return from, nil
		}
	case domain.AccessCompleted:
		return domain.AccessCompleted, nil
	}
	return from, fmt.Errorf("access: event %s not allowed in state %s", ev, from)
}
