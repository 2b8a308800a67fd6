package notification

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/pfetrack/core"
)

var (
	// errors
	ErrNotFound = errors.New("notification not found")

	errUnknownKind = errors.New("unknown notification kind")

	// ReminderAuthor labels system-generated checkpoint reminders.
	ReminderAuthor = "Système"

	// reminderWindow is how far ahead checkpoint reminders fire.
	reminderWindow = 72 * time.Hour
)

type (
	Repository interface {
		// QueryAllNotifications returns the retained history, newest first.
		QueryAllNotifications() ([]Notification, error)
		// CreateNotification prepends and truncates the stored list to
		// MaxStored entries.
		CreateNotification(notification Notification) (Notification, error)
		// DeactivateNotification sets active=false without removing the
		// record.
		DeactivateNotification(id string) error
		// DeleteNotification removes a single record.
		DeleteNotification(id string) error
		// ClearNotifications empties the collection irreversibly.
		ClearNotifications() error
		// HasDuplicate reports whether a notification with this exact
		// message already exists for the student.
		HasDuplicate(studentID, message string) (bool, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) QueryAll() ([]Notification, error) {
	return svc.repo.QueryAllNotifications()
}

// QueryForStudent returns the student's personal notifications plus the
// active broadcasts, preserving the stored newest-first order.
func (svc *Service) QueryForStudent(studentID string) ([]Notification, error) {
	all, err := svc.repo.QueryAllNotifications()
	if err != nil {
		return nil, err
	}
	res := make([]Notification, 0, len(all))
	for _, n := range all {
		if n.StudentID == studentID || (n.StudentID == "" && n.Active) {
			res = append(res, n)
		}
	}
	return res, nil
}

func (svc *Service) Publish(nn NewNotification) (Notification, error) {
	if nn.Kind != KindInfo && nn.Kind != KindAlert && nn.Kind != KindUrgent {
		return Notification{}, core.NewValidationError(errUnknownKind, core.FieldError{Field: "kind", Error: errUnknownKind.Error()})
	}

	now := time.Now()
	notif := Notification{
		ID:        uuid.New().String(),
		Message:   core.CleanString(nn.Message),
		Date:      now.Format(dateLayout),
		Time:      now.Format(timeLayout),
		Author:    nn.Author,
		Kind:      nn.Kind,
		Active:    true,
		StudentID: nn.StudentID,
	}
	return svc.repo.CreateNotification(notif)
}

func (svc *Service) Deactivate(id string) error {
	return svc.repo.DeactivateNotification(id)
}

func (svc *Service) Purge(id string) error {
	return svc.repo.DeleteNotification(id)
}

func (svc *Service) ClearAll() error {
	return svc.repo.ClearNotifications()
}

// GenerateCheckpointReminders inserts one reminder per checkpoint whose
// scheduled date falls strictly between now and three days from now.
// Message text is deterministic, so HasDuplicate makes repeat calls
// idempotent. Returns the number of reminders actually inserted.
func (svc *Service) GenerateCheckpointReminders(studentID string, schedule []UpcomingCheckpoint, now time.Time) (int, error) {
	var inserted int
	for _, cp := range schedule {
		date, err := time.Parse(dateLayout, cp.Date)
		if err != nil {
			continue // unscheduled or free-form week label
		}
		if !date.After(now) || !date.Before(now.Add(reminderWindow)) {
			continue
		}

		msg := ReminderMessage(cp.Number, date)
		dup, err := svc.repo.HasDuplicate(studentID, msg)
		if err != nil {
			return inserted, err
		}
		if dup {
			continue
		}

		notif := Notification{
			ID:        uuid.New().String(),
			Message:   msg,
			Date:      now.Format(dateLayout),
			Time:      now.Format(timeLayout),
			Author:    ReminderAuthor,
			Kind:      KindInfo,
			Active:    true,
			StudentID: studentID,
		}
		if _, err = svc.repo.CreateNotification(notif); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

// ReminderMessage builds the deterministic reminder text for a checkpoint.
func ReminderMessage(number int, date time.Time) string {
	return fmt.Sprintf("Rappel : la séance de suivi n°%d est prévue le %s. Pensez à préparer votre avancement.",
		number, date.Format("02/01/2006"))
}

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)
