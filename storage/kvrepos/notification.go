package kvrepos

import (
	"github.com/trezcool/pfetrack/core"
	"github.com/trezcool/pfetrack/core/notification"
)

type NotificationRepository struct {
	kv core.KVStore
}

var _ notification.Repository = (*NotificationRepository)(nil)

func NewNotificationRepository(kv core.KVStore) *NotificationRepository {
	return &NotificationRepository{kv: kv}
}

// QueryAllNotifications returns the retained history, newest first.
func (repo *NotificationRepository) QueryAllNotifications() ([]notification.Notification, error) {
	notifs := make([]notification.Notification, 0)
	if _, err := decodeKey(repo.kv, keyNotifications, &notifs); err != nil {
		return nil, err
	}
	return notifs, nil
}

// CreateNotification prepends the record and truncates the history to
// notification.MaxStored entries, discarding the oldest excess.
func (repo *NotificationRepository) CreateNotification(notif notification.Notification) (notification.Notification, error) {
	notifs, err := repo.QueryAllNotifications()
	if err != nil {
		return notification.Notification{}, err
	}

	notifs = append([]notification.Notification{notif}, notifs...)
	if len(notifs) > notification.MaxStored {
		notifs = notifs[:notification.MaxStored]
	}
	if err = encodeKey(repo.kv, keyNotifications, notifs); err != nil {
		return notification.Notification{}, err
	}
	return notif, nil
}

// DeactivateNotification sets active=false, keeping the record.
func (repo *NotificationRepository) DeactivateNotification(id string) error {
	notifs, err := repo.QueryAllNotifications()
	if err != nil {
		return err
	}
	for i := range notifs {
		if notifs[i].ID == id {
			notifs[i].Active = false
			return encodeKey(repo.kv, keyNotifications, notifs)
		}
	}
	return notification.ErrNotFound
}

func (repo *NotificationRepository) DeleteNotification(id string) error {
	notifs, err := repo.QueryAllNotifications()
	if err != nil {
		return err
	}

	kept := make([]notification.Notification, 0, len(notifs))
	var found bool
	for _, n := range notifs {
		if n.ID == id {
			found = true
			continue
		}
		kept = append(kept, n)
	}
	if !found {
		return notification.ErrNotFound
	}
	return encodeKey(repo.kv, keyNotifications, kept)
}

func (repo *NotificationRepository) ClearNotifications() error {
	return encodeKey(repo.kv, keyNotifications, []notification.Notification{})
}

// HasDuplicate reports whether a notification with this exact message
// already exists for the student. The reminder generator relies on it for
// idempotency.
func (repo *NotificationRepository) HasDuplicate(studentID, message string) (bool, error) {
	notifs, err := repo.QueryAllNotifications()
	if err != nil {
		return false, err
	}
	for _, n := range notifs {
		if n.StudentID == studentID && n.Message == message {
			return true, nil
		}
	}
	return false, nil
}
