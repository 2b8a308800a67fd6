package notification

// Kinds (severity/category). The stored strings are the portal's original
// French values.
const (
	KindInfo   = "info"
	KindAlert  = "alerte"
	KindUrgent = "urgent"
)

var Kinds = []string{KindInfo, KindAlert, KindUrgent}

// MaxStored bounds the retained history; CreateNotification prepends
// newest-first and discards the oldest excess entries.
const MaxStored = 15

// Notification is a broadcast or personal message. Broadcasts omit
// StudentID; global dismissal deactivates (Active=false) without deleting.
type Notification struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	Date      string `json:"date"`
	Time      string `json:"heure"`
	Author    string `json:"auteur"`
	Kind      string `json:"type"`
	Active    bool   `json:"active"`
	StudentID string `json:"etudiantId,omitempty"`
}

// NewNotification contains information needed to publish a notification.
// An empty StudentID makes it a broadcast.
type NewNotification struct {
	Message   string `json:"message" validate:"required"`
	Author    string `json:"author" validate:"required"`
	Kind      string `json:"kind" validate:"required"`
	StudentID string `json:"student_id"`
}

// UpcomingCheckpoint is one entry of the ordered schedule handed to the
// reminder generator.
type UpcomingCheckpoint struct {
	Number int
	Date   string // stored date string, "2006-01-02"
}
