package appointment

// Statuses. The stored strings are the portal's original French values.
const (
	StatusPending   = "en-attente"
	StatusAccepted  = "accepte"
	StatusPostponed = "reporte"
	StatusCancelled = "annule"
)

var Statuses = []string{StatusPending, StatusAccepted, StatusPostponed, StatusCancelled}

// TimeSlots is the fixed enumerated set of bookable consultation slots.
var TimeSlots = []string{
	"09:00-10:00",
	"10:00-11:00",
	"11:00-12:00",
	"14:00-15:00",
	"15:00-16:00",
	"16:00-17:00",
}

func IsValidTimeSlot(slot string) bool {
	for _, s := range TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// Appointment is a requested consultation slot. StudentName and
// StudentAvatar are denormalized display copies; the avatar is resolved
// from the student's current project at insertion time.
type Appointment struct {
	ID            string `json:"id"`
	StudentID     string `json:"etudiantId"`
	StudentName   string `json:"nomEtudiant"`
	StudentAvatar string `json:"avatarEtudiant,omitempty"`
	ProjectID     string `json:"projetId,omitempty"`
	ProjectTitle  string `json:"titreProjet,omitempty"`
	Date          string `json:"date"`
	TimeSlot      string `json:"creneau"`
	Reason        string `json:"motif,omitempty"`
	Status        string `json:"statut"`
}

// NewAppointment contains information needed to book a consultation slot.
type NewAppointment struct {
	StudentID   string `json:"student_id" validate:"required"`
	StudentName string `json:"student_name" validate:"required"`
	Date        string `json:"date" validate:"required"`
	TimeSlot    string `json:"time_slot" validate:"required,timeslot"`
	Reason      string `json:"reason"`
}

// Postponement carries the only fields a postpone action may mutate.
type Postponement struct {
	Date     string `json:"date" validate:"required"`
	TimeSlot string `json:"time_slot" validate:"required,timeslot"`
}
