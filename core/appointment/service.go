package appointment

import (
	"errors"
	"fmt"
	"net/mail"

	"github.com/google/uuid"

	"github.com/trezcool/pfetrack/core"
)

var (
	// errors
	ErrNotFound = errors.New("appointment not found")

	errInvalidSlot = errors.New("invalid time slot")
)

type (
	Repository interface {
		// QueryAllAppointments backfills missing denormalized avatars from
		// the current project data as a pure read-time projection; the
		// stored records are never mutated by a read.
		QueryAllAppointments() ([]Appointment, error)
		GetAppointmentByID(id string) (Appointment, error)
		// CreateAppointment resolves the denormalized avatar (and linked
		// project id/title when unset) from the requesting student's current
		// project at insertion time; the fields stay absent if the student
		// has no project yet.
		CreateAppointment(appointment Appointment) (Appointment, error)
		UpdateAppointment(appointment Appointment) (Appointment, error)
		SyncStudentProfile(studentID string, name, avatar *string) error
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		inbox   mail.Address
	}
)

// NewService wires the repository and the booking notifier. Notices go to
// the department's supervisor inbox; delivery is fire-and-forget and never
// affects the storage write that triggered it.
func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{
		repo:    repo,
		mailSvc: mailSvc,
		inbox:   conf.AppointmentInbox,
	}
}

func (svc *Service) QueryAll() ([]Appointment, error) {
	return svc.repo.QueryAllAppointments()
}

func (svc *Service) GetByID(id string) (Appointment, error) {
	return svc.repo.GetAppointmentByID(id)
}

func (svc *Service) QueryByStudent(studentID string) ([]Appointment, error) {
	appts, err := svc.repo.QueryAllAppointments()
	if err != nil {
		return nil, err
	}
	res := make([]Appointment, 0, len(appts))
	for _, appt := range appts {
		if appt.StudentID == studentID {
			res = append(res, appt)
		}
	}
	return res, nil
}

// Book persists the appointment first, then notifies the supervisor inbox.
// The appointment is persisted regardless of the notifier outcome.
func (svc *Service) Book(na NewAppointment) (Appointment, error) {
	if !IsValidTimeSlot(na.TimeSlot) {
		return Appointment{}, core.NewValidationError(errInvalidSlot, core.FieldError{Field: "time_slot", Error: errInvalidSlot.Error()})
	}

	appt := Appointment{
		ID:          uuid.New().String(),
		StudentID:   na.StudentID,
		StudentName: core.CleanString(na.StudentName),
		Date:        na.Date,
		TimeSlot:    na.TimeSlot,
		Reason:      na.Reason,
		Status:      StatusPending,
	}
	appt, err := svc.repo.CreateAppointment(appt)
	if err != nil {
		return Appointment{}, err
	}

	svc.notifyBooking(appt)
	return appt, nil
}

// Postpone mutates only the date and time slot and forces the postponed
// status; every other field is left unchanged.
func (svc *Service) Postpone(id string, p Postponement) (Appointment, error) {
	if !IsValidTimeSlot(p.TimeSlot) {
		return Appointment{}, core.NewValidationError(errInvalidSlot, core.FieldError{Field: "time_slot", Error: errInvalidSlot.Error()})
	}

	appt, err := svc.repo.GetAppointmentByID(id)
	if err != nil {
		return Appointment{}, err
	}
	appt.Date = p.Date
	appt.TimeSlot = p.TimeSlot
	appt.Status = StatusPostponed
	return svc.repo.UpdateAppointment(appt)
}

func (svc *Service) Accept(id string) (Appointment, error) {
	return svc.setStatus(id, StatusAccepted)
}

func (svc *Service) Cancel(id string) (Appointment, error) {
	return svc.setStatus(id, StatusCancelled)
}

func (svc *Service) setStatus(id, status string) (Appointment, error) {
	appt, err := svc.repo.GetAppointmentByID(id)
	if err != nil {
		return Appointment{}, err
	}
	appt.Status = status
	return svc.repo.UpdateAppointment(appt)
}

func (svc *Service) notifyBooking(appt Appointment) {
	if svc.mailSvc == nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{svc.inbox},
		Subject: "Nouvelle demande de rendez-vous",
		BodyStr: fmt.Sprintf(
			"Étudiant : %s\nProjet : %s\nDate : %s\nCréneau : %s\nMotif : %s\n",
			appt.StudentName, appt.ProjectTitle, appt.Date, appt.TimeSlot, appt.Reason,
		),
	})
}
