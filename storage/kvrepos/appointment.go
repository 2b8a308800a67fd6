package kvrepos

import (
	"github.com/pkg/errors"

	"github.com/trezcool/pfetrack/core"
	"github.com/trezcool/pfetrack/core/appointment"
	"github.com/trezcool/pfetrack/core/project"
)

// AppointmentRepository resolves denormalized project fields through the
// project repository sharing the same store.
type AppointmentRepository struct {
	kv       core.KVStore
	projects *ProjectRepository
}

var _ appointment.Repository = (*AppointmentRepository)(nil)

func NewAppointmentRepository(kv core.KVStore, projects *ProjectRepository) *AppointmentRepository {
	return &AppointmentRepository{kv: kv, projects: projects}
}

// QueryAllAppointments backfills missing avatars from the current project
// data for legacy records lacking them. The backfill is a read-time
// projection only; the stored records are never rewritten by a read.
func (repo *AppointmentRepository) QueryAllAppointments() ([]appointment.Appointment, error) {
	appts, err := repo.queryStored()
	if err != nil {
		return nil, err
	}
	for i := range appts {
		if appts[i].StudentAvatar != "" {
			continue
		}
		proj, err := repo.projects.GetProjectByStudent(appts[i].StudentID)
		if err != nil {
			if errors.Is(err, project.ErrNotFound) {
				continue
			}
			return nil, err
		}
		appts[i].StudentAvatar = proj.StudentAvatar
	}
	return appts, nil
}

func (repo *AppointmentRepository) GetAppointmentByID(id string) (appointment.Appointment, error) {
	appts, err := repo.QueryAllAppointments()
	if err != nil {
		return appointment.Appointment{}, err
	}
	for _, appt := range appts {
		if appt.ID == id {
			return appt, nil
		}
	}
	return appointment.Appointment{}, appointment.ErrNotFound
}

// CreateAppointment resolves the denormalized avatar and the linked
// project id/title from the requesting student's current project at
// insertion time. The fields stay absent when the student has no project
// yet.
func (repo *AppointmentRepository) CreateAppointment(appt appointment.Appointment) (appointment.Appointment, error) {
	proj, err := repo.projects.GetProjectByStudent(appt.StudentID)
	if err == nil {
		appt.StudentAvatar = proj.StudentAvatar
		if appt.ProjectID == "" {
			appt.ProjectID = proj.ID
			appt.ProjectTitle = proj.Title
		}
	} else if !errors.Is(err, project.ErrNotFound) {
		return appointment.Appointment{}, err
	}

	appts, err := repo.queryStored()
	if err != nil {
		return appointment.Appointment{}, err
	}
	appts = append(appts, appt)
	if err = encodeKey(repo.kv, keyAppointments, appts); err != nil {
		return appointment.Appointment{}, err
	}
	return appt, nil
}

func (repo *AppointmentRepository) UpdateAppointment(appt appointment.Appointment) (appointment.Appointment, error) {
	appts, err := repo.queryStored()
	if err != nil {
		return appointment.Appointment{}, err
	}
	for i := range appts {
		if appts[i].ID == appt.ID {
			appts[i] = appt
			if err = encodeKey(repo.kv, keyAppointments, appts); err != nil {
				return appointment.Appointment{}, err
			}
			return appt, nil
		}
	}
	return appointment.Appointment{}, appointment.ErrNotFound
}

func (repo *AppointmentRepository) SyncStudentProfile(studentID string, name, avatar *string) error {
	appts, err := repo.queryStored()
	if err != nil {
		return err
	}

	var touched bool
	for i := range appts {
		if appts[i].StudentID != studentID {
			continue
		}
		if name != nil {
			appts[i].StudentName = *name
		}
		if avatar != nil {
			appts[i].StudentAvatar = *avatar
		}
		touched = true
	}
	if !touched {
		return nil
	}
	return encodeKey(repo.kv, keyAppointments, appts)
}

// queryStored returns the records exactly as persisted, without the
// read-time avatar backfill.
func (repo *AppointmentRepository) queryStored() ([]appointment.Appointment, error) {
	appts := make([]appointment.Appointment, 0)
	if _, err := decodeKey(repo.kv, keyAppointments, &appts); err != nil {
		return nil, err
	}
	return appts, nil
}
