package tracksheet

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/pfetrack/core"
)

var (
	// errors
	ErrNotFound = errors.New("tracking sheet not found")

	errBadCheckpoint      = errors.New("checkpoint number out of range")
	errStudentNotSigned   = errors.New("student signature required before applying the supervisor stamp")
	errCheckpointCountOff = fmt.Errorf("a sheet must have exactly %d checkpoints", CheckpointCount)

	// Deadlines stamped onto every new sheet; the department fixes them
	// once per academic year.
	DefaultReportDeadline  = "2026-05-15"
	DefaultDefenseDeadline = "2026-06-30"
)

type (
	Repository interface {
		// GetSheetByProject returns the sheet stored for projectID; sheets
		// are keyed by project id, one per project.
		GetSheetByProject(projectID string) (Sheet, error)
		// SaveSheet replaces the entry for the sheet's project id. The
		// repository stores what it is given; default-sheet construction is
		// the caller's concern.
		SaveSheet(sheet Sheet) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NewSheet builds the default six-checkpoint sheet for a project.
func NewSheet(projectID, studentName, supervisorName, projectTitle string) Sheet {
	cps := make([]Checkpoint, CheckpointCount)
	for i := range cps {
		cps[i] = Checkpoint{
			Number: i + 1,
			Week:   fmt.Sprintf("Semaine %d", (i+1)*2),
			Status: StatusPending,
		}
	}
	return Sheet{
		ID:              uuid.New().String(),
		ProjectID:       projectID,
		StudentName:     studentName,
		SupervisorName:  supervisorName,
		ProjectTitle:    projectTitle,
		Checkpoints:     cps,
		ReportDeadline:  DefaultReportDeadline,
		DefenseDeadline: DefaultDefenseDeadline,
	}
}

// GetOrCreate returns the project's sheet, lazily building and persisting
// the default one on first access.
func (svc *Service) GetOrCreate(projectID, studentName, supervisorName, projectTitle string) (Sheet, error) {
	sheet, err := svc.repo.GetSheetByProject(projectID)
	if err == nil {
		return sheet, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Sheet{}, err
	}

	sheet = NewSheet(projectID, studentName, supervisorName, projectTitle)
	if err = svc.repo.SaveSheet(sheet); err != nil {
		return Sheet{}, err
	}
	return sheet, nil
}

func (svc *Service) GetByProject(projectID string) (Sheet, error) {
	return svc.repo.GetSheetByProject(projectID)
}

// Save validates the checkpoint invariants before persisting a full sheet.
func (svc *Service) Save(sheet Sheet) error {
	if err := validate(sheet); err != nil {
		return err
	}
	return svc.repo.SaveSheet(sheet)
}

// SaveStudentInput records the student block of a checkpoint and moves a
// pending checkpoint to in-progress. A signature is timestamped on first
// signing.
func (svc *Service) SaveStudentInput(projectID string, number int, in StudentInput) (Sheet, error) {
	return svc.mutateCheckpoint(projectID, number, func(cp *Checkpoint) error {
		if in.Signed && !cp.Student.Signed {
			in.SignedAt = time.Now().Format(time.RFC3339)
		} else if cp.Student.Signed {
			// signatures are not retractable through edits
			in.Signed = true
			in.SignedAt = cp.Student.SignedAt
			if in.Signature == "" {
				in.Signature = cp.Student.Signature
			}
		}
		cp.Student = in
		if cp.Status == StatusPending {
			cp.Status = StatusInProgress
		}
		return nil
	})
}

// SaveSupervisorInput records the supervisor block of a checkpoint. The
// stamp precondition is enforced here as well: a payload with Stamped set
// is rejected while the student signature is missing.
func (svc *Service) SaveSupervisorInput(projectID string, number int, in SupervisorInput) (Sheet, error) {
	return svc.mutateCheckpoint(projectID, number, func(cp *Checkpoint) error {
		if in.Stamped && !cp.Student.Signed {
			return core.NewValidationError(errStudentNotSigned, core.FieldError{Field: "stamped", Error: errStudentNotSigned.Error()})
		}
		if in.Signed && !cp.Supervisor.Signed {
			in.SignedAt = time.Now().Format(time.RFC3339)
		}
		cp.Supervisor = in
		if cp.Supervisor.Signed && cp.Supervisor.Stamped {
			cp.Status = StatusCompleted
		}
		return nil
	})
}

// ApplyStamp applies the supervisor stamp to a checkpoint. It is rejected
// while the corresponding student signature is absent.
func (svc *Service) ApplyStamp(projectID string, number int) (Sheet, error) {
	return svc.mutateCheckpoint(projectID, number, func(cp *Checkpoint) error {
		if !cp.Student.Signed {
			return core.NewValidationError(errStudentNotSigned, core.FieldError{Field: "stamped", Error: errStudentNotSigned.Error()})
		}
		cp.Supervisor.Stamped = true
		if cp.Supervisor.SignedAt == "" {
			cp.Supervisor.SignedAt = time.Now().Format(time.RFC3339)
		}
		if cp.Supervisor.Signed {
			cp.Status = StatusCompleted
		}
		return nil
	})
}

func (svc *Service) SetDepartmentVisa(projectID string, number int) (Sheet, error) {
	return svc.mutateCheckpoint(projectID, number, func(cp *Checkpoint) error {
		cp.DepartmentVisa = true
		return nil
	})
}

func (svc *Service) SaveFinalEvaluation(projectID string, eval FinalEvaluation) (Sheet, error) {
	sheet, err := svc.repo.GetSheetByProject(projectID)
	if err != nil {
		return Sheet{}, err
	}
	sheet.Final = eval
	if err = svc.repo.SaveSheet(sheet); err != nil {
		return Sheet{}, err
	}
	return sheet, nil
}

func (svc *Service) mutateCheckpoint(projectID string, number int, mutate func(*Checkpoint) error) (Sheet, error) {
	if number < 1 || number > CheckpointCount {
		return Sheet{}, core.NewValidationError(errBadCheckpoint, core.FieldError{Field: "number", Error: errBadCheckpoint.Error()})
	}

	sheet, err := svc.repo.GetSheetByProject(projectID)
	if err != nil {
		return Sheet{}, err
	}
	if err = validate(sheet); err != nil {
		return Sheet{}, err
	}

	if err = mutate(&sheet.Checkpoints[number-1]); err != nil {
		return Sheet{}, err
	}
	if err = svc.repo.SaveSheet(sheet); err != nil {
		return Sheet{}, err
	}
	return sheet, nil
}

func validate(sheet Sheet) error {
	if len(sheet.Checkpoints) != CheckpointCount {
		return core.NewValidationError(errCheckpointCountOff)
	}
	for i, cp := range sheet.Checkpoints {
		if cp.Number != i+1 {
			return core.NewValidationError(fmt.Errorf("checkpoint %d out of order", cp.Number))
		}
	}
	return nil
}
