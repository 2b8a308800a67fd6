package project

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/pfetrack/core"
)

var (
	// errors
	ErrNotFound         = errors.New("project not found")
	ErrDocumentNotFound = errors.New("document not found")

	errUnknownTrack     = errors.New("unknown progress track")
	errUnknownMilestone = errors.New("unknown milestone")
	errUnknownAuthor    = errors.New("unknown journal author")
)

type (
	Repository interface {
		QueryAllProjects() ([]Project, error)
		GetProjectByID(id string) (Project, error)
		// GetProjectByStudent returns the first project owned by studentID.
		GetProjectByStudent(studentID string) (Project, error)
		// UpsertProject inserts when the id is unseen, else fully replaces
		// the stored record.
		UpsertProject(project Project) (Project, error)
		// SyncStudentProfile overwrites the denormalized student name/avatar
		// on every project owned by studentID. Nil fields are left untouched.
		SyncStudentProfile(studentID string, name, avatar *string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) QueryAll() ([]Project, error) {
	return svc.repo.QueryAllProjects()
}

func (svc *Service) GetByID(id string) (Project, error) {
	return svc.repo.GetProjectByID(id)
}

func (svc *Service) GetByStudent(studentID string) (Project, error) {
	return svc.repo.GetProjectByStudent(studentID)
}

func (svc *Service) Create(np NewProject) (Project, error) {
	proj := Project{
		ID:           uuid.New().String(),
		Title:        core.CleanString(np.Title),
		StudentID:    np.StudentID,
		StudentName:  core.CleanString(np.StudentName),
		StudentEmail: core.CleanString(np.StudentEmail, true),
		Supervisor:   core.CleanString(np.Supervisor),
		Description:  np.Description,
		Progress:     DefaultProgress(),
		Status:       StatusInProgress,
		ProposalURL:  np.ProposalURL,
	}
	return svc.repo.UpsertProject(proj)
}

func (svc *Service) Upsert(proj Project) (Project, error) {
	return svc.repo.UpsertProject(proj)
}

// SetMilestoneCompletion clamps completion to 0-100 and stamps the
// milestone's last-update date.
func (svc *Service) SetMilestoneCompletion(projectID, track, milestone string, completion int) (Project, error) {
	proj, err := svc.repo.GetProjectByID(projectID)
	if err != nil {
		return Project{}, err
	}

	var milestones []Milestone
	switch track {
	case TrackExperimental:
		milestones = proj.Progress.Experimental
	case TrackWriting:
		milestones = proj.Progress.Writing
	default:
		return Project{}, core.NewValidationError(errUnknownTrack, core.FieldError{Field: "track", Error: errUnknownTrack.Error()})
	}

	if completion < 0 {
		completion = 0
	} else if completion > 100 {
		completion = 100
	}

	for i := range milestones {
		if milestones[i].Name == milestone {
			milestones[i].Completion = completion
			milestones[i].LastUpdate = time.Now().Format(dateLayout)
			return svc.repo.UpsertProject(proj)
		}
	}
	return Project{}, core.NewValidationError(errUnknownMilestone, core.FieldError{Field: "milestone", Error: errUnknownMilestone.Error()})
}

func (svc *Service) RequestValidation(projectID string) (Project, error) {
	return svc.setStatus(projectID, StatusAwaitingValidation)
}

func (svc *Service) Complete(projectID string) (Project, error) {
	return svc.setStatus(projectID, StatusCompleted)
}

func (svc *Service) setStatus(projectID, status string) (Project, error) {
	proj, err := svc.repo.GetProjectByID(projectID)
	if err != nil {
		return Project{}, err
	}
	proj.Status = status
	return svc.repo.UpsertProject(proj)
}

// SignBySupervisor records the supervisor signature/stamp image references
// and moves the project to the signed status.
func (svc *Service) SignBySupervisor(projectID, signature, stamp string) (Project, error) {
	proj, err := svc.repo.GetProjectByID(projectID)
	if err != nil {
		return Project{}, err
	}
	proj.SupervisorSignature = signature
	proj.SupervisorStamp = stamp
	proj.SignatureDate = time.Now().Format(dateLayout)
	proj.Status = StatusSigned
	return svc.repo.UpsertProject(proj)
}

func (svc *Service) SignByHead(projectID, signature, stamp string) (Project, error) {
	proj, err := svc.repo.GetProjectByID(projectID)
	if err != nil {
		return Project{}, err
	}
	proj.HeadSignature = signature
	proj.HeadStamp = stamp
	proj.HeadSignatureDate = time.Now().Format(dateLayout)
	return svc.repo.UpsertProject(proj)
}

// AddJournalEntry appends a dated/timed entry; the journal is append-only.
func (svc *Service) AddJournalEntry(projectID, author, text string) (Project, error) {
	if author != AuthorStudent && author != AuthorSupervisor {
		return Project{}, core.NewValidationError(errUnknownAuthor, core.FieldError{Field: "author", Error: errUnknownAuthor.Error()})
	}
	proj, err := svc.repo.GetProjectByID(projectID)
	if err != nil {
		return Project{}, err
	}

	now := time.Now()
	proj.Journal = append(proj.Journal, JournalEntry{
		Date:   now.Format(dateLayout),
		Time:   now.Format(timeLayout),
		Text:   text,
		Author: author,
	})
	return svc.repo.UpsertProject(proj)
}

// AddDocument generates the document id and date, mutates the owning
// project and persists it.
func (svc *Service) AddDocument(projectID string, nd NewDocument) (Document, error) {
	proj, err := svc.repo.GetProjectByID(projectID)
	if err != nil {
		return Document{}, err
	}

	doc := Document{
		ID:       uuid.New().String(),
		Name:     core.CleanString(nd.Name),
		URL:      nd.URL,
		Date:     time.Now().Format(dateLayout),
		Category: nd.Category,
	}
	proj.Documents = append(proj.Documents, doc)
	if _, err = svc.repo.UpsertProject(proj); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func (svc *Service) RemoveDocument(projectID, documentID string) error {
	proj, err := svc.repo.GetProjectByID(projectID)
	if err != nil {
		return err
	}

	docs := make([]Document, 0, len(proj.Documents))
	var found bool
	for _, doc := range proj.Documents {
		if doc.ID == documentID {
			found = true
			continue
		}
		docs = append(docs, doc)
	}
	if !found {
		return ErrDocumentNotFound
	}
	proj.Documents = docs
	_, err = svc.repo.UpsertProject(proj)
	return err
}

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// DefaultProgress builds the two standard tracks a fresh PFE starts with.
func DefaultProgress() Progress {
	return Progress{
		Experimental: []Milestone{
			{Name: "État de l'art"},
			{Name: "Conception"},
			{Name: "Réalisation"},
			{Name: "Tests et validation"},
		},
		Writing: []Milestone{
			{Name: "Introduction"},
			{Name: "Chapitres principaux"},
			{Name: "Conclusion"},
			{Name: "Relecture finale"},
		},
	}
}
