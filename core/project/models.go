package project

// Lifecycle statuses. The stored strings are the portal's original French
// values.
const (
	StatusInProgress         = "en-cours"
	StatusAwaitingValidation = "en-attente-validation"
	StatusSigned             = "signe"
	StatusCompleted          = "termine"
)

var Statuses = []string{StatusInProgress, StatusAwaitingValidation, StatusSigned, StatusCompleted}

// Journal entry authors
const (
	AuthorStudent    = "etudiant"
	AuthorSupervisor = "encadrant"
)

// Progress tracks
const (
	TrackExperimental = "experimentale"
	TrackWriting      = "redaction"
)

type (
	// Milestone is one named step of a progress track with a 0-100 integer
	// completion. Dates are stored as strings exactly as the portal wrote
	// them.
	Milestone struct {
		Name       string `json:"nom"`
		Completion int    `json:"avancement"`
		LastUpdate string `json:"derniereMaj,omitempty"`
		Deadline   string `json:"echeance,omitempty"`
	}

	Progress struct {
		Experimental []Milestone `json:"experimentale"`
		Writing      []Milestone `json:"redaction"`
	}

	// JournalEntry is an append-only dated/timed free-text entry tagged with
	// its author role.
	JournalEntry struct {
		Date   string `json:"date"`
		Time   string `json:"heure"`
		Text   string `json:"texte"`
		Author string `json:"auteur"`
	}

	Document struct {
		ID       string `json:"id"`
		Name     string `json:"nom"`
		URL      string `json:"url"`
		Date     string `json:"date"`
		Category string `json:"categorie,omitempty"`
	}

	// Project is one student's assigned PFE. The owning-student id is
	// immutable after creation; the student name/avatar/email/phone fields
	// are denormalized display copies kept consistent by SyncStudentProfile.
	Project struct {
		ID                  string         `json:"id"`
		Title               string         `json:"titre"`
		StudentID           string         `json:"etudiantId"`
		StudentName         string         `json:"nomEtudiant"`
		StudentEmail        string         `json:"emailEtudiant,omitempty"`
		StudentAvatar       string         `json:"avatarEtudiant,omitempty"`
		StudentPhone        string         `json:"telephoneEtudiant,omitempty"`
		Supervisor          string         `json:"encadrant"`
		Description         string         `json:"description,omitempty"`
		Progress            Progress       `json:"progression"`
		Status              string         `json:"statut"`
		SupervisorSignature string         `json:"signatureEncadrant,omitempty"`
		SupervisorStamp     string         `json:"cachetEncadrant,omitempty"`
		SignatureDate       string         `json:"dateSignature,omitempty"`
		HeadSignature       string         `json:"signatureChef,omitempty"`
		HeadStamp           string         `json:"cachetChef,omitempty"`
		HeadSignatureDate   string         `json:"dateSignatureChef,omitempty"`
		ProposalURL         string         `json:"propositionUrl,omitempty"`
		Journal             []JournalEntry `json:"journal,omitempty"`
		Documents           []Document     `json:"documents,omitempty"`
	}
)

// NewDocument contains information needed to attach a document to a project.
type NewDocument struct {
	Name     string `json:"name" validate:"required"`
	URL      string `json:"url" validate:"required,url"`
	Category string `json:"category"`
}

// NewProject contains information needed to assign a new PFE to a student.
type NewProject struct {
	Title        string `json:"title" validate:"required"`
	StudentID    string `json:"student_id" validate:"required"`
	StudentName  string `json:"student_name" validate:"required"`
	StudentEmail string `json:"student_email" validate:"omitempty,email"`
	Supervisor   string `json:"supervisor" validate:"required"`
	Description  string `json:"description"`
	ProposalURL  string `json:"proposal_url" validate:"omitempty,url"`
}
