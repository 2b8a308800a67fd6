package tracksheet

// CheckpointCount is the fixed number of scheduled mandatory consultations
// per sheet; the checkpoint list never has any other length.
const CheckpointCount = 6

// Checkpoint statuses. The stored strings are the portal's original French
// values.
const (
	StatusPending    = "en-attente"
	StatusInProgress = "en-cours"
	StatusCompleted  = "terminee"
)

type (
	// StudentInput is the student-filled block of a checkpoint.
	StudentInput struct {
		Summary      string `json:"travailRealise,omitempty"`
		Difficulties string `json:"difficultes,omitempty"`
		Signed       bool   `json:"signee"`
		SignedAt     string `json:"dateSignature,omitempty"`
		Signature    string `json:"signature,omitempty"`
	}

	// SupervisorInput is the supervisor-filled block of a checkpoint.
	// Stamped may only become true once the student block is signed.
	SupervisorInput struct {
		Advancement string `json:"avancement,omitempty"`
		Remarks     string `json:"remarques,omitempty"`
		NextSteps   string `json:"prochainesEtapes,omitempty"`
		Signed      bool   `json:"signee"`
		Stamped     bool   `json:"cachetAppose"`
		SignedAt    string `json:"dateSignature,omitempty"`
	}

	Checkpoint struct {
		Number         int             `json:"numero"`
		Week           string          `json:"semaine"`
		Status         string          `json:"statut"`
		Student        StudentInput    `json:"etudiant"`
		Supervisor     SupervisorInput `json:"encadrant"`
		DepartmentVisa bool            `json:"visaDepartement"`
	}

	FinalEvaluation struct {
		WorkRating        string `json:"noteTravail,omitempty"`
		ReportRating      string `json:"noteRapport,omitempty"`
		DefenseOpinion    string `json:"avisSoutenance,omitempty"`
		SupervisorSigned  bool   `json:"signatureEncadrant"`
		SupervisorStamped bool   `json:"cachetEncadrant"`
	}

	// Sheet is the official fiche de suivi: one per project, created lazily
	// on first access.
	Sheet struct {
		ID              string          `json:"id"`
		ProjectID       string          `json:"projetId"`
		StudentName     string          `json:"nomEtudiant"`
		SupervisorName  string          `json:"nomEncadrant"`
		ProjectTitle    string          `json:"titreProjet"`
		Checkpoints     []Checkpoint    `json:"seances"`
		Final           FinalEvaluation `json:"evaluationFinale"`
		ReportDeadline  string          `json:"dateLimiteRapport,omitempty"`
		DefenseDeadline string          `json:"dateLimiteSoutenance,omitempty"`
	}
)
