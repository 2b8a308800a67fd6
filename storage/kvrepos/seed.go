package kvrepos

import (
	"github.com/trezcool/pfetrack/core/appointment"
	"github.com/trezcool/pfetrack/core/project"
)

// Seed is the reference dataset written into a fresh store. It is passed
// into Init explicitly so tests can substitute fixtures instead of the
// department's demo data.
type Seed struct {
	Projects     []project.Project
	Appointments []appointment.Appointment
}

// DefaultSeed returns the department's demo dataset: the projects and
// appointments a fresh deployment starts with. Notifications always seed
// empty and are not part of the registry.
func DefaultSeed() Seed {
	return Seed{
		Projects: []project.Project{
			{
				ID:            "pfe-2026-001",
				Title:         "Plateforme de supervision IoT pour serres agricoles",
				StudentID:     "etu-001",
				StudentName:   "Amine Bouaziz",
				StudentEmail:  "amine.bouaziz@univ.example",
				StudentAvatar: "assets/avatars/etu-001.png",
				StudentPhone:  "+216 20 123 456",
				Supervisor:    "Dr. Leila Haddad",
				Description:   "Conception et réalisation d'une plateforme de collecte et de visualisation de données capteurs pour serres connectées.",
				Progress:      project.DefaultProgress(),
				Status:        project.StatusInProgress,
				ProposalURL:   "assets/propositions/pfe-2026-001.pdf",
			},
			{
				ID:            "pfe-2026-002",
				Title:         "Détection d'anomalies réseau par apprentissage automatique",
				StudentID:     "etu-002",
				StudentName:   "Sana Mejri",
				StudentEmail:  "sana.mejri@univ.example",
				StudentAvatar: "assets/avatars/etu-002.png",
				Supervisor:    "Pr. Karim Ben Salah",
				Description:   "Étude comparative de modèles de détection d'intrusions et intégration dans une sonde réseau.",
				Progress:      project.DefaultProgress(),
				Status:        project.StatusInProgress,
			},
			{
				ID:          "pfe-2026-003",
				Title:       "Application mobile de gestion des stages",
				StudentID:   "etu-003",
				StudentName: "Youssef Trabelsi",
				Supervisor:  "Dr. Leila Haddad",
				Description: "Dématérialisation du circuit de validation des conventions de stage.",
				Progress:    project.DefaultProgress(),
				Status:      project.StatusInProgress,
			},
		},
		Appointments: []appointment.Appointment{
			{
				ID:            "rdv-001",
				StudentID:     "etu-001",
				StudentName:   "Amine Bouaziz",
				StudentAvatar: "assets/avatars/etu-001.png",
				ProjectID:     "pfe-2026-001",
				ProjectTitle:  "Plateforme de supervision IoT pour serres agricoles",
				Date:          "2026-03-02",
				TimeSlot:      "10:00-11:00",
				Reason:        "Validation du chapitre état de l'art",
				Status:        appointment.StatusAccepted,
			},
			{
				ID:          "rdv-002",
				StudentID:   "etu-002",
				StudentName: "Sana Mejri",
				ProjectID:   "pfe-2026-002",
				Date:        "2026-03-05",
				TimeSlot:    "14:00-15:00",
				Reason:      "Difficultés sur le jeu de données d'entraînement",
				Status:      appointment.StatusPending,
			},
		},
	}
}
