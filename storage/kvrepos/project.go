package kvrepos

import (
	"github.com/trezcool/pfetrack/core"
	"github.com/trezcool/pfetrack/core/project"
)

type ProjectRepository struct {
	kv core.KVStore
}

var _ project.Repository = (*ProjectRepository)(nil)

func NewProjectRepository(kv core.KVStore) *ProjectRepository {
	return &ProjectRepository{kv: kv}
}

func (repo *ProjectRepository) QueryAllProjects() ([]project.Project, error) {
	projects := make([]project.Project, 0)
	if _, err := decodeKey(repo.kv, keyProjects, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (repo *ProjectRepository) GetProjectByID(id string) (project.Project, error) {
	projects, err := repo.QueryAllProjects()
	if err != nil {
		return project.Project{}, err
	}
	for _, proj := range projects {
		if proj.ID == id {
			return proj, nil
		}
	}
	return project.Project{}, project.ErrNotFound
}

// GetProjectByStudent returns the first project owned by studentID.
func (repo *ProjectRepository) GetProjectByStudent(studentID string) (project.Project, error) {
	projects, err := repo.QueryAllProjects()
	if err != nil {
		return project.Project{}, err
	}
	for _, proj := range projects {
		if proj.StudentID == studentID {
			return proj, nil
		}
	}
	return project.Project{}, project.ErrNotFound
}

func (repo *ProjectRepository) UpsertProject(proj project.Project) (project.Project, error) {
	projects, err := repo.QueryAllProjects()
	if err != nil {
		return project.Project{}, err
	}

	var replaced bool
	for i := range projects {
		if projects[i].ID == proj.ID {
			projects[i] = proj
			replaced = true
			break
		}
	}
	if !replaced {
		projects = append(projects, proj)
	}
	if err = encodeKey(repo.kv, keyProjects, projects); err != nil {
		return project.Project{}, err
	}
	return proj, nil
}

// SyncStudentProfile overwrites the denormalized student name/avatar on
// every project owned by studentID and persists. Nil fields are left
// untouched. Skips the write when the student owns no project.
func (repo *ProjectRepository) SyncStudentProfile(studentID string, name, avatar *string) error {
	projects, err := repo.QueryAllProjects()
	if err != nil {
		return err
	}

	var touched bool
	for i := range projects {
		if projects[i].StudentID != studentID {
			continue
		}
		if name != nil {
			projects[i].StudentName = *name
		}
		if avatar != nil {
			projects[i].StudentAvatar = *avatar
		}
		touched = true
	}
	if !touched {
		return nil
	}
	return encodeKey(repo.kv, keyProjects, projects)
}
