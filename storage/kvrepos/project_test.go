package kvrepos

import (
	"errors"
	"testing"

	"github.com/trezcool/pfetrack/core/project"
	kvstore "github.com/trezcool/pfetrack/storage/kv"
)

func strPtr(s string) *string { return &s }

func TestProjectRepository_upsert(t *testing.T) {
	kv := kvstore.NewMemStore()
	repo := NewProjectRepository(kv)

	proj := project.Project{ID: "p1", Title: "Projet A", StudentID: "s1", StudentName: "Amina"}
	if _, err := repo.UpsertProject(proj); err != nil {
		t.Fatalf("UpsertProject() failed: %v", err)
	}

	// full replace on known id
	proj.Title = "Projet A bis"
	if _, err := repo.UpsertProject(proj); err != nil {
		t.Fatalf("UpsertProject() failed: %v", err)
	}

	projects, err := repo.QueryAllProjects()
	if err != nil {
		t.Fatalf("QueryAllProjects() failed: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("len(projects) = %d; want 1", len(projects))
	}
	if projects[0].Title != "Projet A bis" {
		t.Errorf("Title = %s; want Projet A bis", projects[0].Title)
	}
}

func TestProjectRepository_getByStudent(t *testing.T) {
	kv := kvstore.NewMemStore()
	repo := NewProjectRepository(kv)

	for _, proj := range []project.Project{
		{ID: "p1", StudentID: "s1", StudentName: "B"},
		{ID: "p2", StudentID: "s1", StudentName: "B"}, // second match, never returned
		{ID: "p3", StudentID: "s2", StudentName: "C"},
	} {
		if _, err := repo.UpsertProject(proj); err != nil {
			t.Fatalf("UpsertProject() failed: %v", err)
		}
	}

	got, err := repo.GetProjectByStudent("s1")
	if err != nil {
		t.Fatalf("GetProjectByStudent() failed: %v", err)
	}
	if got.ID != "p1" {
		t.Errorf("GetProjectByStudent() = %s; want first match p1", got.ID)
	}
	if got.StudentName != "B" {
		t.Errorf("StudentName = %s; want B", got.StudentName)
	}

	if _, err = repo.GetProjectByStudent("nobody"); !errors.Is(err, project.ErrNotFound) {
		t.Errorf("GetProjectByStudent(nobody) error = %v; want ErrNotFound", err)
	}
}

func TestProjectRepository_syncStudentProfile(t *testing.T) {
	kv := kvstore.NewMemStore()
	repo := NewProjectRepository(kv)

	for _, proj := range []project.Project{
		{ID: "p1", StudentID: "s1", StudentName: "Old", StudentAvatar: "old.png"},
		{ID: "p2", StudentID: "s1", StudentName: "Old", StudentAvatar: "old.png"},
		{ID: "p3", StudentID: "s2", StudentName: "Other", StudentAvatar: "other.png"},
	} {
		if _, err := repo.UpsertProject(proj); err != nil {
			t.Fatalf("UpsertProject() failed: %v", err)
		}
	}

	// nil avatar must be left untouched
	if err := repo.SyncStudentProfile("s1", strPtr("New"), nil); err != nil {
		t.Fatalf("SyncStudentProfile() failed: %v", err)
	}

	projects, err := repo.QueryAllProjects()
	if err != nil {
		t.Fatalf("QueryAllProjects() failed: %v", err)
	}
	for _, proj := range projects {
		switch proj.StudentID {
		case "s1":
			if proj.StudentName != "New" {
				t.Errorf("project %s StudentName = %s; want New", proj.ID, proj.StudentName)
			}
			if proj.StudentAvatar != "old.png" {
				t.Errorf("project %s StudentAvatar = %s; want old.png untouched", proj.ID, proj.StudentAvatar)
			}
		case "s2":
			if proj.StudentName != "Other" || proj.StudentAvatar != "other.png" {
				t.Errorf("unrelated project %s mutated: %+v", proj.ID, proj)
			}
		}
	}
}
