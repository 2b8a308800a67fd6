package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/trezcool/pfetrack/core/tracksheet"
	"github.com/trezcool/pfetrack/core/user"
)

func Test_sheetApi_flow(t *testing.T) {
	resetStore(t)

	student := createUser(t, "Amine Bouaziz", "amine", "amine@test.tn", "", user.StudentRoles, true)
	other := createUser(t, "Sana Mejri", "sana", "sana@test.tn", "", user.StudentRoles, true)
	supervisor := createUser(t, "Dr. Leila Haddad", "haddad", "haddad@test.tn", "", []string{user.RoleSupervisor}, true)
	proj := createProject(t, "Plateforme IoT", student, "Dr. Leila Haddad")

	base := "/v1/fiches/" + proj.ID
	stuToken := getToken(t, student)
	supToken := getToken(t, supervisor)

	var sheet tracksheet.Sheet
	t.Run("first access creates the sheet", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, base, stuToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body = %s", rec.Code, rec.Body.String())
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &sheet); err != nil {
			t.Fatal(err)
		}
		if len(sheet.Checkpoints) != tracksheet.CheckpointCount {
			t.Fatalf("seances = %d; want %d", len(sheet.Checkpoints), tracksheet.CheckpointCount)
		}
		if sheet.StudentName != student.Name || sheet.ProjectTitle != proj.Title {
			t.Errorf("sheet header not filled from the project: %+v", sheet)
		}
	})

	t.Run("other students cannot read it", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, base, getToken(t, other))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("failed! code = %v; body = %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("second access returns the same sheet", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, base, supToken)
		app.ServeHTTP(rec, req)
		var again tracksheet.Sheet
		if err := json.Unmarshal(rec.Body.Bytes(), &again); err != nil {
			t.Fatal(err)
		}
		if again.ID != sheet.ID {
			t.Errorf("sheet recreated: %s != %s", again.ID, sheet.ID)
		}
	})

	t.Run("stamp before student signature is rejected", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, base+"/checkpoints/1/stamp", supToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("failed! code = %v; body = %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("student signs checkpoint 1", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, base+"/checkpoints/1/student", stuToken,
			[]byte(`{"travailRealise":"Cadrage du sujet","signee":true,"signature":"A. Bouaziz"}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body = %s", rec.Code, rec.Body.String())
		}
		var updated tracksheet.Sheet
		if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
			t.Fatal(err)
		}
		cp := updated.Checkpoints[0]
		if !cp.Student.Signed || cp.Student.SignedAt == "" {
			t.Errorf("student signature not recorded: %+v", cp.Student)
		}
	})

	t.Run("supervisor stamps after signature", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, base+"/checkpoints/1/supervisor", supToken,
			[]byte(`{"avancement":"Bon démarrage","signee":true,"cachetAppose":true}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body = %s", rec.Code, rec.Body.String())
		}
		var updated tracksheet.Sheet
		if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
			t.Fatal(err)
		}
		cp := updated.Checkpoints[0]
		if !cp.Supervisor.Stamped {
			t.Errorf("stamp not applied: %+v", cp.Supervisor)
		}
		if cp.Status != tracksheet.StatusCompleted {
			t.Errorf("statut = %s; want %s", cp.Status, tracksheet.StatusCompleted)
		}
	})

	t.Run("invalid checkpoint number", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, base+"/checkpoints/lol/stamp", supToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("failed! code = %v; body = %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("students cannot save the final evaluation", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, base+"/final", stuToken,
			[]byte(`{"noteTravail":"18/20"}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("failed! code = %v; body = %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("supervisor saves the final evaluation", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, base+"/final", supToken,
			[]byte(`{"noteTravail":"18/20","signatureEncadrant":true}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body = %s", rec.Code, rec.Body.String())
		}
		var updated tracksheet.Sheet
		if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
			t.Fatal(err)
		}
		if updated.Final.WorkRating != "18/20" || !updated.Final.SupervisorSigned {
			t.Errorf("final evaluation not saved: %+v", updated.Final)
		}
	})
}
