package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/trezcool/pfetrack/core/user"
)

func Test_userApi_login(t *testing.T) {
	resetStore(t)

	usr := createUser(t, "Amine Bouaziz", "amine", "amine@test.tn", "s3cret", user.StudentRoles, true)
	createUser(t, "N Dog", "ndog", "ndog@test.tn", "s3cret", user.StudentRoles, false)

	tests := []httpTest{
		{
			name: "empty credentials", body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"username": "this field is required", "password": "this field is required"}),
		},
		{
			name: "unknown user", body: []byte(`{"username":"lol","password":"lol"}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "wrong password", body: []byte(`{"username":"amine","password":"lol"}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "deactivated account", body: []byte(`{"username":"ndog","password":"s3cret"}`), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{name: "login with username", body: []byte(`{"username":"amine","password":"s3cret"}`), wantCode: http.StatusOK},
		{name: "login with email", body: []byte(`{"username":"AMINE@test.tn","password":"s3cret"}`), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body = %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				var res struct {
					Token string `json:"token"`
				}
				if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil || res.Token == "" {
					t.Errorf("expected a token, got %s", rec.Body.String())
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}

	// a successful login records lastLogin
	refreshed, err := usrRepo.GetUserByID(usr.ID)
	if err != nil {
		t.Fatalf("GetUserByID() failed: %v", err)
	}
	if refreshed.LastLogin.IsZero() {
		t.Error("lastLogin not set")
	}
}

func Test_userApi_retrieveSelf(t *testing.T) {
	resetStore(t)

	usr := createUser(t, "Sana Mejri", "sana", "sana@test.tn", "s3cret", user.StudentRoles, true)

	tests := []httpTest{
		{name: "auth required", path: "/v1/users/me", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "get self", path: "/v1/users/me", token: getToken(t, usr), wantData: marchallObj(t, usr.Public())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_userQuery(t *testing.T) {
	resetStore(t)

	student := createUser(t, "Youssef Trabelsi", "youssef", "youssef@test.tn", "", user.StudentRoles, true)
	supervisor := createUser(t, "Dr. Leila Haddad", "haddad", "haddad@test.tn", "", []string{user.RoleSupervisor}, true)

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "supervisor required", token: getToken(t, student), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "get all", token: getToken(t, supervisor),
			wantData: marchallList(t, student.Public(), supervisor.Public()),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/users", tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_register(t *testing.T) {
	resetStore(t)

	supervisor := createUser(t, "Dr. Leila Haddad", "haddad", "haddad@test.tn", "", []string{user.RoleSupervisor}, true)
	head := createUser(t, "Pr. Karim Ben Salah", "bensalah", "bensalah@test.tn", "", user.SupervisorRoles, true)

	body := marchallObj(t, user.NewUser{
		Name:            "Amine Bouaziz",
		Username:        "amine_b",
		Email:           "amine@test.tn",
		Password:        "s3cret",
		PasswordConfirm: "s3cret",
		Roles:           user.StudentRoles,
	})

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "head required", token: getToken(t, supervisor), body: body, wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "password mismatch", token: getToken(t, head), wantCode: http.StatusBadRequest,
			body: []byte(`{"name":"X","email":"x@test.tn","password":"a","password_confirm":"b"}`),
		},
		{name: "register", token: getToken(t, head), body: body, wantCode: http.StatusCreated},
		{
			name: "duplicate email", token: getToken(t, head), body: body, wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "a user with this email already exists"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", tt.token, tt.body)
			app.ServeHTTP(rec, req)

			switch tt.name {
			case "register":
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body = %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				usr, err := usrRepo.GetUserByUsernameOrEmail("amine@test.tn")
				if err != nil {
					t.Fatalf("GetUserByUsernameOrEmail() failed: %v", err)
				}
				if err = usr.CheckPassword("s3cret"); err != nil {
					t.Error("password not set")
				}
			case "password mismatch":
				if rec.Code != tt.wantCode {
					t.Errorf("failed! code = %v; wantCode %v; body = %s", rec.Code, tt.wantCode, rec.Body.String())
				}
			default:
				checkCodeAndData(t, tt, rec)
			}
		})
	}
}

func Test_userApi_updateProfile(t *testing.T) {
	resetStore(t)

	student := createUser(t, "Sana Mejri", "sana", "sana@test.tn", "", user.StudentRoles, true)
	proj := createProject(t, "Plateforme IoT", student, "Dr. Leila Haddad")

	req, rec := newAuthRequest(http.MethodPut, "/v1/users/me", getToken(t, student),
		[]byte(`{"name":"Sana M. Mejri","avatar":"https://cdn.test/sana.png"}`))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; body = %s", rec.Code, rec.Body.String())
	}

	// the denormalized project copy is synced before the response returns
	refreshed, err := projSvc.GetByID(proj.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if refreshed.StudentName != "Sana M. Mejri" {
		t.Errorf("project copy not synced; nomEtudiant = %s", refreshed.StudentName)
	}
	if refreshed.StudentAvatar != "https://cdn.test/sana.png" {
		t.Errorf("project copy not synced; avatarEtudiant = %s", refreshed.StudentAvatar)
	}

	// a whitespace-only name is dropped everywhere: the user keeps its name
	// and the denormalized copies are never overwritten with blanks
	req, rec = newAuthRequest(http.MethodPut, "/v1/users/me", getToken(t, student), []byte(`{"name":"   "}`))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; body = %s", rec.Code, rec.Body.String())
	}
	var res user.PublicUser
	if err = json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Name != "Sana M. Mejri" {
		t.Errorf("name = %q; want unchanged", res.Name)
	}
	refreshed, err = projSvc.GetByID(proj.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if refreshed.StudentName != "Sana M. Mejri" {
		t.Errorf("nomEtudiant = %q; want unchanged", refreshed.StudentName)
	}
}

func Test_userApi_queryRoles(t *testing.T) {
	resetStore(t)

	supervisor := createUser(t, "Dr. Leila Haddad", "haddad", "haddad@test.tn", "", []string{user.RoleSupervisor}, true)

	tt := httpTest{name: "get roles", token: getToken(t, supervisor), wantData: marchallObj(t, user.Roles)}
	req, rec := newAuthRequest(http.MethodGet, "/v1/users/roles", tt.token)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)
}
