package main

import (
	"bytes"
	"database/sql"
	"fmt"
	"io/fs"
	"io/ioutil"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/pfetrack/core"
	"github.com/trezcool/pfetrack/core/user"
	kvstore "github.com/trezcool/pfetrack/storage/kv"
	"github.com/trezcool/pfetrack/storage/kvrepos"
)

func setup(t *testing.T) (*commandLine, core.KVStore) {
	t.Helper()

	kv := kvstore.NewMemStore()
	return &commandLine{
		conf:    core.NewConfig(),
		kv:      kv,
		usrRepo: kvrepos.NewUserRepository(kv),
		backup:  kvrepos.NewBackup(kv),
	}, kv
}

func createUser(t *testing.T, cli *commandLine, name, uname, email, pwd string) user.User {
	t.Helper()

	usr := user.User{ID: "usr-" + uname, Name: name, Username: uname, Email: email, IsActive: true}
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("SetPassword() failed, %v", err)
	}
	usr, err := cli.usrRepo.UpsertUser(usr)
	if err != nil {
		t.Fatalf("UpsertUser() failed, %v", err)
	}
	return usr
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func Test_commandLine_seed(t *testing.T) {
	cli, kv := setup(t)

	if err := cli.run([]string{"admin", "seed"}); err != nil {
		t.Fatalf("cli.run() unexpected error = %v", err)
	}
	if _, ok, err := kv.Get("projects"); err != nil || !ok {
		t.Fatalf("projects not seeded (ok=%v, err=%v)", ok, err)
	}

	// existing data always wins, even over a fresh seed
	if err := kv.Set("projects", `[{"id":"mine"}]`); err != nil {
		t.Fatal(err)
	}
	if err := cli.run([]string{"admin", "seed"}); err != nil {
		t.Fatalf("cli.run() unexpected error = %v", err)
	}
	if got, _, _ := kv.Get("projects"); got != `[{"id":"mine"}]` {
		t.Errorf("seed overwrote existing projects: %s", got)
	}
}

func Test_commandLine_backup(t *testing.T) {
	cli, kv := setup(t)

	if err := cli.run([]string{"admin", "seed"}); err != nil {
		t.Fatalf("cli.run() unexpected error = %v", err)
	}

	out := filepath.Join(t.TempDir(), "backup.json")

	tests := []cliTest{
		{name: "import requires -in", args: []string{"import"}, wantErr: errHelp},
		{name: "export to file", args: []string{"export", "-out", out}},
		{name: "import missing file", args: []string{"import", "-in", filepath.Join(t.TempDir(), "nope.json")}, wantErrStr: "no such file"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if tt.wantErrStr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErrStr) {
					t.Errorf("cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
				}
				return
			}
			if err != nil {
				t.Errorf("cli.run() unexpected error = %v", err)
			}
		})
	}

	// mutate then restore from the exported file
	projects, _, _ := kv.Get("projects")
	if err := kv.Set("projects", "[]"); err != nil {
		t.Fatal(err)
	}
	if err := cli.run([]string{"admin", "import", "-in", out}); err != nil {
		t.Fatalf("cli.run() unexpected error = %v", err)
	}
	if restored, _, _ := kv.Get("projects"); restored != projects {
		t.Error("import did not restore the exported projects")
	}

	// a bogus file imports nothing
	bogus := filepath.Join(t.TempDir(), "bogus.json")
	if err := ioutil.WriteFile(bogus, []byte("lol"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := cli.run([]string{"admin", "import", "-in", bogus}); err == nil {
		t.Error("cli.run() expected an error for a bogus backup file")
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli, _ := setup(t)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "missing flags", args: []string{"adduser", "-name", "Dr. Haddad"}, wantErr: errHelp},
		{name: "flags but no password", args: []string{"adduser", "-name", "Dr. Haddad", "-email", "haddad@test.tn"}, wantErr: errHelp},
		{name: "add supervisor", args: []string{"adduser", "-name", "Dr. Haddad", "-email", "haddad@test.tn"}, extra: extra{pwd: "s3cret"}},
		{name: "add head", args: []string{"adduser", "-name", "Pr. Ben Salah", "-email", "bensalah@test.tn", "-head"}, extra: extra{pwd: "s3cret"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	usr, err := cli.usrRepo.GetUserByUsernameOrEmail("haddad@test.tn")
	if err != nil {
		t.Fatalf("GetUserByUsernameOrEmail() failed, %v", err)
	}
	if !usr.IsSupervisor() || usr.IsHead() {
		t.Errorf("unexpected roles %v", usr.Roles)
	}
	if err = usr.CheckPassword("s3cret"); err != nil {
		t.Error("password not set")
	}

	head, err := cli.usrRepo.GetUserByUsernameOrEmail("bensalah@test.tn")
	if err != nil {
		t.Fatalf("GetUserByUsernameOrEmail() failed, %v", err)
	}
	if !head.IsHead() {
		t.Errorf("expected head roles, got %v", head.Roles)
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, _ := setup(t)

	usr := createUser(t, cli, "User", "awe", "awe@test.tn", "mdr")

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "username but no password", args: []string{"resetpassword", "-username", "lol"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-username", "lol"}, extra: extra{pwd: "lol"}, wantErr: user.ErrNotFound},
		{name: "reset with username", args: []string{"resetpassword", "-username", usr.Username}, extra: extra{pwd: "lol"}},
		{name: "reset with email", args: []string{"resetpassword", "-username", usr.Email}, extra: extra{pwd: "lmao"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				refreshedUsr, err := cli.usrRepo.GetUserByID(usr.ID)
				if err != nil {
					t.Fatalf("GetUserByID() failed, %v", err)
				}
				if bytes.Equal(refreshedUsr.PasswordHash, usr.PasswordHash) {
					t.Error("failed to update new password")
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t)

	t.Run("file backend has no migrations", func(t *testing.T) {
		if err := cli.run([]string{"admin", "migrate", "up"}); err == nil {
			t.Error("cli.run() expected an error without a database")
		}
	})

	db, err := sqlx.Open("postgres", "postgres://localhost/pfetrack_test?sslmode=disable")
	if err != nil {
		t.Fatalf("sqlx.Open() failed, %v", err)
	}
	cli.db = db

	gooseRunFunc = func(command string, db *sql.DB, fsys fs.FS, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s requires a VERSION", command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create requires a NAME")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to requires a VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create requires a NAME"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "kv_entry_index", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}
