package user

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Roles
const (
	// Supervisor (encadrant)
	RoleSupervisor     = "supervisor:"
	RoleSupervisorHead = "supervisor:head" // chef de département

	// Student
	RoleStudent = "student:"
)

var (
	SupervisorRoles = []string{RoleSupervisor, RoleSupervisorHead}
	StudentRoles    = []string{RoleStudent}

	rolePriorities = map[string]int{
		// Supervisors: 20 - 11
		RoleSupervisorHead: 20,
		RoleSupervisor:     11,

		// Students: 10 - 1
		RoleStudent: 1,
	}

	Roles = []Role{
		{Name: "Étudiant", Value: RoleStudent},
		{Name: "Encadrant", Value: RoleSupervisor},
		{Name: "Chef de Département", Value: RoleSupervisorHead},
	}
)

func RolePriority(role string) int {
	return rolePriorities[role]
}

func MaxRolePriority(roles []string) int {
	var max int
	for _, role := range roles {
		if RolePriority(role) > max {
			max = RolePriority(role)
		}
	}
	return max
}

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// User is an account record. The stored JSON keeps the portal's original
// French field names so the `users` key round-trips with data written by
// earlier versions of the application.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"nom"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Avatar       string    `json:"avatar,omitempty"`
	Phone        string    `json:"telephone,omitempty"`
	Matricule    string    `json:"matricule,omitempty"`
	IsActive     bool      `json:"actif"`
	Roles        []string  `json:"roles"`
	PasswordHash []byte    `json:"motDePasse,omitempty"`
	CreatedAt    time.Time `json:"dateCreation"` // UTC
	UpdatedAt    time.Time `json:"dateMaj"`      // UTC
	LastLogin    time.Time `json:"derniereConnexion,omitempty"`
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) RoleStartsWith(prefix string) bool {
	for _, role := range u.Roles {
		if strings.HasPrefix(role, prefix) {
			return true
		}
	}
	return false
}

func (u *User) IsSupervisor() bool {
	return u.RoleStartsWith(RoleSupervisor)
}

func (u *User) IsHead() bool {
	return u.RoleStartsWith(RoleSupervisorHead)
}

func (u *User) IsStudent() bool {
	return u.RoleStartsWith(RoleStudent)
}

// PublicUser is the API-facing projection of a User; it never carries the
// credential hash.
type PublicUser struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Avatar    string   `json:"avatar,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	Matricule string   `json:"matricule,omitempty"`
	IsActive  bool     `json:"is_active"`
	Roles     []string `json:"roles"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		Email:     u.Email,
		Avatar:    u.Avatar,
		Phone:     u.Phone,
		Matricule: u.Matricule,
		IsActive:  u.IsActive,
		Roles:     u.Roles,
	}
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name            string   `json:"name" validate:"required"`
	Username        string   `json:"username" validate:"omitempty,min=6,alphanum_"`
	Email           string   `json:"email" validate:"required,email"`
	Matricule       string   `json:"matricule" validate:"omitempty,matricule"`
	Password        string   `json:"password" validate:"required"`
	PasswordConfirm string   `json:"password_confirm" validate:"required,eqfield=Password"`
	Roles           []string `json:"roles" validate:"omitempty"`
}

// ProfileUpdate defines the mutable profile fields. Nil fields are left
// untouched; name and avatar changes are propagated synchronously into
// every dependent denormalized copy before UpdateProfile returns.
type ProfileUpdate struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
	Phone  *string `json:"phone"`
}

func (pu ProfileUpdate) IsEmpty() bool {
	return pu.Name == nil && pu.Avatar == nil && pu.Phone == nil
}
