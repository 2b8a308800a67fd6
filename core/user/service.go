package user

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/pfetrack/core"
)

var (
	// errors
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("a user with this email already exists")
)

type (
	Repository interface {
		QueryAllUsers() ([]User, error)
		GetUserByID(id string) (User, error)
		GetUserByUsernameOrEmail(username string) (User, error)
		// UpsertUser inserts when the id is unseen, else fully replaces the
		// stored record. The `users` key is created lazily on first write.
		UpsertUser(user User) (User, error)
	}

	// ProfileSyncer propagates a student's display name/avatar into the
	// denormalized copies held by dependent collections. Implemented by the
	// project and appointment repositories.
	ProfileSyncer interface {
		SyncStudentProfile(studentID string, name, avatar *string) error
	}

	Service struct {
		repo    Repository
		syncers []ProfileSyncer
	}
)

func NewService(repo Repository, syncers ...ProfileSyncer) *Service {
	return &Service{repo: repo, syncers: syncers}
}

func (svc *Service) Create(nu NewUser) (User, error) {
	if existing, err := svc.repo.GetUserByUsernameOrEmail(nu.Email); err == nil && existing.ID != "" {
		return User{}, core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
	}

	now := time.Now().UTC()
	usr := User{
		ID:        uuid.New().String(),
		Name:      nu.Name,
		Username:  nu.Username,
		Email:     nu.Email,
		Matricule: nu.Matricule,
		IsActive:  true,
		Roles:     nu.Roles,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	return svc.repo.UpsertUser(usr)
}

func (svc *Service) QueryAll() ([]User, error) {
	return svc.repo.QueryAllUsers()
}

func (svc *Service) GetByID(id string) (User, error) {
	return svc.repo.GetUserByID(id)
}

func (svc *Service) GetByUsernameOrEmail(uname string) (User, error) {
	return svc.repo.GetUserByUsernameOrEmail(core.CleanString(uname, true))
}

// UpdateProfile persists the profile mutation then runs the denormalization
// sync before returning, so no reader observes a stale copied name/avatar
// once this call completes. Syncers receive the values as stored on the
// user record: a whitespace-only name is ignored and never reaches them.
func (svc *Service) UpdateProfile(id string, up ProfileUpdate) (User, error) {
	usr, err := svc.repo.GetUserByID(id)
	if err != nil {
		return User{}, err
	}

	var syncName, syncAvatar *string
	if up.Name != nil {
		if name := core.CleanString(*up.Name); name != "" {
			usr.Name = name
			syncName = &usr.Name
		}
	}
	if up.Avatar != nil {
		usr.Avatar = *up.Avatar
		syncAvatar = &usr.Avatar
	}
	if up.Phone != nil {
		usr.Phone = core.CleanString(*up.Phone)
	}
	usr.UpdatedAt = time.Now().UTC()

	usr, err = svc.repo.UpsertUser(usr)
	if err != nil {
		return User{}, err
	}

	if usr.IsStudent() && (syncName != nil || syncAvatar != nil) {
		for _, syncer := range svc.syncers {
			if err = syncer.SyncStudentProfile(usr.ID, syncName, syncAvatar); err != nil {
				return User{}, err
			}
		}
	}
	return usr, nil
}

func (svc *Service) SetPassword(id, pwd string) (User, error) {
	usr, err := svc.repo.GetUserByID(id)
	if err != nil {
		return User{}, err
	}
	if err = usr.SetPassword(pwd); err != nil {
		return User{}, err
	}
	usr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpsertUser(usr)
}

func (svc *Service) SetLastLogin(usr User) (User, error) {
	usr.LastLogin = time.Now().UTC()
	return svc.repo.UpsertUser(usr)
}
