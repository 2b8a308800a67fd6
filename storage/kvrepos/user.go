package kvrepos

import (
	"strings"

	"github.com/trezcool/pfetrack/core"
	"github.com/trezcool/pfetrack/core/user"
)

// UserRepository persists account records. The users key is not seeded by
// Init; it comes into existence on the first write.
type UserRepository struct {
	kv core.KVStore
}

var _ user.Repository = (*UserRepository)(nil)

func NewUserRepository(kv core.KVStore) *UserRepository {
	return &UserRepository{kv: kv}
}

func (repo *UserRepository) QueryAllUsers() ([]user.User, error) {
	users := make([]user.User, 0)
	if _, err := decodeKey(repo.kv, keyUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (repo *UserRepository) GetUserByID(id string) (user.User, error) {
	users, err := repo.QueryAllUsers()
	if err != nil {
		return user.User{}, err
	}
	for _, usr := range users {
		if usr.ID == id {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *UserRepository) GetUserByUsernameOrEmail(uname string) (user.User, error) {
	users, err := repo.QueryAllUsers()
	if err != nil {
		return user.User{}, err
	}
	uname = strings.ToLower(uname)
	for _, usr := range users {
		if strings.ToLower(usr.Username) == uname || strings.ToLower(usr.Email) == uname {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *UserRepository) UpsertUser(usr user.User) (user.User, error) {
	users, err := repo.QueryAllUsers()
	if err != nil {
		return user.User{}, err
	}

	var replaced bool
	for i := range users {
		if users[i].ID == usr.ID {
			users[i] = usr
			replaced = true
			break
		}
	}
	if !replaced {
		users = append(users, usr)
	}
	if err = encodeKey(repo.kv, keyUsers, users); err != nil {
		return user.User{}, err
	}
	return usr, nil
}
