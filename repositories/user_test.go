package repositories

import (
	"testing"

	"chatter/domain"
	"chatter/errors"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func Test_Create_And_Fetch_User(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewUserRepository(db)

	created, err := repository.CreateUser("Alice", "alice@example.com", "hashed-secret")
	req.NoError(err)
	req.NotEmpty(created.ID)
	req.Equal("Alice", created.DisplayName)

	// By email, including the credential hash for the login flow
	record, err := repository.GetUserByEmail("alice@example.com")
	req.NoError(err)
	req.Equal(created.ID, record.ID)
	req.Equal("hashed-secret", record.PasswordHash)

	// By id, domain shape without credentials
	user, err := repository.GetUserByID(created.ID)
	req.NoError(err)
	req.Equal("Alice", user.DisplayName)
	req.Equal("alice@example.com", user.Email)
}

func Test_Create_User_Duplicate_Email(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewUserRepository(db)

	_, err := repository.CreateUser("Alice", "alice@example.com", "hash1")
	req.NoError(err)

	// Same email again, even under a different name
	_, err = repository.CreateUser("Alicia", "alice@example.com", "hash2")
	req.ErrorIs(err, errors.ErrUserAlreadyExists)
}

func Test_Get_Unknown_User(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewUserRepository(db)

	_, err := repository.GetUserByID("missing")
	req.ErrorIs(err, errors.ErrNotFound)

	_, err = repository.GetUserByEmail("nobody@example.com")
	req.ErrorIs(err, errors.ErrNotFound)
}

func Test_ListOthers_Excludes_Self(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewUserRepository(db)

	alice, err := repository.CreateUser("Alice", "alice@example.com", "h")
	req.NoError(err)
	_, err = repository.CreateUser("Bob", "bob@example.com", "h")
	req.NoError(err)
	_, err = repository.CreateUser("Clara", "clara@example.com", "h")
	req.NoError(err)

	others, err := repository.ListOthers(alice.ID)
	req.NoError(err)
	req.Len(others, 2)

	ids := lo.Map(others, func(u domain.User, _ int) string { return u.ID })
	req.NotContains(ids, alice.ID)
}
