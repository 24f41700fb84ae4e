package repositories

import (
	"testing"
	"time"

	"chatter/domain"
	"chatter/errors"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func Test_Create_And_Fetch_Group(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewGroupRepository(db)

	alice := uuid.NewString()
	bob := uuid.NewString()
	group := domain.Group{
		ID:        uuid.NewString(),
		Name:      "weekend",
		Members:   []string{alice, bob},
		CreatedBy: alice,
		CreatedAt: time.Now().UTC(),
	}

	req.NoError(repository.CreateGroup(group))

	fetched, err := repository.GetGroup(group.ID)
	req.NoError(err)
	req.Equal(group.Name, fetched.Name)
	req.Equal(group.Members, fetched.Members)
	req.True(fetched.HasMember(bob))
}

func Test_Get_Unknown_Group(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewGroupRepository(db)

	_, err := repository.GetGroup("missing")
	req.ErrorIs(err, errors.ErrNotFound)
}

func Test_ListGroupsByMember_Uses_Membership_Index(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewGroupRepository(db)

	alice := uuid.NewString()
	bob := uuid.NewString()
	clara := uuid.NewString()

	shared := domain.Group{
		ID: uuid.NewString(), Name: "shared",
		Members: []string{alice, bob}, CreatedBy: alice, CreatedAt: time.Now().UTC(),
	}
	private := domain.Group{
		ID: uuid.NewString(), Name: "private",
		Members: []string{bob, clara}, CreatedBy: bob, CreatedAt: time.Now().UTC(),
	}
	req.NoError(repository.CreateGroup(shared))
	req.NoError(repository.CreateGroup(private))

	aliceGroups, err := repository.ListGroupsByMember(alice)
	req.NoError(err)
	req.Len(aliceGroups, 1)
	req.Equal("shared", aliceGroups[0].Name)

	bobGroups, err := repository.ListGroupsByMember(bob)
	req.NoError(err)
	req.Len(bobGroups, 2)
	names := lo.Map(bobGroups, func(g domain.Group, _ int) string { return g.Name })
	req.ElementsMatch([]string{"shared", "private"}, names)

	// Someone in no group at all
	none, err := repository.ListGroupsByMember(uuid.NewString())
	req.NoError(err)
	req.Empty(none)
}
