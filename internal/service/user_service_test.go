package service

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamehub/internal/auth"
	apperrors "gamehub/internal/errors"
	"gamehub/internal/model"
)

// memObjects is an in-memory ObjectStore.
type memObjects struct {
	objects map[string]string
	failPut bool
}

func newMemObjects() *memObjects {
	return &memObjects{objects: map[string]string{}}
}

func (m *memObjects) Upload(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	if m.failPut {
		return errors.New("bucket unavailable")
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objects[key] = string(b)
	return nil
}

func (m *memObjects) Remove(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func TestUserService_UpdateProfileUsernameCooldown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	player := f.user(t, "player", model.RoleUser)
	start := time.Now().UTC()
	f.users.now = func() time.Time { return start }

	updated, err := f.users.UpdateProfile(ctx, player, ProfileInput{Username: "player2", Email: player.Email})
	require.NoError(t, err)
	assert.Equal(t, "player2", updated.Username)
	require.NotNil(t, updated.LastNameChange)

	stored, err := f.store.Users().FindByID(ctx, player.ID)
	require.NoError(t, err)
	assert.Equal(t, "player2", stored.Username)
	require.NotNil(t, stored.LastNameChange)

	f.users.now = func() time.Time { return start.Add(10 * 24 * time.Hour) }
	_, err = f.users.UpdateProfile(ctx, player, ProfileInput{Username: "player3"})
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "username")

	f.users.now = func() time.Time { return start.Add(31 * 24 * time.Hour) }
	updated, err = f.users.UpdateProfile(ctx, player, ProfileInput{Username: "player3"})
	require.NoError(t, err)
	assert.Equal(t, "player3", updated.Username)
}

func TestUserService_UpdateProfileUniqueness(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", model.RoleUser)
	f.user(t, "bobby", model.RoleUser)

	_, err := f.users.UpdateProfile(ctx, alice, ProfileInput{Username: "bobby", Email: "BOBBY@example.com "})
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "username")
	assert.Contains(t, verr.Fields, "email")

	updated, err := f.users.UpdateProfile(ctx, alice, ProfileInput{Email: " Alice.New@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, "alice.new@example.com", updated.Email)
	assert.Equal(t, "alice", updated.Username)
	assert.Nil(t, updated.LastNameChange)
}

func TestUserService_ChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	player := f.user(t, "player", model.RoleUser)

	err := f.users.ChangePassword(ctx, player, "wrong-password", "newpassword1", "newpassword1")
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "current_password")

	err = f.users.ChangePassword(ctx, player, "password123", "short", "other")
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "new_password")
	assert.Contains(t, verr.Fields, "new_password2")

	require.NoError(t, f.users.ChangePassword(ctx, player, "password123", "newpassword1", "newpassword1"))
	stored, err := f.store.Users().FindByID(ctx, player.ID)
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(stored.PasswordHash, "newpassword1"))
}

func TestUserService_BannedUserCannotEditProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	moder := f.user(t, "moder", model.RoleModerator)
	player := f.user(t, "player", model.RoleUser)
	_, err := f.bans.Ban(ctx, moder, player.ID, BanRequest{})
	require.NoError(t, err)

	_, err = f.users.SetProfileImage(ctx, player, "avatar.png")
	assert.IsType(t, &apperrors.AuthorizationError{}, err)
	_, err = f.users.UpdateProfile(ctx, player, ProfileInput{Email: "x@example.com"})
	assert.IsType(t, &apperrors.AuthorizationError{}, err)
}

func TestUserService_UploadProfileImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	player := f.user(t, "player", model.RoleUser)

	_, err := f.users.UploadProfileImage(ctx, player, "me.png", strings.NewReader("img"), 3)
	assert.ErrorIs(t, err, apperrors.ErrUploadsDisabled)

	objects := newMemObjects()
	f.users.objects = objects

	_, err = f.users.UploadProfileImage(ctx, player, "me.exe", strings.NewReader("img"), 3)
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "profile_image")

	updated, err := f.users.UploadProfileImage(ctx, player, "Me.PNG", strings.NewReader("first"), 5)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{16}\.png$`), updated.ProfileImage)
	assert.Equal(t, "first", objects.objects[updated.ProfileImage])
	firstKey := updated.ProfileImage

	updated, err = f.users.UploadProfileImage(ctx, player, "me.gif", strings.NewReader("second"), 6)
	require.NoError(t, err)
	assert.NotEqual(t, firstKey, updated.ProfileImage)
	assert.NotContains(t, objects.objects, firstKey)

	stored, err := f.store.Users().FindByID(ctx, player.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.ProfileImage, stored.ProfileImage)

	objects.failPut = true
	_, err = f.users.UploadProfileImage(ctx, player, "me.jpg", strings.NewReader("third"), 5)
	assert.Error(t, err)
	stored, err = f.store.Users().FindByID(ctx, player.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.ProfileImage, stored.ProfileImage)
}

func TestUserService_ListAndAssignRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, "admin", model.RoleAdmin)
	moder := f.user(t, "moder", model.RoleModerator)
	player := f.user(t, "player", model.RoleUser)

	page, err := f.users.List(ctx, admin, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, UsersPerPage, page.PerPage)
	assert.Equal(t, int64(3), page.Total)

	_, err = f.users.List(ctx, moder, 1)
	assert.IsType(t, &apperrors.AuthorizationError{}, err)

	change, err := f.users.AssignRole(ctx, admin, player.ID, "moderator")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, change.From)
	assert.Equal(t, model.RoleModerator, change.To)
	stored, err := f.store.Users().FindByID(ctx, player.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleModerator, stored.Role)

	_, err = f.users.AssignRole(ctx, admin, player.ID, "superuser")
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "role")

	_, err = f.users.AssignRole(ctx, moder, player.ID, "admin")
	assert.IsType(t, &apperrors.AuthorizationError{}, err)

	_, err = f.users.AssignRole(ctx, admin, 999, "user")
	assert.IsType(t, &apperrors.NotFoundError{}, err)
}

func TestUserService_Profile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	player := f.user(t, "player", model.RoleUser)

	user, err := f.users.Profile(ctx, player.ID)
	require.NoError(t, err)
	assert.Equal(t, "player", user.Username)

	_, err = f.users.Profile(ctx, 999)
	assert.IsType(t, &apperrors.NotFoundError{}, err)
}

func TestUserService_StatusReadsClearLapsedBan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, "admin", model.RoleAdmin)
	player := f.user(t, "player", model.RoleUser)
	lapsed := time.Now().UTC().Add(-time.Hour)

	require.NoError(t, f.store.Users().SetBan(ctx, player.ID, true, &lapsed))
	user, err := f.users.Profile(ctx, player.ID)
	require.NoError(t, err)
	assert.False(t, user.IsBanned)
	assert.Nil(t, user.BanExpiresAt)
	stored, err := f.store.Users().FindByID(ctx, player.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsBanned)

	require.NoError(t, f.store.Users().SetBan(ctx, player.ID, true, &lapsed))
	page, err := f.users.List(ctx, admin, 1)
	require.NoError(t, err)
	for _, u := range page.Items {
		assert.False(t, u.IsBanned, u.Username)
	}
	stored, err = f.store.Users().FindByID(ctx, player.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsBanned)
	assert.Nil(t, stored.BanExpiresAt)
}
