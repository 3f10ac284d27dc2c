package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trove/internal/models"
	"trove/internal/storage"
)

func TestCreateUserHashesPassword(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, storage.NewUser{Username: "digger", Email: "digger@example.com", Password: "plaintext1"})
	require.NoError(t, err)
	assert.NotEqual(t, "plaintext1", u.Password)
	assert.True(t, storage.CheckPassword(u.Password, "plaintext1"))
}

func TestCreateUserRejectsDuplicates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "taken")

	_, err := s.CreateUser(ctx, storage.NewUser{Username: "TAKEN", Email: "other@example.com", Password: "pw123456"})
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)

	_, err = s.CreateUser(ctx, storage.NewUser{Username: "fresh", Email: "taken@example.com", Password: "pw123456"})
	require.Error(t, err)
}

func TestGetUserAbsenceIsNilNil(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.GetUser(ctx, 4242)
	assert.NoError(t, err)
	assert.Nil(t, u)

	u, err = s.UpdateUser(ctx, 4242, storage.UpdateUser{Bio: strPtr("nope")})
	assert.NoError(t, err)
	assert.Nil(t, u)

	ok, err := s.DeleteUser(ctx, 4242)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateUserPartialFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := seedUser(t, s, "original")

	u, err := s.UpdateUser(ctx, id, storage.UpdateUser{Bio: strPtr("metal detecting since 2009")})
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "original", u.Username, "unset fields must not change")
	assert.Equal(t, "metal detecting since 2009", u.Bio)
}

func TestVerifyEmailFlow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := seedUser(t, s, "verifyme")

	u, err := s.SetEmailVerificationToken(ctx, id, "tok-live", time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.False(t, u.Verified)

	v, err := s.VerifyEmail(ctx, "tok-live")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.True(t, v.Verified)
	assert.Empty(t, v.VerificationToken, "token consumed on verify")
	assert.Nil(t, v.TokenExpiry)

	// A consumed token no longer verifies anything.
	again, err := s.VerifyEmail(ctx, "tok-live")
	assert.NoError(t, err)
	assert.Nil(t, again)
}

func TestVerifyEmailExpiredToken(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := seedUser(t, s, "latecomer")

	_, err := s.SetEmailVerificationToken(ctx, id, "tok-stale", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	v, err := s.VerifyEmail(ctx, "tok-stale")
	assert.NoError(t, err)
	assert.Nil(t, v)

	u, err := s.GetUser(ctx, id)
	require.NoError(t, err)
	assert.False(t, u.Verified)
}

func TestGetUserSocialStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")
	carol := seedUser(t, s, "carol")

	_, err := s.FollowUser(ctx, bob, alice)
	require.NoError(t, err)
	_, err = s.FollowUser(ctx, carol, alice)
	require.NoError(t, err)
	_, err = s.FollowUser(ctx, alice, bob)
	require.NoError(t, err)

	_, err = s.CreateFind(ctx, storage.NewFind{UserID: alice, Title: "roman denarius"})
	require.NoError(t, err)

	stats, err := s.GetUserSocialStats(ctx, alice)
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 2, stats.Followers)
	assert.Equal(t, 1, stats.Following)
	assert.Equal(t, 0, stats.Posts)
	assert.Equal(t, 1, stats.Finds)

	// Inactive edges do not count.
	_, err = s.UnfollowUser(ctx, carol, alice)
	require.NoError(t, err)
	stats, err = s.GetUserSocialStats(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Followers)

	stats, err = s.GetUserSocialStats(ctx, 9999)
	assert.NoError(t, err)
	assert.Nil(t, stats)
}

func strPtr(s string) *string { return &s }

func uintPtr(v uint) *uint { return &v }
