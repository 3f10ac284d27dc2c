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

func TestFollowUnfollowRefollowReusesEdge(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")

	c1, err := s.FollowUser(ctx, alice, bob)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionStatusActive, c1.Status)

	// Following again is a no-op returning the same edge.
	c2, err := s.FollowUser(ctx, alice, bob)
	require.NoError(t, err)
	assert.Equal(t, c1.ID, c2.ID)

	c3, err := s.UnfollowUser(ctx, alice, bob)
	require.NoError(t, err)
	require.NotNil(t, c3)
	assert.Equal(t, models.ConnectionStatusInactive, c3.Status)

	// The edge survives unfollow; re-follow flips the same record back.
	c4, err := s.FollowUser(ctx, alice, bob)
	require.NoError(t, err)
	assert.Equal(t, c1.ID, c4.ID, "re-follow must reuse the historical edge")
	assert.Equal(t, models.ConnectionStatusActive, c4.Status)

	followers, err := s.ListFollowers(ctx, bob)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, alice, followers[0].FollowerID)
}

func TestFollowValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice")

	_, err := s.FollowUser(ctx, alice, alice)
	require.Error(t, err)

	_, err = s.FollowUser(ctx, alice, 9999)
	require.Error(t, err)

	// Unfollowing an edge that never existed reports absence.
	c, err := s.UnfollowUser(ctx, alice, alice+1)
	assert.NoError(t, err)
	assert.Nil(t, c)
}

func TestCreateGroupMakesCreatorOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	founder := seedUser(t, s, "founder")

	g, err := s.CreateGroup(ctx, storage.NewGroup{CreatedByUserID: founder, Name: "beach hunters"})
	require.NoError(t, err)
	assert.Equal(t, 1, g.MemberCount)

	m, err := s.GetGroupMembership(ctx, g.ID, founder)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, models.GroupRoleOwner, m.Role)
}

func TestJoinLeaveGroup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	founder := seedUser(t, s, "founder")
	joiner := seedUser(t, s, "joiner")

	g, err := s.CreateGroup(ctx, storage.NewGroup{CreatedByUserID: founder, Name: "field club"})
	require.NoError(t, err)

	m1, err := s.JoinGroup(ctx, g.ID, joiner, "")
	require.NoError(t, err)
	assert.Equal(t, models.GroupRoleMember, m1.Role)

	// Joining twice returns the existing membership, count unchanged.
	m2, err := s.JoinGroup(ctx, g.ID, joiner, models.GroupRoleModerator)
	require.NoError(t, err)
	assert.Equal(t, m1.ID, m2.ID)
	assert.Equal(t, models.GroupRoleMember, m2.Role)

	got, err := s.GetGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.MemberCount)

	ok, err := s.LeaveGroup(ctx, g.ID, joiner)
	require.NoError(t, err)
	assert.True(t, ok)
	got, err = s.GetGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.MemberCount)

	ok, err = s.LeaveGroup(ctx, g.ID, joiner)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.JoinGroup(ctx, 9999, joiner, "")
	require.Error(t, err)
}

func TestDeleteGroupRemovesMemberships(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	founder := seedUser(t, s, "founder")
	joiner := seedUser(t, s, "joiner")
	g, err := s.CreateGroup(ctx, storage.NewGroup{CreatedByUserID: founder, Name: "short lived"})
	require.NoError(t, err)
	_, err = s.JoinGroup(ctx, g.ID, joiner, "")
	require.NoError(t, err)

	ok, err := s.DeleteGroup(ctx, g.ID)
	require.NoError(t, err)
	require.True(t, ok)

	members, err := s.ListGroupMembers(ctx, g.ID)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestMessagesConversationFilterAndRead(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")
	carol := seedUser(t, s, "carol")

	m1, err := s.CreateMessage(ctx, storage.NewMessage{SenderID: alice, ReceiverID: bob, Content: "found anything?"})
	require.NoError(t, err)
	_, err = s.CreateMessage(ctx, storage.NewMessage{SenderID: bob, ReceiverID: alice, Content: "a musket ball"})
	require.NoError(t, err)
	_, err = s.CreateMessage(ctx, storage.NewMessage{SenderID: carol, ReceiverID: alice, Content: "permission sorted"})
	require.NoError(t, err)

	conv, err := s.ListMessages(ctx, storage.MessageFilter{UserID: uintPtr(alice), PeerID: uintPtr(bob)})
	require.NoError(t, err)
	assert.Len(t, conv, 2)

	all, err := s.ListMessages(ctx, storage.MessageFilter{UserID: uintPtr(alice)})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	read, err := s.MarkMessageRead(ctx, m1.ID)
	require.NoError(t, err)
	require.NotNil(t, read)
	assert.True(t, read.IsRead)

	_, err = s.CreateMessage(ctx, storage.NewMessage{SenderID: alice, ReceiverID: alice, Content: "self"})
	require.Error(t, err)
}

func TestAwardAchievementIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice")
	achs, err := s.ListAchievements(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, achs)

	a1, err := s.AwardAchievement(ctx, alice, achs[0].ID)
	require.NoError(t, err)
	a2, err := s.AwardAchievement(ctx, alice, achs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, a1.ID, a2.ID)

	awards, err := s.ListUserAchievements(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, awards, 1)

	_, err = s.AwardAchievement(ctx, alice, 9999)
	require.Error(t, err)
}

func TestPreferencesUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice")

	p, err := s.GetPreferences(ctx, alice)
	require.NoError(t, err)
	assert.Nil(t, p, "no record before first save")

	p, err = s.SavePreferences(ctx, alice, storage.UpdatePreferences{Theme: strPtr("dark")})
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "dark", p.Theme)
	assert.Equal(t, "metric", p.Units, "unset fields take defaults")
	assert.True(t, p.EmailNotifications)

	p2, err := s.SavePreferences(ctx, alice, storage.UpdatePreferences{Units: strPtr("imperial")})
	require.NoError(t, err)
	assert.Equal(t, p.ID, p2.ID, "second save updates the same record")
	assert.Equal(t, "imperial", p2.Units)
	assert.Equal(t, "dark", p2.Theme)
}

func TestImageMetadataStorageKeys(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice")

	i1, err := s.CreateImageMetadata(ctx, storage.NewImage{UserID: alice, FileName: "a.jpg", ContentType: "image/jpeg", SizeBytes: 10})
	require.NoError(t, err)
	i2, err := s.CreateImageMetadata(ctx, storage.NewImage{UserID: alice, FileName: "b.jpg", ContentType: "image/jpeg", SizeBytes: 20})
	require.NoError(t, err)
	assert.NotEmpty(t, i1.StorageKey)
	assert.NotEqual(t, i1.StorageKey, i2.StorageKey)

	imgs, err := s.ListImagesByUser(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, imgs, 2)
}

func TestLocationPrivacyFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice")

	_, err := s.CreateLocation(ctx, storage.NewLocation{UserID: alice, Name: "public beach", Latitude: 50.7, Longitude: -2.1})
	require.NoError(t, err)
	_, err = s.CreateLocation(ctx, storage.NewLocation{UserID: alice, Name: "secret field", Latitude: 50.8, Longitude: -2.2, IsPrivate: true})
	require.NoError(t, err)

	visible, err := s.ListLocations(ctx, storage.LocationFilter{UserID: uintPtr(alice)})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "public beach", visible[0].Name)

	all, err := s.ListLocations(ctx, storage.LocationFilter{UserID: uintPtr(alice), IncludePrivate: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListEventsAfter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	host := seedUser(t, s, "host")

	_, err := s.CreateEvent(ctx, storage.NewEvent{UserID: host, Title: "past dig", EventDate: time.Now().Add(-24 * time.Hour)})
	require.NoError(t, err)
	_, err = s.CreateEvent(ctx, storage.NewEvent{UserID: host, Title: "next dig", EventDate: time.Now().Add(24 * time.Hour)})
	require.NoError(t, err)

	now := time.Now()
	upcoming, err := s.ListEvents(ctx, storage.EventFilter{After: &now})
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "next dig", upcoming[0].Title)
}

func TestListActivitiesNewestFirstWithLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice")
	private := false

	for _, typ := range []string{"find.created", "post.created", "group.joined"} {
		_, err := s.CreateActivity(ctx, storage.NewActivity{UserID: alice, Type: typ})
		require.NoError(t, err)
	}
	_, err := s.CreateActivity(ctx, storage.NewActivity{UserID: alice, Type: "location.saved", IsPublic: &private})
	require.NoError(t, err)

	feed, err := s.ListActivities(ctx, storage.ActivityFilter{UserID: uintPtr(alice), PublicOnly: true, Limit: 2})
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "group.joined", feed[0].Type, "newest public entry first")
	assert.Equal(t, "post.created", feed[1].Type)
}

func TestListRoutesPublicOnly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice")

	_, err := s.CreateRoute(ctx, storage.NewRoute{UserID: alice, Name: "open trail", IsPublic: true})
	require.NoError(t, err)
	_, err = s.CreateRoute(ctx, storage.NewRoute{UserID: alice, Name: "private loop"})
	require.NoError(t, err)

	pub, err := s.ListRoutes(ctx, storage.RouteFilter{PublicOnly: true})
	require.NoError(t, err)
	require.Len(t, pub, 1)
	assert.Equal(t, "open trail", pub[0].Name)
}
