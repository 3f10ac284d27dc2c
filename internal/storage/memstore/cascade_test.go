package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trove/internal/storage"
)

// Builds a user with records in every kind that references a user, deletes
// the user, and verifies nothing referencing the user survives while
// everything owned by others does.
func TestDeleteUserCascadesEverything(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	victim := seedUser(t, s, "victim")
	other := seedUser(t, s, "survivor")
	catID := firstCategoryID(t, s)

	victimPost := seedPost(t, s, victim, catID)
	otherPost := seedPost(t, s, other, catID)

	// The victim leaves tracks on the survivor's content and vice versa.
	_, err := s.CreateComment(ctx, storage.NewComment{PostID: otherPost, UserID: victim, Content: "from victim"})
	require.NoError(t, err)
	_, err = s.CreateComment(ctx, storage.NewComment{PostID: victimPost, UserID: other, Content: "from survivor"})
	require.NoError(t, err)
	_, err = s.LikePost(ctx, victim, otherPost)
	require.NoError(t, err)

	find, err := s.CreateFind(ctx, storage.NewFind{UserID: victim, Title: "buckle"})
	require.NoError(t, err)
	otherFind, err := s.CreateFind(ctx, storage.NewFind{UserID: other, Title: "thimble"})
	require.NoError(t, err)
	_, err = s.CreateFindComment(ctx, storage.NewFindComment{FindID: otherFind.ID, UserID: victim, Content: "nice"})
	require.NoError(t, err)
	_, err = s.LikeFind(ctx, victim, otherFind.ID)
	require.NoError(t, err)

	_, err = s.CreateLocation(ctx, storage.NewLocation{UserID: victim, Name: "north field", Latitude: 52.1, Longitude: -1.3})
	require.NoError(t, err)
	_, err = s.CreateEvent(ctx, storage.NewEvent{UserID: victim, Title: "club dig", EventDate: time.Now().Add(48 * time.Hour)})
	require.NoError(t, err)
	_, err = s.CreateStory(ctx, storage.NewStory{UserID: victim, Title: "how it started", Content: "..."})
	require.NoError(t, err)
	_, err = s.CreateRoute(ctx, storage.NewRoute{UserID: victim, Name: "river loop"})
	require.NoError(t, err)

	group, err := s.CreateGroup(ctx, storage.NewGroup{CreatedByUserID: other, Name: "county club"})
	require.NoError(t, err)
	_, err = s.JoinGroup(ctx, group.ID, victim, "")
	require.NoError(t, err)

	_, err = s.FollowUser(ctx, victim, other)
	require.NoError(t, err)
	_, err = s.FollowUser(ctx, other, victim)
	require.NoError(t, err)
	_, err = s.CreateMessage(ctx, storage.NewMessage{SenderID: victim, ReceiverID: other, Content: "hi"})
	require.NoError(t, err)
	_, err = s.CreateMessage(ctx, storage.NewMessage{SenderID: other, ReceiverID: victim, Content: "hello"})
	require.NoError(t, err)
	_, err = s.CreateActivity(ctx, storage.NewActivity{UserID: victim, Type: "find.created", Detail: "buckle"})
	require.NoError(t, err)

	achs, err := s.ListAchievements(ctx)
	require.NoError(t, err)
	_, err = s.AwardAchievement(ctx, victim, achs[0].ID)
	require.NoError(t, err)
	_, err = s.SavePreferences(ctx, victim, storage.UpdatePreferences{Theme: strPtr("dark")})
	require.NoError(t, err)
	_, err = s.CreateImageMetadata(ctx, storage.NewImage{UserID: victim, FileName: "buckle.jpg", ContentType: "image/jpeg", SizeBytes: 1024})
	require.NoError(t, err)

	ok, err := s.DeleteUser(ctx, victim)
	require.NoError(t, err)
	require.True(t, ok)

	// Nothing referencing the victim survives.
	u, _ := s.GetUser(ctx, victim)
	assert.Nil(t, u)
	posts, _ := s.ListPosts(ctx, storage.PostFilter{UserID: uintPtr(victim)})
	assert.Empty(t, posts)
	f, _ := s.GetFind(ctx, find.ID)
	assert.Nil(t, f)
	locs, _ := s.ListLocations(ctx, storage.LocationFilter{UserID: uintPtr(victim), IncludePrivate: true})
	assert.Empty(t, locs)
	events, _ := s.ListEvents(ctx, storage.EventFilter{UserID: uintPtr(victim)})
	assert.Empty(t, events)
	stories, _ := s.ListStories(ctx, storage.StoryFilter{UserID: uintPtr(victim)})
	assert.Empty(t, stories)
	routes, _ := s.ListRoutes(ctx, storage.RouteFilter{UserID: uintPtr(victim)})
	assert.Empty(t, routes)
	m, _ := s.GetGroupMembership(ctx, group.ID, victim)
	assert.Nil(t, m)
	conn, _ := s.GetConnection(ctx, victim, other)
	assert.Nil(t, conn)
	conn, _ = s.GetConnection(ctx, other, victim)
	assert.Nil(t, conn)
	msgs, _ := s.ListMessages(ctx, storage.MessageFilter{UserID: uintPtr(victim)})
	assert.Empty(t, msgs)
	acts, _ := s.ListActivities(ctx, storage.ActivityFilter{UserID: uintPtr(victim)})
	assert.Empty(t, acts)
	awards, _ := s.ListUserAchievements(ctx, victim)
	assert.Empty(t, awards)
	prefs, _ := s.GetPreferences(ctx, victim)
	assert.Nil(t, prefs)
	imgs, _ := s.ListImagesByUser(ctx, victim)
	assert.Empty(t, imgs)

	// The survivor's world is intact, with counters reflecting the loss.
	op, err := s.GetPost(ctx, otherPost)
	require.NoError(t, err)
	require.NotNil(t, op)
	assert.Equal(t, 0, op.Comments, "victim's comment removed from survivor's post")
	assert.Equal(t, 0, op.Likes)
	of, err := s.GetFind(ctx, otherFind.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, of.CommentCount)
	assert.Equal(t, 0, of.Likes)
	g, err := s.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, g.MemberCount, "only the owner remains")
	cat, err := s.GetCategory(ctx, catID)
	require.NoError(t, err)
	assert.Equal(t, 1, cat.Count)

	// After the cascade every counter already matches its source records.
	fixes, err := s.ReconcileAllCounters(ctx)
	require.NoError(t, err)
	assert.Zero(t, fixes)
}

func TestReconcileCorrectsDriftedCounters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	author := seedUser(t, s, "drifter")
	catID := firstCategoryID(t, s)
	pid := seedPost(t, s, author, catID)
	_, err := s.CreateComment(ctx, storage.NewComment{PostID: pid, UserID: author, Content: "note"})
	require.NoError(t, err)

	// Corrupt the denormalized counters behind the store's back.
	s.mu.Lock()
	s.data.Posts[pid].Comments = 40
	s.data.Posts[pid].Likes = 7
	s.data.Categories[catID].Count = 0
	s.mu.Unlock()

	fixes, err := s.ReconcileAllCounters(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, fixes)

	p, err := s.GetPost(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Comments)
	assert.Equal(t, 0, p.Likes)
	cat, err := s.GetCategory(ctx, catID)
	require.NoError(t, err)
	assert.Equal(t, 1, cat.Count)

	// A second pass finds nothing to fix.
	fixes, err = s.ReconcileAllCounters(ctx)
	require.NoError(t, err)
	assert.Zero(t, fixes)
}

func TestReconcileDoesNotTouchEventAttendees(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	host := seedUser(t, s, "host")
	e, err := s.CreateEvent(ctx, storage.NewEvent{UserID: host, Title: "rally", EventDate: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	n := 55
	_, err = s.UpdateEvent(ctx, e.ID, storage.UpdateEvent{AttendeeCount: &n})
	require.NoError(t, err)

	_, err = s.ReconcileAllCounters(ctx)
	require.NoError(t, err)

	got, err := s.GetEvent(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 55, got.AttendeeCount)
}

func TestDeleteUserWithRepeatCommentsOnOneParent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	victim := seedUser(t, s, "chatty")
	other := seedUser(t, s, "quiet")

	cats, err := s.ListCategories(ctx)
	require.NoError(t, err)
	post, err := s.CreatePost(ctx, storage.NewPost{
		UserID: other, CategoryID: cats[0].ID, Title: "survivor", Content: "c",
	})
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err := s.CreateComment(ctx, storage.NewComment{PostID: post.ID, UserID: victim, Content: "again"})
		require.NoError(t, err)
	}
	_, err = s.CreateComment(ctx, storage.NewComment{PostID: post.ID, UserID: other, Content: "own note"})
	require.NoError(t, err)

	ok, err := s.DeleteUser(ctx, victim)
	require.NoError(t, err)
	require.True(t, ok)

	p, err := s.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Comments)

	fixes, err := s.ReconcileAllCounters(ctx)
	require.NoError(t, err)
	assert.Zero(t, fixes)
}
