package memstore

import (
	"context"
	"log/slog"

	"trove/internal/models"
	"trove/internal/observability"
)

// Referential integrity lives here and only here: every delete path routes
// through these cascade functions, and every denormalized counter is owned
// by reconcile. Entity operations never hand-roll their own cleanup.

// cascadeDeletePost removes a post with its comments and likes and keeps
// the owning category's post count consistent.
func cascadeDeletePost(d *snapshot, post *models.Post) {
	deleteWhere(d.Comments, func(c *models.Comment) bool { return c.PostID == post.ID }, nil)
	deleteWhere(d.PostLikes, func(l *models.PostLike) bool { return l.PostID == post.ID }, nil)
	if cat := d.Categories[post.CategoryID]; cat != nil && cat.Count > 0 {
		cat.Count--
	}
	delete(d.Posts, post.ID)
}

// cascadeDeleteFind removes a find with its comments and likes.
func cascadeDeleteFind(d *snapshot, find *models.Find) {
	deleteWhere(d.FindComments, func(c *models.FindComment) bool { return c.FindID == find.ID }, nil)
	deleteWhere(d.FindLikes, func(l *models.FindLike) bool { return l.FindID == find.ID }, nil)
	delete(d.Finds, find.ID)
}

// cascadeDeleteGroup removes a group and its memberships.
func cascadeDeleteGroup(d *snapshot, group *models.Group) {
	deleteWhere(d.GroupMemberships, func(m *models.GroupMembership) bool { return m.GroupID == group.ID }, nil)
	delete(d.Groups, group.ID)
}

// userCascade is the declarative cascade table for user deletion: every
// record kind holding a user reference participates, so adding a kind with
// an owner identifier means adding one row here, not one more hand-written
// loop at a call site. Steps that remove children of counted parents adjust
// the parent counter as they go.
var userCascade = []func(d *snapshot, userID uint){
	// Owned aggregates first, each running its own cascade.
	func(d *snapshot, id uint) {
		for _, p := range collect(d.Posts, postIDOf, func(p *models.Post) bool { return p.UserID == id }) {
			cascadeDeletePost(d, &p)
		}
	},
	func(d *snapshot, id uint) {
		for _, f := range collect(d.Finds, findIDOf, func(f *models.Find) bool { return f.UserID == id }) {
			cascadeDeleteFind(d, &f)
		}
	},
	func(d *snapshot, id uint) {
		deleteWhere(d.Locations, func(l *models.Location) bool { return l.UserID == id }, nil)
	},
	func(d *snapshot, id uint) {
		deleteWhere(d.Events, func(e *models.Event) bool { return e.UserID == id }, nil)
	},
	func(d *snapshot, id uint) {
		deleteWhere(d.Stories, func(s *models.Story) bool { return s.UserID == id }, nil)
	},
	// Records the user left on other people's content, with counter upkeep.
	func(d *snapshot, id uint) {
		deleteWhere(d.Comments, func(c *models.Comment) bool { return c.UserID == id }, func(c *models.Comment) {
			if p := d.Posts[c.PostID]; p != nil && p.Comments > 0 {
				p.Comments--
			}
		})
	},
	func(d *snapshot, id uint) {
		deleteWhere(d.FindComments, func(c *models.FindComment) bool { return c.UserID == id }, func(c *models.FindComment) {
			if f := d.Finds[c.FindID]; f != nil && f.CommentCount > 0 {
				f.CommentCount--
			}
		})
	},
	func(d *snapshot, id uint) {
		deleteWhere(d.PostLikes, func(l *models.PostLike) bool { return l.UserID == id }, func(l *models.PostLike) {
			if p := d.Posts[l.PostID]; p != nil && p.Likes > 0 {
				p.Likes--
			}
		})
	},
	func(d *snapshot, id uint) {
		deleteWhere(d.FindLikes, func(l *models.FindLike) bool { return l.UserID == id }, func(l *models.FindLike) {
			if f := d.Finds[l.FindID]; f != nil && f.Likes > 0 {
				f.Likes--
			}
		})
	},
	func(d *snapshot, id uint) {
		deleteWhere(d.GroupMemberships, func(m *models.GroupMembership) bool { return m.UserID == id }, func(m *models.GroupMembership) {
			if g := d.Groups[m.GroupID]; g != nil && g.MemberCount > 0 {
				g.MemberCount--
			}
		})
	},
	// Social and personal records.
	func(d *snapshot, id uint) {
		deleteWhere(d.UserConnections, func(c *models.UserConnection) bool {
			return c.FollowerID == id || c.FollowingID == id
		}, nil)
	},
	func(d *snapshot, id uint) {
		deleteWhere(d.Activities, func(a *models.Activity) bool { return a.UserID == id }, nil)
	},
	func(d *snapshot, id uint) {
		deleteWhere(d.Messages, func(m *models.Message) bool {
			return m.SenderID == id || m.ReceiverID == id
		}, nil)
	},
	func(d *snapshot, id uint) {
		deleteWhere(d.UserAchievements, func(a *models.UserAchievement) bool { return a.UserID == id }, nil)
	},
	func(d *snapshot, id uint) {
		deleteWhere(d.Routes, func(r *models.Route) bool { return r.UserID == id }, nil)
	},
	func(d *snapshot, id uint) {
		deleteWhere(d.Preferences, func(p *models.Preference) bool { return p.UserID == id }, nil)
	},
	func(d *snapshot, id uint) {
		deleteWhere(d.Images, func(i *models.ImageMetadata) bool { return i.UserID == id }, nil)
	},
}

// cascadeDeleteUser runs the full user cascade, then removes the user.
func cascadeDeleteUser(d *snapshot, userID uint) {
	for _, step := range userCascade {
		step(d, userID)
	}
	delete(d.Users, userID)
}

// reconcile recomputes every denormalized counter from its source records
// and returns how many were corrected. Event attendee counts have no source
// record kind and are left alone.
func reconcile(d *snapshot) int {
	fixes := 0
	for _, cat := range d.Categories {
		n := countWhere(d.Posts, func(p *models.Post) bool { return p.CategoryID == cat.ID })
		if cat.Count != n {
			cat.Count = n
			fixes++
		}
	}
	for _, post := range d.Posts {
		n := countWhere(d.Comments, func(c *models.Comment) bool { return c.PostID == post.ID })
		if post.Comments != n {
			post.Comments = n
			fixes++
		}
		n = countWhere(d.PostLikes, func(l *models.PostLike) bool { return l.PostID == post.ID })
		if post.Likes != n {
			post.Likes = n
			fixes++
		}
	}
	for _, find := range d.Finds {
		n := countWhere(d.FindComments, func(c *models.FindComment) bool { return c.FindID == find.ID })
		if find.CommentCount != n {
			find.CommentCount = n
			fixes++
		}
		n = countWhere(d.FindLikes, func(l *models.FindLike) bool { return l.FindID == find.ID })
		if find.Likes != n {
			find.Likes = n
			fixes++
		}
	}
	for _, group := range d.Groups {
		n := countWhere(d.GroupMemberships, func(m *models.GroupMembership) bool { return m.GroupID == group.ID })
		if group.MemberCount != n {
			group.MemberCount = n
			fixes++
		}
	}
	return fixes
}

// ReconcileAllCounters recomputes every denormalized counter from first
// principles and corrects drift. It is idempotent: when nothing drifted it
// neither rewrites nor persists state.
func (s *MemStore) ReconcileAllCounters(ctx context.Context) (int, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	fixes := reconcile(s.data)
	if fixes == 0 {
		return 0, nil
	}
	observability.ReconcileCorrections.Add(float64(fixes))
	s.log.Warn("counter drift corrected", slog.Int("corrections", fixes))
	if err := s.commit(); err != nil {
		return 0, err
	}
	return fixes, nil
}

// Identifier accessors used with collect.
func postIDOf(p *models.Post) uint { return p.ID }
func findIDOf(f *models.Find) uint { return f.ID }
func userIDOf(u *models.User) uint { return u.ID }
