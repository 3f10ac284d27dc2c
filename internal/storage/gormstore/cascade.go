package gormstore

import (
	"strings"

	"gorm.io/gorm"

	"trove/internal/models"
)

// Referential integrity lives here, mirroring the embedded backend: every
// delete path routes through these cascade functions, always inside the
// caller's transaction.

// cascadeDeletePost removes a post with its comments and likes and keeps
// the owning category's post count consistent.
func cascadeDeletePost(tx *gorm.DB, post *models.Post) error {
	if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
		return models.NewIntegrityError("post cascade failed", err)
	}
	if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostLike{}).Error; err != nil {
		return models.NewIntegrityError("post cascade failed", err)
	}
	if err := tx.Model(&models.Category{}).Where("id = ? AND count > 0", post.CategoryID).
		UpdateColumn("count", gorm.Expr("count - 1")).Error; err != nil {
		return models.NewIntegrityError("post cascade failed", err)
	}
	if err := tx.Delete(&models.Post{}, post.ID).Error; err != nil {
		return models.NewIntegrityError("post cascade failed", err)
	}
	return nil
}

// cascadeDeleteFind removes a find with its comments and likes.
func cascadeDeleteFind(tx *gorm.DB, findID uint) error {
	if err := tx.Where("find_id = ?", findID).Delete(&models.FindComment{}).Error; err != nil {
		return models.NewIntegrityError("find cascade failed", err)
	}
	if err := tx.Where("find_id = ?", findID).Delete(&models.FindLike{}).Error; err != nil {
		return models.NewIntegrityError("find cascade failed", err)
	}
	if err := tx.Delete(&models.Find{}, findID).Error; err != nil {
		return models.NewIntegrityError("find cascade failed", err)
	}
	return nil
}

// cascadeDeleteGroup removes a group and its memberships.
func cascadeDeleteGroup(tx *gorm.DB, groupID uint) error {
	if err := tx.Where("group_id = ?", groupID).Delete(&models.GroupMembership{}).Error; err != nil {
		return models.NewIntegrityError("group cascade failed", err)
	}
	if err := tx.Delete(&models.Group{}, groupID).Error; err != nil {
		return models.NewIntegrityError("group cascade failed", err)
	}
	return nil
}

// userCascade is the declarative cascade for user deletion: one step per
// record kind holding a user reference. Adding a kind with an owner
// identifier means adding one step here. Steps that remove children of
// counted parents adjust the parent counter as they go.
var userCascade = []func(tx *gorm.DB, userID uint) error{
	// Owned aggregates first, each running its own cascade.
	func(tx *gorm.DB, id uint) error {
		var posts []models.Post
		if err := tx.Where("user_id = ?", id).Find(&posts).Error; err != nil {
			return models.NewIntegrityError("user cascade failed", err)
		}
		for i := range posts {
			if err := cascadeDeletePost(tx, &posts[i]); err != nil {
				return err
			}
		}
		return nil
	},
	func(tx *gorm.DB, id uint) error {
		var findIDs []uint
		if err := tx.Model(&models.Find{}).Where("user_id = ?", id).Pluck("id", &findIDs).Error; err != nil {
			return models.NewIntegrityError("user cascade failed", err)
		}
		for _, fid := range findIDs {
			if err := cascadeDeleteFind(tx, fid); err != nil {
				return err
			}
		}
		return nil
	},
	deleteByUser(&models.Location{}, "user_id = ?"),
	deleteByUser(&models.Event{}, "user_id = ?"),
	deleteByUser(&models.Story{}, "user_id = ?"),
	// Records the user left on other people's content, with counter upkeep.
	// Comment decrements are per row, since one user can comment on the same
	// parent any number of times. Likes and memberships are unique per
	// (user, parent), so those steps decrement by one.
	func(tx *gorm.DB, id uint) error {
		if err := tx.Exec(`UPDATE posts SET comments = CASE
				WHEN comments < (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.user_id = ?) THEN 0
				ELSE comments - (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.user_id = ?)
			END
			WHERE id IN (SELECT post_id FROM comments WHERE user_id = ?)`, id, id, id).Error; err != nil {
			return models.NewIntegrityError("user cascade failed", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return models.NewIntegrityError("user cascade failed", err)
		}
		return nil
	},
	func(tx *gorm.DB, id uint) error {
		if err := tx.Exec(`UPDATE finds SET comment_count = CASE
				WHEN comment_count < (SELECT COUNT(*) FROM find_comments WHERE find_comments.find_id = finds.id AND find_comments.user_id = ?) THEN 0
				ELSE comment_count - (SELECT COUNT(*) FROM find_comments WHERE find_comments.find_id = finds.id AND find_comments.user_id = ?)
			END
			WHERE id IN (SELECT find_id FROM find_comments WHERE user_id = ?)`, id, id, id).Error; err != nil {
			return models.NewIntegrityError("user cascade failed", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.FindComment{}).Error; err != nil {
			return models.NewIntegrityError("user cascade failed", err)
		}
		return nil
	},
	func(tx *gorm.DB, id uint) error {
		if err := tx.Exec(`UPDATE posts SET likes = likes - 1
			WHERE likes > 0 AND id IN (SELECT post_id FROM post_likes WHERE user_id = ?)`, id).Error; err != nil {
			return models.NewIntegrityError("user cascade failed", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.PostLike{}).Error; err != nil {
			return models.NewIntegrityError("user cascade failed", err)
		}
		return nil
	},
	func(tx *gorm.DB, id uint) error {
		if err := tx.Exec(`UPDATE finds SET likes = likes - 1
			WHERE likes > 0 AND id IN (SELECT find_id FROM find_likes WHERE user_id = ?)`, id).Error; err != nil {
			return models.NewIntegrityError("user cascade failed", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.FindLike{}).Error; err != nil {
			return models.NewIntegrityError("user cascade failed", err)
		}
		return nil
	},
	func(tx *gorm.DB, id uint) error {
		if err := tx.Exec(`UPDATE "groups" SET member_count = member_count - 1
			WHERE member_count > 0 AND id IN (SELECT group_id FROM group_memberships WHERE user_id = ?)`, id).Error; err != nil {
			return models.NewIntegrityError("user cascade failed", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.GroupMembership{}).Error; err != nil {
			return models.NewIntegrityError("user cascade failed", err)
		}
		return nil
	},
	// Social and personal records.
	deleteByUser(&models.UserConnection{}, "follower_id = ? OR following_id = ?"),
	deleteByUser(&models.Activity{}, "user_id = ?"),
	deleteByUser(&models.Message{}, "sender_id = ? OR receiver_id = ?"),
	deleteByUser(&models.UserAchievement{}, "user_id = ?"),
	deleteByUser(&models.Route{}, "user_id = ?"),
	deleteByUser(&models.Preference{}, "user_id = ?"),
	deleteByUser(&models.ImageMetadata{}, "user_id = ?"),
}

// deleteByUser builds a cascade step deleting every row of model matching
// cond. The user identifier is bound to every placeholder in cond.
func deleteByUser(model any, cond string) func(tx *gorm.DB, userID uint) error {
	n := strings.Count(cond, "?")
	return func(tx *gorm.DB, id uint) error {
		args := make([]any, n)
		for i := range args {
			args[i] = id
		}
		if err := tx.Where(cond, args...).Delete(model).Error; err != nil {
			return models.NewIntegrityError("user cascade failed", err)
		}
		return nil
	}
}

// cascadeDeleteUser runs the full user cascade. The user row itself is
// removed by the caller.
func cascadeDeleteUser(tx *gorm.DB, userID uint) error {
	for _, step := range userCascade {
		if err := step(tx, userID); err != nil {
			return err
		}
	}
	return nil
}
