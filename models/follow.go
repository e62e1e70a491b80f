package models

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Follow is a directed edge: UserFollowingID follows UserBeingFollowedID.
type Follow struct {
	UserBeingFollowedID uint `gorm:"primaryKey;autoIncrement:false"`
	UserFollowingID     uint `gorm:"primaryKey;autoIncrement:false"`
}

// FollowUser records that follower follows followed. Following twice is a no-op.
func FollowUser(db *gorm.DB, follower, followed *User) error {
	if follower.ID == followed.ID {
		return ErrSelfFollow
	}
	edge := Follow{UserFollowingID: follower.ID, UserBeingFollowedID: followed.ID}
	err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge).Error
	return errors.Wrap(err, "follow user")
}

// UnfollowUser removes the follow edge if it exists.
func UnfollowUser(db *gorm.DB, follower, followed *User) error {
	err := db.Where("user_following_id = ? AND user_being_followed_id = ?", follower.ID, followed.ID).
		Delete(&Follow{}).Error
	return errors.Wrap(err, "unfollow user")
}

// Following lists the users u follows.
func Following(db *gorm.DB, u *User) ([]User, error) {
	var users []User
	err := db.Joins("JOIN follows ON follows.user_being_followed_id = users.id").
		Where("follows.user_following_id = ?", u.ID).
		Order("users.username").
		Find(&users).Error
	return users, errors.Wrap(err, "load following")
}

// Followers lists the users following u.
func Followers(db *gorm.DB, u *User) ([]User, error) {
	var users []User
	err := db.Joins("JOIN follows ON follows.user_following_id = users.id").
		Where("follows.user_being_followed_id = ?", u.ID).
		Order("users.username").
		Find(&users).Error
	return users, errors.Wrap(err, "load followers")
}

func followExists(db *gorm.DB, followerID, followedID uint) (bool, error) {
	var count int64
	err := db.Model(&Follow{}).
		Where("user_following_id = ? AND user_being_followed_id = ?", followerID, followedID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "check follow")
	}
	return count > 0, nil
}
