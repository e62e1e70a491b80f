package models

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrOwnMessage = errors.New("cannot like own message")

// Like is the edge between a user and a message they liked.
type Like struct {
	UserID    uint `gorm:"primaryKey;autoIncrement:false"`
	MessageID uint `gorm:"primaryKey;autoIncrement:false;index"`
}

// ToggleLike adds the like when absent and removes it when present. It
// reports whether the message is liked afterwards. A like inserted by a
// concurrent request counts as added.
func ToggleLike(db *gorm.DB, user *User, msg *Message) (bool, error) {
	if msg.UserID == user.ID {
		return false, ErrOwnMessage
	}

	liked := false
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND message_id = ?", user.ID, msg.ID).Delete(&Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		liked = true
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&Like{UserID: user.ID, MessageID: msg.ID}).Error
	})
	if err != nil {
		return false, errors.Wrap(err, "toggle like")
	}
	return liked, nil
}

// LikedMessages returns the messages u has liked, newest first.
func LikedMessages(db *gorm.DB, u *User) ([]Message, error) {
	var msgs []Message
	err := db.Preload("User").
		Joins("JOIN likes ON likes.message_id = messages.id").
		Where("likes.user_id = ?", u.ID).
		Order("messages.timestamp DESC").
		Find(&msgs).Error
	return msgs, errors.Wrap(err, "load liked messages")
}

// LikedMessageIDs returns the set of message IDs u has liked.
func LikedMessageIDs(db *gorm.DB, u *User) (map[uint]bool, error) {
	var ids []uint
	if err := db.Model(&Like{}).Where("user_id = ?", u.ID).Pluck("message_id", &ids).Error; err != nil {
		return nil, errors.Wrap(err, "load liked ids")
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// UserStats holds the counters shown in a profile header.
type UserStats struct {
	Messages  int64
	Following int64
	Followers int64
	Likes     int64
}

func LoadUserStats(db *gorm.DB, u *User) (UserStats, error) {
	var stats UserStats
	steps := []struct {
		query *gorm.DB
		dest  *int64
	}{
		{db.Model(&Message{}).Where("user_id = ?", u.ID), &stats.Messages},
		{db.Model(&Follow{}).Where("user_following_id = ?", u.ID), &stats.Following},
		{db.Model(&Follow{}).Where("user_being_followed_id = ?", u.ID), &stats.Followers},
		{db.Model(&Like{}).Where("user_id = ?", u.ID), &stats.Likes},
	}
	for _, s := range steps {
		if err := s.query.Count(s.dest).Error; err != nil {
			return stats, errors.Wrap(err, "count user stats")
		}
	}
	return stats, nil
}
