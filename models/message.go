package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	MaxMessageLength = 140
	TimelineSize     = 100
)

var ErrMessageText = errors.New("message text must be between 1 and 140 characters")

type Message struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Text      string    `gorm:"type:varchar(140);not null" json:"text"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
}

func (m Message) String() string {
	return fmt.Sprintf("<Message #%d, Text: %s, user_id: %d>", m.ID, m.Text, m.UserID)
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	return nil
}

// CreateMessage stores a new message authored by user.
func CreateMessage(db *gorm.DB, user *User, text string) (*Message, error) {
	text = strings.TrimSpace(text)
	if text == "" || len([]rune(text)) > MaxMessageLength {
		return nil, ErrMessageText
	}

	msg := Message{Text: text, UserID: user.ID}
	if err := db.Create(&msg).Error; err != nil {
		return nil, errors.Wrap(err, "create message")
	}
	return &msg, nil
}

// FindMessage loads a message and its author; a missing message is
// gorm.ErrRecordNotFound.
func FindMessage(db *gorm.DB, id uint) (*Message, error) {
	var msg Message
	if err := db.Preload("User").First(&msg, id).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// DeleteMessage removes the message and the likes pointing at it.
func DeleteMessage(db *gorm.DB, m *Message) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", m.ID).Delete(&Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(m).Error
	})
	return errors.Wrap(err, "delete message")
}

// UserMessages returns the messages authored by userID, newest first.
func UserMessages(db *gorm.DB, userID uint, limit int) ([]Message, error) {
	var msgs []Message
	err := db.Preload("User").
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, errors.Wrap(err, "load user messages")
	}
	return msgs, nil
}

// Timeline returns the messages written by user or by anyone user follows,
// newest first.
func Timeline(db *gorm.DB, user *User, limit int) ([]Message, error) {
	following := db.Model(&Follow{}).Select("user_being_followed_id").Where("user_following_id = ?", user.ID)

	var msgs []Message
	err := db.Preload("User").
		Where("user_id = ? OR user_id IN (?)", user.ID, following).
		Order("timestamp DESC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, errors.Wrap(err, "load timeline")
	}
	return msgs, nil
}
