package models

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&User{}, "Followers", &Follow{}); err != nil {
		return errors.Wrap(err, "setup follows join table")
	}
	if err := db.SetupJoinTable(&User{}, "Following", &Follow{}); err != nil {
		return errors.Wrap(err, "setup follows join table")
	}
	if err := db.SetupJoinTable(&User{}, "Likes", &Like{}); err != nil {
		return errors.Wrap(err, "setup likes join table")
	}
	return errors.Wrap(db.AutoMigrate(&User{}, &Message{}, &Follow{}, &Like{}), "migrate")
}
