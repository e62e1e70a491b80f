package models

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	DefaultImageURL       = "/static/images/default-pic.png"
	DefaultHeaderImageURL = "/static/images/warbler-hero.jpg"
)

var (
	ErrPasswordRequired     = errors.New("password must not be empty")
	ErrUsernameRequired     = errors.New("username must not be empty")
	ErrEmailRequired        = errors.New("email must not be empty")
	ErrUsernameOrEmailTaken = errors.New("username or email already taken")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrSelfFollow           = errors.New("cannot follow yourself")
)

type User struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email          string    `gorm:"unique;not null" json:"email"`
	Username       string    `gorm:"unique;not null" json:"username"`
	ImageURL       string    `gorm:"default:/static/images/default-pic.png" json:"image_url"`
	HeaderImageURL string    `gorm:"default:/static/images/warbler-hero.jpg" json:"header_image_url"`
	Bio            *string   `json:"bio"`
	Location       *string   `json:"location"`
	Password       string    `gorm:"not null" json:"-"` // bcrypt hash
	Messages       []Message `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
	Followers      []User    `gorm:"many2many:follows;foreignKey:ID;joinForeignKey:UserBeingFollowedID;References:ID;joinReferences:UserFollowingID;constraint:OnDelete:CASCADE" json:"-"`
	Following      []User    `gorm:"many2many:follows;foreignKey:ID;joinForeignKey:UserFollowingID;References:ID;joinReferences:UserBeingFollowedID;constraint:OnDelete:CASCADE" json:"-"`
	Likes          []Message `gorm:"many2many:likes;joinForeignKey:UserID;joinReferences:MessageID;constraint:OnDelete:CASCADE" json:"-"`
}

func (u User) String() string {
	return fmt.Sprintf("<User #%d: %s, %s>", u.ID, u.Username, u.Email)
}

// SignupInput carries the fields accepted by the signup form.
type SignupInput struct {
	Username string
	Email    string
	Password string
	ImageURL string
}

// Signup hashes the password and stores a new user. A clash on username or
// email is reported as ErrUsernameOrEmailTaken.
func Signup(db *gorm.DB, input SignupInput) (*User, error) {
	if input.Password == "" {
		return nil, ErrPasswordRequired
	}
	if strings.TrimSpace(input.Username) == "" {
		return nil, ErrUsernameRequired
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, ErrEmailRequired
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	imageURL := input.ImageURL
	if imageURL == "" {
		imageURL = DefaultImageURL
	}

	user := User{
		Username:       input.Username,
		Email:          input.Email,
		Password:       string(hashed),
		ImageURL:       imageURL,
		HeaderImageURL: DefaultHeaderImageURL,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		taken, err := usernameOrEmailTaken(tx, input.Username, input.Email, 0)
		if err != nil {
			return err
		}
		if taken {
			return ErrUsernameOrEmailTaken
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, translateWriteError(err, "create user")
	}

	return &user, nil
}

// Authenticate returns the user whose password matches. Unknown usernames
// and wrong passwords both yield ErrInvalidCredentials.
func Authenticate(db *gorm.DB, username, password string) (*User, error) {
	var user User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "load user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// EditUser updates the profile fields in memory. Empty image URLs fall
// back to the defaults; empty location or bio clear the field.
func (u *User) EditUser(username, email, imageURL, headerImageURL, location, bio string) {
	u.Username = username
	u.Email = email

	u.ImageURL = imageURL
	if u.ImageURL == "" {
		u.ImageURL = DefaultImageURL
	}
	u.HeaderImageURL = headerImageURL
	if u.HeaderImageURL == "" {
		u.HeaderImageURL = DefaultHeaderImageURL
	}

	u.Location = optionalString(location)
	u.Bio = optionalString(bio)
}

// SaveProfile persists the profile fields set by EditUser.
func SaveProfile(db *gorm.DB, u *User) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		taken, err := usernameOrEmailTaken(tx, u.Username, u.Email, u.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrUsernameOrEmailTaken
		}
		return tx.Model(u).Select("username", "email", "image_url", "header_image_url", "location", "bio").Updates(u).Error
	})
	return translateWriteError(err, "update user")
}

func (u *User) IsFollowing(db *gorm.DB, other *User) (bool, error) {
	return followExists(db, u.ID, other.ID)
}

func (u *User) IsFollowedBy(db *gorm.DB, other *User) (bool, error) {
	return followExists(db, other.ID, u.ID)
}

// FindUser loads a user by primary key; a missing user is gorm.ErrRecordNotFound.
func FindUser(db *gorm.DB, id uint) (*User, error) {
	var user User
	if err := db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// likeEscaper makes LIKE treat the search text literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchUsers lists users whose username contains query, or everyone when
// query is empty.
func SearchUsers(db *gorm.DB, query string) ([]User, error) {
	var users []User
	q := db.Order("username")
	if query = strings.TrimSpace(query); query != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
		q = q.Where("LOWER(username) LIKE ? ESCAPE '\\'", pattern)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "search users")
	}
	return users, nil
}

// DeleteUser removes the user together with their messages and every
// follow and like edge touching them.
func DeleteUser(db *gorm.DB, u *User) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		authored := tx.Model(&Message{}).Select("id").Where("user_id = ?", u.ID)
		if err := tx.Where("user_id = ? OR message_id IN (?)", u.ID, authored).Delete(&Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_being_followed_id = ? OR user_following_id = ?", u.ID, u.ID).Delete(&Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", u.ID).Delete(&Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(u).Error
	})
	return errors.Wrap(err, "delete user")
}

// UserFieldTaken reports whether a user already has value as their
// username or email. field must be "username" or "email".
func UserFieldTaken(db *gorm.DB, field, value string) (bool, error) {
	if field != "username" && field != "email" {
		return false, fmt.Errorf("unknown user field %q", field)
	}
	var count int64
	if err := db.Model(&User{}).Where(field+" = ?", value).Count(&count).Error; err != nil {
		return false, errors.Wrapf(err, "check %s", field)
	}
	return count > 0, nil
}

func usernameOrEmailTaken(db *gorm.DB, username, email string, exceptID uint) (bool, error) {
	var count int64
	q := db.Model(&User{}).Where("username = ? OR email = ?", username, email)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func translateWriteError(err error, action string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrUsernameOrEmailTaken), errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrUsernameOrEmailTaken
	default:
		return errors.Wrap(err, action)
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
