package controllers

import (
	"encoding/json"
	"time"
)

// SignupForm is posted by the signup page.
type SignupForm struct {
	Username string `form:"username" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=6"`
	ImageURL string `form:"image_url"`
}

type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required,min=6"`
}

// ProfileForm edits the logged-in user. Password confirms the change and
// is never stored from this form.
type ProfileForm struct {
	Username       string `form:"username" binding:"required"`
	Email          string `form:"email" binding:"required,email"`
	ImageURL       string `form:"image_url"`
	HeaderImageURL string `form:"header_image_url"`
	Location       string `form:"location"`
	Bio            string `form:"bio"`
	Password       string `form:"password" binding:"required"`
}

// MessageForm is the HTML form for a new message.
type MessageForm struct {
	Text string `form:"text" binding:"required,max=140"`
}

// MessageRequest is the JSON body posted by the new message modal.
type MessageRequest struct {
	Text string `json:"msg_text" binding:"required,max=140"`
}

// LikeRequest accepts msg_id either as a number or as a numeric string.
type LikeRequest struct {
	MessageID json.Number `json:"msg_id" binding:"required"`
}

type ResultResponse struct {
	Result string `json:"result"`
}

type MessageResponse struct {
	ID        uint      `json:"id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	UserID    uint      `json:"user_id"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
