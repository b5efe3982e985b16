package models

import "time"

type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type ProfileResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type ParticipantResponse struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
}

type WhiteboardResponse struct {
	ID           uint                  `json:"id"`
	Title        string                `json:"title"`
	OwnerID      uint                  `json:"owner_id"`
	Participants []ParticipantResponse `json:"participants"`
	Content      ContentBlob           `json:"content"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

type WhiteboardListResponse struct {
	Whiteboards []WhiteboardResponse `json:"whiteboards"`
	Page        int                  `json:"page"`
	Size        int                  `json:"size"`
	Total       int64                `json:"total"`
}

type ShareWhiteboardResponse struct {
	ShareCode string `json:"share_code"`
}
