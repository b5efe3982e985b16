package models

type RegisterRequestBody struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequestBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateWhiteboardRequestBody struct {
	Title string `json:"title"`
}

type ShareWhiteboardRequestBody struct {
	Role           string `json:"role"`
	RecipientEmail string `json:"recipient_email"`
}

type JoinWhiteboardRequestBody struct {
	ShareCode string `json:"share_code"`
}

type ChangeRoleRequestBody struct {
	ParticipantID uint   `json:"participant_id"`
	NewRole       string `json:"new_role"`
}
