package errs

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrInvalidRequestBody = Error("invalid request body")
	ErrUserAlreadyExists  = Error("user already exists")
	ErrUserNotFound       = Error("user not found")
	ErrWrongPassword      = Error("wrong password")
	ErrInvalidToken       = Error("invalid token")
	ErrInvalidEmail       = Error("invalid email")
	ErrInvalidPassword    = Error("invalid password")
	ErrInvalidUser        = Error("invalid user")
	ErrInvalidParams      = Error("invalid params")
	ErrFirstName          = Error("first name is empty or too short")
	ErrLastName           = Error("last name is empty or too short")
	ErrUnauthorized       = Error("unauthorized")
	ErrInvalidPageOrSize  = Error("invalid page or size")

	// Access errors, reported verbatim and never downgraded.
	ErrNotAParticipant  = Error("not-a-participant")
	ErrInsufficientRole = Error("insufficient-role")
	ErrForbidden        = Error("forbidden")

	// Not-found errors.
	ErrWhiteboardNotFound  = Error("whiteboard-not-found")
	ErrParticipantNotFound = Error("participant-not-found")
	ErrInvalidCode         = Error("invalid-code")

	// Conflict errors: the operation is aborted with no partial mutation.
	ErrAlreadyParticipant = Error("already-participant")
	ErrInvalidRole        = Error("invalid-role")
	ErrRecipientMismatch  = Error("recipient-mismatch")

	ErrInvalidWhiteboardId      = Error("invalid whiteboard id")
	ErrWhiteboardCreationFailed = Error("whiteboard creation failed")
	ErrInvitationCreationFailed = Error("invitation creation failed")
	ErrMalformedEvent           = Error("malformed event")
)
