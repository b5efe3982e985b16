package models

// Response is the envelope every REST endpoint returns. Errors carries the
// error constants verbatim so clients can branch on them.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Errors  []error     `json:"errors"`
	Data    interface{} `json:"data"`
}
