package models

// AuthUser is the caller identity carried through the request context for
// /internal endpoints.
type AuthUser struct {
	Subject   string `json:"subject"`
	TokenType string `json:"token_type"`
}
