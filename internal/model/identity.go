package model

// Identity is the verified caller identity produced by the credential
// verifier and attached to the request context by the auth middleware.
type Identity struct {
	// Email is the verified email claim. Always non-empty for a verified
	// identity; handlers currently key everything off this field.
	Email string `json:"email"`

	// Subject is the token subject, when the identity provider supplies one.
	Subject string `json:"subject,omitempty"`
}
