package auth

import "crypto/subtle"

// Authenticator decides whether an admin credential pair is valid. Real
// deployments can swap the static implementation without touching handlers.
type Authenticator interface {
	Authenticate(username, password string) bool
}

// StaticAuthenticator checks against a single configured credential pair.
type StaticAuthenticator struct {
	username string
	password string
}

func NewStaticAuthenticator(username, password string) *StaticAuthenticator {
	return &StaticAuthenticator{username: username, password: password}
}

func (a *StaticAuthenticator) Authenticate(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	return userOK && passOK
}
