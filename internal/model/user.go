package model

// User is the profile of a signed-in account as returned by the auth
// endpoints.
type User struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	Username *string `json:"username"`
}

// AuthSession is the result of a successful register/login call:
// a bearer token plus the profile of the user it belongs to.
type AuthSession struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}
