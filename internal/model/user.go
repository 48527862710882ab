package model

// RoleAdmin is the role name the backend assigns to administrators.
const RoleAdmin = "admin"

// User is the profile returned by GET /auth/me and embedded in token
// responses.
//
// Fields:
//  ID        – user identifier.
//  Email     – login e-mail address.
//  Phone     – contact number given at registration.
//  FullName  – display name.
//  Role      – "user" or "admin".
//  IsActive  – whether the account is enabled.
//  CreatedAt – ISO-8601 creation timestamp.
type User struct {
	ID        uint64 `json:"id"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	FullName  string `json:"full_name"`
	Role      string `json:"role,omitempty"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

// IsAdmin reports whether the user may open the admin screens.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// AuthTokens is the body returned by login, register and refresh.  Both
// tokens are persisted by the credential store; the user is loaded into the
// session.
type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	User         User   `json:"user"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// RefreshRequest is the body of POST /auth/refresh and POST /auth/logout.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}
