package user

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// User is a pool participant with a token balance. Balance never goes negative.
type User struct {
	ID     string
	Alias  string
	Role   Role
	Tokens int64
}

func (u User) CanAfford(amount int64) bool {
	return u.Tokens >= amount
}

// Principal is the authenticated caller resolved from an access token.
type Principal struct {
	UserID string
	Email  string
	Role   Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
