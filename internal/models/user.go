package models

type UserRole string

const (
	UserRoleCitizen  UserRole = "citizen"
	UserRoleOfficial UserRole = "official"
)

func (r UserRole) Valid() bool {
	return r == UserRoleCitizen || r == UserRoleOfficial
}

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	District     string
	Role         UserRole
}
