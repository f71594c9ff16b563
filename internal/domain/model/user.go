package model

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleVendor Role = "vendor"
)

func (r Role) Valid() bool { return r == RoleAdmin || r == RoleVendor }

// User is the signed-in identity supplied by the identity provider.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

func (u *User) IsZero() bool  { return u == nil || u.ID == "" }
func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }
