package models

// Role is the access level of an account.
type Role string

const (
	RoleShopper Role = "shopper"
	RoleSeller  Role = "seller"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleShopper, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// User represents an account of the marketplace.
// Password always holds the bcrypt hash, never the plaintext.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Role     Role   `json:"role"`
}

func (u User) Key() int       { return u.ID }
func (u *User) SetKey(id int) { u.ID = id }

// Public returns a copy of the user that is safe to hand to callers.
func (u User) Public() User {
	u.Password = ""
	return u
}

// NewUser is the input for creating an account from the admin panel.
type NewUser struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     Role   `json:"role" validate:"omitempty,oneof=shopper seller admin"`
}

// Registration is the input for shopper self registration.
type Registration struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// UserPatch carries the fields an admin may change. Nil or empty fields are left unchanged.
type UserPatch struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=100"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Role     *Role   `json:"role" validate:"omitempty,oneof=shopper seller admin"`
}

// Identity is the verified caller of an operation.
type Identity struct {
	ID   int  `json:"id"`
	Role Role `json:"role"`
}
