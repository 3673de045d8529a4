package domain

import "time"

// Person holds the identity and contact fields shared by every role.
type Person struct {
	ID          UserID
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Address     string
	Birthdate   time.Time
}

// Role is either ClientRole or EmployeeRole.
type Role interface {
	roleName() string
}

type ClientRole struct {
	PassportNumber string
	DiscountCode   string
}

type EmployeeRole struct {
	EmployeeNumber int64
	Profession     string
	Title          string
}

func (ClientRole) roleName() string   { return "client" }
func (EmployeeRole) roleName() string { return "employee" }

type User struct {
	Person
	Role Role
}

// RoleName is "client", "employee" or "" when no role is attached.
func (u *User) RoleName() string {
	if u.Role == nil {
		return ""
	}
	return u.Role.roleName()
}

func (u *User) Client() (ClientRole, bool) {
	c, ok := u.Role.(ClientRole)
	return c, ok
}

func (u *User) Employee() (EmployeeRole, bool) {
	e, ok := u.Role.(EmployeeRole)
	return e, ok
}
