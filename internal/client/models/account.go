// Package models defines the client-side data models exchanged with the
// Shalo resource API.
package models

// Account is the authenticated user's profile as returned by the API.
type Account struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Avatar        string `json:"avatar"`
	JoinDate      string `json:"joinDate"`
	MemberNumber  string `json:"memberNumber"`
	Contributions int    `json:"contributions"`
	Bookmarks     int    `json:"bookmarks"`

	Location string `json:"location,omitempty"`
	Website  string `json:"website,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	Bio      string `json:"bio,omitempty"`
}

// DisplayName prefers the full name, then the username, then the email.
func (a *Account) DisplayName() string {
	switch {
	case a == nil:
		return ""
	case a.Name != "":
		return a.Name
	case a.Username != "":
		return a.Username
	default:
		return a.Email
	}
}

// Credentials is the result of a successful sign-in or sign-up exchange.
type Credentials struct {
	Account Account `json:"accountData"`
	Token   string  `json:"token"`
}
