package model

// User is a local account linked to an external identity provider subject.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	XP    int64  `json:"xp"`
}

// Profile is the identity assertion returned by the provider after login.
type Profile struct {
	Subject string
	Name    string
	Emails  []string
}

// PrimaryEmail returns the first email of the profile, or "" if there is none.
func (p Profile) PrimaryEmail() string {
	if len(p.Emails) == 0 {
		return ""
	}
	return p.Emails[0]
}
