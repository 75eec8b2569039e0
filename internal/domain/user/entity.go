package user

// Phone holds the contact number of a user as stored by the database service.
type Phone struct {
	Number      string `json:"number"`
	CountryCode string `json:"countryCode,omitempty"`
	Verified    bool   `json:"verified,omitempty"`
}

// User is the subset of the user document this service reads.
type User struct {
	ID                      string       `json:"id"`
	Email                   string       `json:"email"`
	Username                string       `json:"username,omitempty"`
	Phone                   *Phone       `json:"phone,omitempty"`
	NotificationPreferences *Preferences `json:"notificationPreferences,omitempty"`
}

// PhoneNumber returns the user's phone number or an empty string.
func (u *User) PhoneNumber() string {
	if u.Phone == nil {
		return ""
	}
	return u.Phone.Number
}

// HasEmail reports whether the user can be reached by email
func (u *User) HasEmail() bool {
	return u.Email != ""
}

// HasPhone reports whether the user can be reached by SMS
func (u *User) HasPhone() bool {
	return u.PhoneNumber() != ""
}
