package user

// ChannelPreference is the opt-in state of one delivery channel.
// A category missing from Categories is treated as disabled.
type ChannelPreference struct {
	Enabled    bool            `json:"enabled"`
	Categories map[string]bool `json:"categories"`
}

// Allows reports whether the channel accepts notifications of the given category.
func (c ChannelPreference) Allows(category string) bool {
	return c.Enabled && c.Categories[category]
}

// Preferences holds the per-channel notification settings of a user.
type Preferences struct {
	Email ChannelPreference `json:"email"`
	SMS   ChannelPreference `json:"sms"`
	InApp ChannelPreference `json:"inApp"`
}

// DefaultPreferences returns the preferences applied when a user has none
// stored or the store cannot be reached: email and in-app on, sms off,
// no category enabled.
func DefaultPreferences() Preferences {
	return Preferences{
		Email: ChannelPreference{Enabled: true, Categories: map[string]bool{}},
		SMS:   ChannelPreference{Enabled: false, Categories: map[string]bool{}},
		InApp: ChannelPreference{Enabled: true, Categories: map[string]bool{}},
	}
}
