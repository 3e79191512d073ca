package ports

// Preferences is the only state the board owns: local UI settings and the
// cached auth token.
type Preferences struct {
	Theme            string `json:"theme"`
	SidebarCollapsed bool   `json:"sidebar_collapsed"`
}

// IPrefsRepo persists preferences and the token cache across restarts.
type IPrefsRepo interface {
	Preferences() (Preferences, error)
	SavePreferences(p Preferences) error
	CachedToken() (string, error)
	SaveToken(token string) error
	Close() error
}
