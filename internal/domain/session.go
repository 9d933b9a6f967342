package domain

// Session identifies the authenticated actor. It exists from a successful
// login or restore until logout. The session manager is its sole mutator;
// all other components read snapshots.
type Session struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Token    string `json:"token"`
}

// CredentialStore persists a single session record across runs
// (written on login, removed on logout, read on startup restore).
type CredentialStore interface {
	Load() (Session, bool, error)
	Save(session Session) error
	Clear() error
}
