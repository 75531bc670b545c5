package user

import "time"

// User represents a registered account. PasswordHash never leaves this package
// boundary except through the repository.
type User struct {
	ID            string
	Email         string
	FirstName     string
	LastName      string
	Username      string
	IsPremium     bool
	WalletAddress string
	DisplayName   string
	Bio           string
	Website       string
	PasswordHash  []byte
	CreatedAt     time.Time
}

// Identity is the transient per-request view of a resolved user. It carries
// only public fields and is never cached beyond the request.
type Identity struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Username      string `json:"username,omitempty"`
	IsPremium     bool   `json:"isPremium"`
	WalletAddress string `json:"walletAddress,omitempty"`
}

// Identity projects the public view of the user.
func (u User) Identity() Identity {
	return Identity{
		ID:            u.ID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Username:      u.Username,
		IsPremium:     u.IsPremium,
		WalletAddress: u.WalletAddress,
	}
}

// Profile is the public profile surface exposed on the users endpoints.
type Profile struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	Bio         string `json:"bio,omitempty"`
	Website     string `json:"website,omitempty"`
}

// Profile projects the public profile of the user.
func (u User) Profile() Profile {
	return Profile{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Bio:         u.Bio,
		Website:     u.Website,
	}
}

// ProfileUpdate carries the mutable profile fields for an update.
type ProfileUpdate struct {
	DisplayName string
	Bio         string
	Website     string
}
