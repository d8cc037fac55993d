package user

import "time"

type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Gender       string `json:"gender,omitempty"`
	Birthday     string `json:"birthday,omitempty"`

	ProfileImageURL *string `json:"profileImageUrl,omitempty"`
	Description     *string `json:"description,omitempty"`

	VerificationCode *string `json:"-"`
	IsVerified       bool    `json:"isVerified"`
	IsAdmin          bool    `json:"isAdmin"`

	// Delivery defaults, refreshed by every successful checkout and used to
	// prefill the next one.
	DefaultContactNumber *string  `json:"defaultContactNumber,omitempty"`
	DefaultAddress       *string  `json:"defaultAddress,omitempty"`
	DefaultLat           *float64 `json:"defaultLat,omitempty"`
	DefaultLng           *float64 `json:"defaultLng,omitempty"`
	DefaultInstructions  *string  `json:"defaultInstructions,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// Summary is the admin listing row.
type Summary struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ProfileUpdate is the user-editable slice of the profile.
type ProfileUpdate struct {
	FirstName       string  `json:"firstName"`
	LastName        string  `json:"lastName"`
	Description     *string `json:"description"`
	ProfileImageURL *string `json:"profileImageUrl"`
}
