package service

import "errors"

// Sentinel errors handlers map to HTTP statuses via errors.Is.
var (
	// ErrRegistrationInvalid is the single combined message for any failed
	// signup: weak password, taken username, malformed form. The cause is
	// deliberately not distinguished.
	ErrRegistrationInvalid = errors.New("password must be at least 8 characters or that username may be taken")

	// ErrInvalidCredentials covers both unknown usernames and wrong
	// passwords with one generic message.
	ErrInvalidCredentials = errors.New("username or password does not exist")

	// ErrNotOwner rejects a mutation by anyone but the record's owner, staff
	// included.
	ErrNotOwner = errors.New("you are not the owner of this room")

	// ErrAlreadyLiked rejects a second like on the same room by the same user.
	ErrAlreadyLiked = errors.New("you have already liked this room")

	// ErrUsernameTaken rejects a profile update that collides with another
	// account's username.
	ErrUsernameTaken = errors.New("that username may be taken")
)
