package core

// User binds an email address to a credential hash and a second-factor
// requirement. One user exists per email; the store enforces uniqueness.
type User struct {
	Email             Email
	PasswordHash      []byte
	RequiresTwoFactor bool
}

// NewUser hashes the password and returns the record to store.
func NewUser(email Email, password Password, requiresTwoFactor bool) (User, error) {
	hash, err := password.Hash()
	if err != nil {
		return User{}, err
	}
	return User{
		Email:             email,
		PasswordHash:      hash,
		RequiresTwoFactor: requiresTwoFactor,
	}, nil
}
