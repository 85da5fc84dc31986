package model

// SecretHasher is a salted one-way transform for passwords. Hash embeds a
// fresh random salt on every call; Verify recomputes with the embedded salt
// and reports whether the plaintext matches.
type SecretHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}
