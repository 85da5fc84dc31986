package anoncode

// MaxAttempts re-exports maxAttempts for the external test package.
const MaxAttempts = maxAttempts
