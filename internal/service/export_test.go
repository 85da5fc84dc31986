package service

// MaxPersistAttempts re-exports maxPersistAttempts for the external test package.
const MaxPersistAttempts = maxPersistAttempts
