package repository

import "errors"

var (
	// ErrNotFound is returned when a notification does not exist.
	ErrNotFound = errors.New("repository: notification not found")

	// ErrAlreadyExists is returned when creating a notification whose id is taken.
	ErrAlreadyExists = errors.New("repository: notification already exists")

	// ErrPreferencesNotFound is returned when a user has no stored preferences.
	// Callers fall back to notification.DefaultPreferences.
	ErrPreferencesNotFound = errors.New("repository: preferences not found")
)
