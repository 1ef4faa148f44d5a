package weather

import "errors"

var (
	// ErrLocationNotFound means the provider could not resolve the requested place.
	ErrLocationNotFound = errors.New("location not found")
	// ErrUpstreamUnavailable covers network failures, unexpected statuses and
	// malformed provider payloads. Callers may retry.
	ErrUpstreamUnavailable = errors.New("weather provider unavailable")
	// ErrConfiguration means a required credential or collaborator is missing.
	ErrConfiguration = errors.New("weather service misconfigured")

	// ErrPreferencesNotFound is returned by stores when a user has no saved preferences.
	ErrPreferencesNotFound = errors.New("no alert preferences for user")
	// ErrNoAlertLocation means the saved preferences carry no location to check.
	ErrNoAlertLocation = errors.New("alert preferences have no location")
)

// IsKnown reports whether err already carries one of the request error kinds.
func IsKnown(err error) bool {
	return errors.Is(err, ErrLocationNotFound) ||
		errors.Is(err, ErrUpstreamUnavailable) ||
		errors.Is(err, ErrConfiguration)
}
