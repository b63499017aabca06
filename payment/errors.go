package payment

import "errors"

var (
	// ErrAuthentication indicates a missing, malformed, or unmatched webhook
	// signature. Permanent: redelivery of the same payload will not succeed.
	ErrAuthentication = errors.New("webhook authentication failed")

	// ErrMalformedEvent indicates a verified payload that could not be
	// decoded into a typed event.
	ErrMalformedEvent = errors.New("malformed webhook event")

	// ErrProviderUnavailable indicates a transient failure talking to the
	// payment provider API.
	ErrProviderUnavailable = errors.New("payment provider unavailable")

	// ErrTransactionNotFound indicates the provider has no transaction with
	// the requested id.
	ErrTransactionNotFound = errors.New("transaction not found")

	ErrMissingSecret = errors.New("webhook secret is required")
	ErrMissingAPIKey = errors.New("payment provider API key is required")
)
