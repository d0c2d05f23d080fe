package model

import "github.com/rotisserie/eris"

// Fatal errors. Any of these stops the run.
var (
	ErrConfigMissing   = eris.New("keyword configuration missing")
	ErrConfigInvalid   = eris.New("keyword configuration invalid")
	ErrAuthMissing     = eris.New("session token missing")
	ErrInvalidArgument = eris.New("invalid argument")
	ErrUpstream        = eris.New("activity listing failed")
)

// Per-trip and delivery errors. These are logged and the run continues.
var (
	ErrDetailFetch         = eris.New("trip detail fetch failed")
	ErrReceiptUnavailable  = eris.New("receipt unavailable")
	ErrDownloadFailed      = eris.New("receipt download failed")
	ErrDateParse           = eris.New("trip time not parseable")
	ErrEmailDeliveryFailed = eris.New("email delivery failed")
	ErrEmailSenderMissing  = eris.New("email enabled without a sender")
)

// IsFatal reports whether err should abort the run.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	for _, target := range []error{ErrConfigMissing, ErrConfigInvalid, ErrAuthMissing, ErrInvalidArgument, ErrUpstream} {
		if eris.Is(err, target) {
			return true
		}
	}
	return false
}
