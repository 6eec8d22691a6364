package services

import (
	"errors"
	"net"
	"net/http"
	"net/url"

	"github.com/kerbaras/mangaverse/pkg/gateway"
	"github.com/kerbaras/mangaverse/pkg/utils"
)

var (
	// ErrEmptyQuery is returned for blank search terms, before any request.
	ErrEmptyQuery = errors.New("search query is empty")
	// ErrContentBlocked is returned when a directly requested manga fails the classifier.
	ErrContentBlocked = errors.New("content blocked")
	// ErrNoRandomCandidate means the sampled page had no safe manga.
	ErrNoRandomCandidate = errors.New("no random candidate")
	// ErrSuperseded is returned when a response arrived after a newer request replaced it.
	ErrSuperseded = errors.New("request superseded")
	ErrNoSelection = errors.New("no manga is open")
)

const (
	msgBlocked     = "This content is NSFW and cannot be displayed."
	msgNoRandom    = "Could not find random manga. Try again!"
	msgRandomError = "Error loading random manga"
	msgTryAgain    = "Unable to load manga. Please try again later."
	msgThrottled   = "The catalog is busy right now. Please try again in a moment."
	msgNotFound    = "Manga not found."
	msgEmptyQuery  = "Type something to search for."
)

// IsTransient reports whether retrying the same operation later may succeed.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gateway.ErrThrottled) {
		return true
	}
	var statusErr *utils.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// FailureMessage maps an error to the text shown to the user.
func FailureMessage(err error) string {
	var statusErr *utils.StatusError
	switch {
	case errors.Is(err, ErrEmptyQuery):
		return msgEmptyQuery
	case errors.Is(err, ErrContentBlocked):
		return msgBlocked
	case errors.Is(err, ErrNoRandomCandidate):
		return msgNoRandom
	case errors.Is(err, gateway.ErrThrottled):
		return msgThrottled
	case errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound:
		return msgNotFound
	default:
		return msgTryAgain
	}
}
