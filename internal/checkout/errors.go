package checkout

import (
	"errors"
	"fmt"
)

// ErrBusy is returned while another submission for the same user is in flight.
var ErrBusy = errors.New("checkout already in progress")

// ErrPlaceOrder wraps remote store failures during submission.
var ErrPlaceOrder = errors.New("order could not be placed")

// RedirectError reports an unmet precondition. Nothing was written; the
// caller should send the user to Location.
type RedirectError struct {
	Location string
	Reason   string
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("redirect to %s: %s", e.Location, e.Reason)
}

// Redirect locations.
const (
	LoginPath   = "/login"
	MenuPath    = "/menu"
	ProfilePath = "/profile"
)
