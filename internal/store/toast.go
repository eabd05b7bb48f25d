package store

import "time"

// ToastType classifies a transient notification.
type ToastType string

const (
	ToastInfo    ToastType = "info"
	ToastSuccess ToastType = "success"
	ToastWarning ToastType = "warning"
	ToastError   ToastType = "error"
)

// longToastDuration is used for messages worth lingering on, such as partial
// upload failures and generation errors with hints.
const longToastDuration = 5 * time.Second

// Toast is a transient user-facing notification.
type Toast struct {
	Message string
	Type    ToastType
}

// ShowToast displays a toast for the default duration. The toast field is a
// single slot: a new toast replaces any prior one (last write wins).
func (s *Store) ShowToast(message string, typ ToastType) {
	s.ShowToastFor(message, typ, s.toastDuration)
}

// ShowToastFor displays a toast for an explicit duration.
//
// Known limitation: the dismissal timer of a replaced toast is not cancelled,
// so an earlier timer can clear a newer toast prematurely.
func (s *Store) ShowToastFor(message string, typ ToastType, duration time.Duration) {
	s.mu.Lock()
	s.toast = &Toast{Message: message, Type: typ}
	s.mu.Unlock()

	time.AfterFunc(duration, func() {
		s.mu.Lock()
		s.toast = nil
		s.mu.Unlock()
	})
}

// Toast returns the currently visible toast, or nil.
func (s *Store) Toast() *Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.toast
}
