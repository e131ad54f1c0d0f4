// Package speech adapts OS-level text-to-speech and speech-to-text tools.
// Both directions are opaque external collaborators: the speaker blocks
// until audio finishes (or is cancelled), the listener blocks until the
// silence budget ends capture.
package speech

import "errors"

// ErrUnavailable is returned when no speech command is configured or the
// device tool cannot run. Callers degrade rather than abort the session.
var ErrUnavailable = errors.New("speech device unavailable")
