package channel

import "errors"

// ErrNotConnected is returned by Emit while the transport is down. Callers
// treat it as a soft failure; missed state is reconciled by polling.
var ErrNotConnected = errors.New("channel: not connected")
