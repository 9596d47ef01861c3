package auth

import "errors"

// ErrFlowCancelled reports that the user denied or abandoned the
// interactive sign-in flow at the provider. It is an outcome, not a
// failure: the local session is left untouched.
var ErrFlowCancelled = errors.New("interactive sign-in cancelled")
