package listing

import "errors"

// ErrGenerationFailed covers any upstream model failure: transport errors,
// empty responses, unparseable or structurally invalid output.
var ErrGenerationFailed = errors.New("listing generation failed")
