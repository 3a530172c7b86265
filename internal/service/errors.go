package service

import "errors"

// Error taxonomy of the extraction core. Callers discriminate with
// errors.Is; none of these are retried inside the core.
var (
	// ErrOracle marks a failed completion request (network, quota,
	// timeout). The underlying cause is wrapped alongside it.
	ErrOracle = errors.New("completion oracle unavailable")

	// ErrMalformedOutput means the oracle responded but the content did
	// not decode into the expected extraction shape. No repair is
	// attempted; whether to retry the upstream call is the caller's
	// decision.
	ErrMalformedOutput = errors.New("malformed model output")

	// ErrNotViable is a routing signal, not a failure: deterministic CSV
	// parsing could not resolve the mandatory columns and the engine
	// should fall back to the AI path.
	ErrNotViable = errors.New("deterministic parsing not viable")

	// ErrNoExtractableContent is terminal: every fallback strategy for a
	// document was exhausted.
	ErrNoExtractableContent = errors.New("no extractable content")
)
