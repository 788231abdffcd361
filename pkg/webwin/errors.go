package webwin

import "github.com/vango-dev/webdisplay/internal/errors"

// Error codes returned by the manager. Test for them with HasCode.
const (
	CodeConfiguration   = errors.CodeConfiguration
	CodeBindExhausted   = errors.CodeBindExhausted
	CodeServerNotReady  = errors.CodeServerNotReady
	CodeEndpointMissing = errors.CodeEndpointMissing
	CodeKeyGeneration   = errors.CodeKeyGeneration
	CodeBatchMode       = errors.CodeBatchMode
	CodeMissingDisplay  = errors.CodeMissingDisplay
	CodeSpawnFailed     = errors.CodeSpawnFailed
	CodeEngineFailed    = errors.CodeEngineFailed
	CodeWindowDestroyed = errors.CodeWindowDestroyed
)

// HasCode reports whether err carries the given error code anywhere in its
// wrap chain.
func HasCode(err error, code string) bool {
	return errors.HasCode(err, code)
}

// Code returns the code of the outermost coded error in err, or "".
func Code(err error) string {
	return errors.CodeOf(err)
}
