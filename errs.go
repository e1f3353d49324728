package physics2d

import "errors"

var (
	// ErrEPANonConvergence is returned by the engine's collision pass when EPA
	// fails to converge within its iteration cap. The offending pair gets no
	// manifold that step; the step logs the error with slog.Error and is not
	// aborted: the remaining pairs are still solved.
	ErrEPANonConvergence = errors.New("physics2d: EPA failed to converge")
)
