package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Pipeline syntax errors
const (
	// ErrCodeNoMatchingStageShape indicates a pipeline stage fits none of the
	// recognized stage shapes, or the pipeline around it is malformed.
	ErrCodeNoMatchingStageShape ErrorCode = "NO_MATCHING_STAGE_SHAPE"
	// ErrCodeUnbalancedCallSite indicates a call site whose parentheses never close.
	ErrCodeUnbalancedCallSite ErrorCode = "UNBALANCED_CALL_SITE"
	// ErrCodeMalformedSource indicates a source file could not be tokenized.
	ErrCodeMalformedSource ErrorCode = "MALFORMED_SOURCE"
)

// Host errors
const (
	// ErrCodeDownstreamSyntax indicates the rewritten source was rejected by
	// the host language parser.
	ErrCodeDownstreamSyntax ErrorCode = "DOWNSTREAM_SYNTAX"
)

// Configuration errors
const (
	// ErrCodeInvalidConfig indicates configuration failed validation.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeInvalidInput indicates an invalid argument was supplied.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Internal errors
const (
	// ErrCodeIO indicates reading or writing a file failed.
	ErrCodeIO ErrorCode = "IO_ERROR"
	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Process exit codes reported by the CLI.
const (
	ExitOK               = 0
	ExitInternal         = 1
	ExitPipelineSyntax   = 2
	ExitDownstreamSyntax = 3
	ExitInvalidConfig    = 4
)

var exitCodes = map[ErrorCode]int{
	ErrCodeNoMatchingStageShape: ExitPipelineSyntax,
	ErrCodeUnbalancedCallSite:   ExitPipelineSyntax,
	ErrCodeMalformedSource:      ExitPipelineSyntax,
	ErrCodeDownstreamSyntax:     ExitDownstreamSyntax,
	ErrCodeInvalidConfig:        ExitInvalidConfig,
	ErrCodeInvalidInput:         ExitInvalidConfig,
	ErrCodeIO:                   ExitInternal,
	ErrCodeInternal:             ExitInternal,
}

// ExitCodeFor returns the process exit code for an error code.
func ExitCodeFor(code ErrorCode) int {
	if c, ok := exitCodes[code]; ok {
		return c
	}
	return ExitInternal
}
