package errors

import (
	"fmt"
	"sort"
	"strings"
)

// Phase indicates where in the load or build sequence the error occurred
type Phase string

const (
	PhaseResolve Phase = "resolve" // artifact path resolution
	PhaseLoad    Phase = "load"    // artifact file read
	PhaseCompile Phase = "compile" // byte validation and compilation
	PhaseLink    Phase = "link"    // import binding and instantiation
	PhasePublish Phase = "publish" // export table publication
	PhaseTool    Phase = "tool"    // external build/test/bench tool
)

// Kind categorizes the error
type Kind string

const (
	KindPathResolution Kind = "path_resolution"
	KindIO             Kind = "io"
	KindValidation     Kind = "validation"
	KindLink           Kind = "link"
	KindToolInvocation Kind = "tool_invocation"
	KindState          Kind = "state"
	KindInvalidInput   Kind = "invalid_input"
)

// Error is the structured error type used throughout the bridge
type Error struct {
	Cause     error
	Phase     Phase
	Kind      Kind
	Namespace string
	Symbol    string
	Artifact  string
	Stage     string
	Detail    string
	ExitCode  int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Stage != "" {
		b.WriteString(" at stage ")
		b.WriteString(e.Stage)
	}

	if e.Namespace != "" || e.Symbol != "" {
		b.WriteString(": ")
		b.WriteString(e.Namespace)
		if e.Namespace != "" && e.Symbol != "" {
			b.WriteByte('.')
		}
		b.WriteString(e.Symbol)
	}

	if e.Artifact != "" {
		b.WriteString(": ")
		b.WriteString(e.Artifact)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.ExitCode != 0 {
		fmt.Fprintf(&b, " (exit status %d)", e.ExitCode)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by Phase and Kind
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Symbol sets the import/export symbol the error refers to
func (b *Builder) Symbol(namespace, name string) *Builder {
	b.err.Namespace = namespace
	b.err.Symbol = name
	return b
}

// Artifact sets the artifact path the error refers to
func (b *Builder) Artifact(path string) *Builder {
	b.err.Artifact = path
	return b
}

// Stage sets the pipeline stage the error occurred in
func (b *Builder) Stage(id string) *Builder {
	b.err.Stage = id
	return b
}

// ExitCode records the originating tool's exit status, unchanged
func (b *Builder) ExitCode(code int) *Builder {
	b.err.ExitCode = code
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for the bridge's error taxonomy

// PathResolution creates a path resolution error
func PathResolution(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindPathResolution,
		Detail: detail,
		Cause:  cause,
	}
}

// IO creates an artifact read error. Fatal, never retried: a missing
// build artifact means a broken build, not a transient condition.
func IO(path string, cause error) *Error {
	return &Error{
		Phase:    PhaseLoad,
		Kind:     KindIO,
		Artifact: path,
		Cause:    cause,
	}
}

// Validation creates a malformed-artifact error
func Validation(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseCompile,
		Kind:   KindValidation,
		Detail: detail,
		Cause:  cause,
	}
}

// Link creates an import binding error for a single symbol
func Link(namespace, symbol, detail string) *Error {
	return &Error{
		Phase:     PhaseLink,
		Kind:      KindLink,
		Namespace: namespace,
		Symbol:    symbol,
		Detail:    detail,
	}
}

// Instantiation wraps an engine instantiation failure as a link error
func Instantiation(cause error) *Error {
	return &Error{
		Phase:  PhaseLink,
		Kind:   KindLink,
		Detail: "instantiation failed",
		Cause:  cause,
	}
}

// Tool creates a tool invocation error carrying the child's exit status
func Tool(stage string, exitCode int, cause error) *Error {
	return &Error{
		Phase:    PhaseTool,
		Kind:     KindToolInvocation,
		Stage:    stage,
		ExitCode: exitCode,
		Cause:    cause,
	}
}

// StateViolation creates an error for an operation attempted out of order
func StateViolation(phase Phase, op, state string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindState,
		Detail: fmt.Sprintf("%s not allowed in state %s", op, state),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// MissingImportsError reports every required import absent from the
// supplied table, so one failed link attempt names the full gap rather
// than the first symbol found.
type MissingImportsError struct {
	// Symbols holds "namespace.name" keys, sorted.
	Symbols []string
}

// NewMissingImportsError builds the error from namespace/name pairs.
func NewMissingImportsError(symbols []string) *MissingImportsError {
	sorted := make([]string, len(symbols))
	copy(sorted, symbols)
	sort.Strings(sorted)
	return &MissingImportsError{Symbols: sorted}
}

func (e *MissingImportsError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[link] link: %d import(s) missing from table:", len(e.Symbols))
	for _, s := range e.Symbols {
		b.WriteString("\n  ")
		b.WriteString(s)
	}
	return b.String()
}

// Is matches any link-phase link-kind *Error, so callers can test with
// errors.Is(err, errors.Link("", "", "")).
func (e *MissingImportsError) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return t.Phase == PhaseLink && t.Kind == KindLink
	}
	_, ok := target.(*MissingImportsError)
	return ok
}
