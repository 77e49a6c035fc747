package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrParse is returned when a DSL line matches none of the directive shapes.
	ErrParse = errors.New("dsl parse error")

	// ErrNoDSL is returned when a host file has no DSL start marker.
	// Callers treat it as a warning and skip the file.
	ErrNoDSL = errors.New("dsl block not found")

	// ErrSignature is returned for missing, partial or misordered signature markers.
	ErrSignature = errors.New("signature error")

	// ErrFile is returned for open, read, backup and write failures on a host file.
	ErrFile = errors.New("file operation error")

	// ErrNoStartup is returned when a machine is built without a startup state.
	ErrNoStartup = errors.New("no startup state")

	// ErrUnknownFunction is returned when a referenced function cannot be resolved.
	ErrUnknownFunction = errors.New("unknown function")

	// ErrRoleConflict is returned when one function name is used both as a
	// guard and as an action or hook.
	ErrRoleConflict = errors.New("function role conflict")
)

// ParseError reports an unrecognized DSL line.
type ParseError struct {
	File   string
	Line   int // 1-based line in the host file
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "unrecognized directive"
	}
	if e.File != "" {
		return fmt.Sprintf("%s:%d: %s: %q", e.File, e.Line, reason, e.Text)
	}
	return fmt.Sprintf("line %d: %s: %q", e.Line, reason, e.Text)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// SignatureError reports a signature marker problem.
type SignatureError struct {
	File   string
	Marker string
	Line   int // 0 when the marker was not found
	Reason string
}

func (e *SignatureError) Error() string {
	where := e.File
	if e.Line > 0 {
		where = fmt.Sprintf("%s:%d", e.File, e.Line)
	}
	if where == "" {
		return fmt.Sprintf("signature %q: %s", e.Marker, e.Reason)
	}
	return fmt.Sprintf("%s: signature %q: %s", where, e.Marker, e.Reason)
}

func (e *SignatureError) Unwrap() error { return ErrSignature }

// FileError wraps an I/O failure on a host file.
type FileError struct {
	File string
	Op   string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.File, e.Err)
}

func (e *FileError) Unwrap() []error { return []error{ErrFile, e.Err} }

// RoleError reports a function referenced as a guard and in another role.
type RoleError struct {
	File string
	Line int // 1-based line of the guard use, 0 when unknown
	Name string
	Role Role // the non-guard role
}

func (e *RoleError) Error() string {
	msg := fmt.Sprintf("function %q is used both as guard and as %s", e.Name, e.Role)
	switch {
	case e.File != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, msg)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, msg)
	case e.File != "":
		return fmt.Sprintf("%s: %s", e.File, msg)
	}
	return msg
}

func (e *RoleError) Unwrap() error { return ErrRoleConflict }

// WithFile stamps path on typed errors that do not carry one yet.
func WithFile(err error, path string) error {
	var pe *ParseError
	if errors.As(err, &pe) && pe.File == "" {
		pe.File = path
	}
	var se *SignatureError
	if errors.As(err, &se) && se.File == "" {
		se.File = path
	}
	var fe *FileError
	if errors.As(err, &fe) && fe.File == "" {
		fe.File = path
	}
	var re *RoleError
	if errors.As(err, &re) && re.File == "" {
		re.File = path
	}
	return err
}
