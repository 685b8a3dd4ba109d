package apperrors

import (
	"errors"
	"strings"
)

type Kind string

const (
	// KindConfig covers unreadable script configs and missing [Command] data.
	KindConfig Kind = "config"
	// KindValidation covers form values that cannot be turned into a command line.
	KindValidation Kind = "validation"
	// KindLaunch covers processes that could not be started.
	KindLaunch Kind = "launch"
	// KindIO covers settings and output files that could not be written.
	KindIO Kind = "io"
)

type Error struct {
	Kind Kind
	// SafeMessage is intended for dialogs, status bars and logs.
	SafeMessage string
	// Cause keeps the original internal error for troubleshooting.
	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if msg := strings.TrimSpace(e.SafeMessage); msg != "" {
		return msg
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return defaultSafeMessage(e.Kind)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func defaultSafeMessage(kind Kind) string {
	switch kind {
	case KindConfig:
		return "The configuration file could not be used."
	case KindValidation:
		return "Invalid arguments."
	case KindLaunch:
		return "The script could not be started."
	case KindIO:
		return "The file could not be written."
	default:
		return "Operation failed."
	}
}

// New builds an *Error. An empty safeMessage falls back to the cause text,
// then to a per-kind default.
func New(kind Kind, safeMessage string, cause error) error {
	return &Error{
		Kind:        kind,
		SafeMessage: strings.TrimSpace(safeMessage),
		Cause:       cause,
	}
}

func Config(msg string, cause error) error     { return New(KindConfig, msg, cause) }
func Validation(msg string, cause error) error { return New(KindValidation, msg, cause) }
func Launch(msg string, cause error) error     { return New(KindLaunch, msg, cause) }
func IO(msg string, cause error) error         { return New(KindIO, msg, cause) }

func KindOf(err error) (Kind, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return "", false
	}
	return e.Kind, true
}

// Is reports whether err carries the given kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// Title returns a dialog title for err.
func Title(err error) string {
	kind, _ := KindOf(err)
	switch kind {
	case KindConfig:
		return "Configuration Error"
	case KindValidation:
		return "Invalid Arguments"
	case KindLaunch:
		return "Launch Failed"
	case KindIO:
		return "Write Failed"
	default:
		return "Error"
	}
}

func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}
