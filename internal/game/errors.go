package game

import (
	"errors"
	"fmt"
)

// Reducer errors. Every rejected command surfaces as an *ActionError whose
// kind matches one of these with errors.Is.
var (
	ErrInvalidAction         = errors.New("invalid action")
	ErrNotYourTurn           = errors.New("not your turn")
	ErrOutOfRange            = errors.New("out of range")
	ErrInsufficientResources = errors.New("insufficient resources")
	ErrIllegalTerrain        = errors.New("illegal terrain")
	ErrAlreadyActed          = errors.New("already acted")
)

// Snapshot errors.
var (
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
	ErrUnknownCommand  = errors.New("unknown command type")
)

// ErrorKind classifies a rejected command.
type ErrorKind int

const (
	InvalidAction ErrorKind = iota
	NotYourTurn
	OutOfRange
	InsufficientResources
	IllegalTerrain
	AlreadyActed
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidAction:
		return "InvalidAction"
	case NotYourTurn:
		return "NotYourTurn"
	case OutOfRange:
		return "OutOfRange"
	case InsufficientResources:
		return "InsufficientResources"
	case IllegalTerrain:
		return "IllegalTerrain"
	case AlreadyActed:
		return "AlreadyActed"
	default:
		return "Unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case NotYourTurn:
		return ErrNotYourTurn
	case OutOfRange:
		return ErrOutOfRange
	case InsufficientResources:
		return ErrInsufficientResources
	case IllegalTerrain:
		return ErrIllegalTerrain
	case AlreadyActed:
		return ErrAlreadyActed
	default:
		return ErrInvalidAction
	}
}

// ActionError is returned by Apply when a command is rejected. The state
// returned alongside it is the input state, untouched.
type ActionError struct {
	Kind   ErrorKind
	Action CommandType
	Detail string
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s rejected (%s): %s", e.Action, e.Kind, e.Detail)
}

// Is matches the sentinel error for the kind.
func (e *ActionError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func reject(kind ErrorKind, action CommandType, format string, args ...any) *ActionError {
	return &ActionError{Kind: kind, Action: action, Detail: fmt.Sprintf(format, args...)}
}

// KindOf extracts the error kind from a reducer error.
func KindOf(err error) (ErrorKind, bool) {
	var ae *ActionError
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	return 0, false
}
