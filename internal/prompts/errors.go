package prompts

import "fmt"

// Kind classifies a failed prompt operation.
type Kind int

const (
	KindUnauthenticated Kind = iota + 1
	KindInvalidInput
	KindUploadFailed
	KindCreateFailed
	KindLikeFailed
	KindPromptLookupFailed
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindInvalidInput:
		return "invalid_input"
	case KindUploadFailed:
		return "upload_failed"
	case KindCreateFailed:
		return "create_failed"
	case KindLikeFailed:
		return "like_failed"
	case KindPromptLookupFailed:
		return "prompt_lookup_failed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is returned by every write-path operation of Service.
// Msg is safe to show to the user; Err holds the backend cause, if any.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}
