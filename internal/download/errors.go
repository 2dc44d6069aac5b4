package download

import "errors"

// ErrorKind classifies failures of the conversion workflow.
type ErrorKind int

const (
	// KindTransport covers network errors and non-2xx answers from either
	// the conversion API or the media host.
	KindTransport ErrorKind = iota + 1

	// KindMalformedResponse means the service answered with something that
	// is not a usable status, such as an ok status without a link.
	KindMalformedResponse

	// KindRemoteQueued means the job was still queued when we gave up.
	KindRemoteQueued

	// KindRemoteRejected means the service reported a terminal failure.
	KindRemoteRejected
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport error"
	case KindMalformedResponse:
		return "malformed response"
	case KindRemoteQueued:
		return "remote queued"
	case KindRemoteRejected:
		return "remote rejected"
	default:
		return "unknown error"
	}
}

// Error is returned by Manager.Download for every workflow failure.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the Kind sentinels below, so errors.Is(err, ErrRemoteQueued)
// holds for any queued failure regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Message != "" || t.Err != nil {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrTransport         = &Error{Kind: KindTransport}
	ErrMalformedResponse = &Error{Kind: KindMalformedResponse}
	ErrRemoteQueued      = &Error{Kind: KindRemoteQueued}
	ErrRemoteRejected    = &Error{Kind: KindRemoteRejected}
)

// Precondition errors, returned before any request is made.
var (
	ErrEmptyVideoID = errors.New("video identifier must not be empty")
	ErrEmptyDir     = errors.New("download directory must not be empty")
)
