package domain

import "errors"

var (
	// ErrUnmappedEventKey means the resolver/registry could not determine a
	// canonical event for the request. Recovered at the boundary as a client
	// error; never reaches the sink.
	ErrUnmappedEventKey = errors.New("event key is not mapped")

	// ErrMissingCredentials means the sink has no account identifier or
	// bearer credential; any dispatch attempt must fail before the network
	// call.
	ErrMissingCredentials = errors.New("missing pixel id or access token")

	// ErrSink wraps an opaque failure from the attribution API. Not retried
	// at this layer.
	ErrSink = errors.New("attribution sink rejected the event")
)
