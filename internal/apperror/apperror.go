// Package apperror defines the error taxonomy shared by the store, crawler,
// indexer, and retriever. Each sentinel corresponds to one of the status
// codes the (out-of-scope) UI collaborator displays to the user.
package apperror

import "errors"

var (
	// ErrStoreConnectFailed means the store could not be dialed. Fatal, status 0.
	ErrStoreConnectFailed = errors.New("store: connection failed")
	// ErrInvalidStoreConfig means the store URI or database name was missing or malformed. Fatal, status 3.
	ErrInvalidStoreConfig = errors.New("store: invalid configuration")
	// ErrCollectionCreateFailed means a required collection could not be created. Fatal, status 2.
	ErrCollectionCreateFailed = errors.New("store: collection creation failed")
	// ErrStopwordsMissing means stopwords.txt could not be read. Fatal, status 4/5 (aliased).
	ErrStopwordsMissing = errors.New("textpipeline: stopwords file missing")
	// ErrStoreReadFailed means a read at query time failed. Non-fatal, status 1.
	ErrStoreReadFailed = errors.New("store: read failed")
	// ErrStoreWriteFailed means a single term or document write failed during indexing. Non-fatal, dropped.
	ErrStoreWriteFailed = errors.New("store: write failed")
	// ErrFetchFailed means an HTTP fetch timed out or errored. Non-fatal, URL dropped.
	ErrFetchFailed = errors.New("crawler: fetch failed")
	// ErrDuplicateKey means an insert raced another writer for the same key.
	ErrDuplicateKey = errors.New("store: duplicate key")
)

// Fatal reports whether err terminates the program after user acknowledgment.
func Fatal(err error) bool {
	switch {
	case errors.Is(err, ErrStoreConnectFailed),
		errors.Is(err, ErrInvalidStoreConfig),
		errors.Is(err, ErrCollectionCreateFailed),
		errors.Is(err, ErrStopwordsMissing):
		return true
	default:
		return false
	}
}

// StatusCode maps a fatal error to the dialog code the UI surface expects.
// 4 and 5 are treated as aliases of the same StopwordsMissing kind; see
// DESIGN.md for why both codes are kept.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrStoreConnectFailed):
		return 0
	case errors.Is(err, ErrInvalidStoreConfig):
		return 3
	case errors.Is(err, ErrCollectionCreateFailed):
		return 2
	case errors.Is(err, ErrStopwordsMissing):
		return 5
	default:
		return 1
	}
}
