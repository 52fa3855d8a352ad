package community

import "errors"

var (
	ErrMissingImage = errors.New("post requires an attached image")
	ErrPostNotFound = errors.New("post not found")
)
