package service

import "errors"

var (
	// ErrPageLocked is returned when a locked page is written to.
	ErrPageLocked = errors.New("page is locked")
	// ErrInvalidAccess is returned for an access level other than public or private.
	ErrInvalidAccess = errors.New("invalid page access")
	// ErrInvalidEntity is returned for a log entry with an unknown entity name.
	ErrInvalidEntity = errors.New("invalid page log entity")
	// ErrNoGap is returned when two neighbouring blocks have no key left between them.
	// Renumbering the page's blocks opens the gaps again.
	ErrNoGap = errors.New("no sort order left between blocks, renumber the page")
	// ErrBlockNotInPage is returned when a block is moved relative to a block of another page.
	ErrBlockNotInPage = errors.New("block does not belong to the page")
)
