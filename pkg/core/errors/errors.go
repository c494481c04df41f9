package errors

import "errors"

// Startup / configuration errors. These abort the process before any
// directory is touched.
var (
	ErrExtractorUnavailable = errors.New("preflight: no usable archive extractor found")
	ErrSorterUnavailable    = errors.New("preflight: external sorter binary not found")
)

// Per-directory processing errors. These are logged and the pipeline moves
// on to the next directory.
var (
	ErrNoArchive        = errors.New("archive: no archive set in directory")
	ErrExtractionFailed = errors.New("extract: all members failed after retries and fallback")
	ErrSortFailed       = errors.New("sort: external sorter failed after retries")
	ErrMovieExists      = errors.New("sort: movie already present in destination library")
	ErrNotOwned         = errors.New("cleanup: refusing to remove directory without ownership marker")
)
