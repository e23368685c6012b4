package graph

import "errors"

var (
	// ErrInvalidTree indicates the dependency tree document could not be decoded
	ErrInvalidTree = errors.New("invalid dependency tree")

	// ErrAmbiguousWinner indicates a resolved tree listed one artifact with
	// more than one version, so it cannot serve as a winner set
	ErrAmbiguousWinner = errors.New("artifact resolved to more than one version")
)
