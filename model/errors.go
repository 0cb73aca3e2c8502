package model

import "errors"

// Pool-level optimizer failures. Region-level errors never surface here;
// they degrade the region to an empty contribution instead.
var (
	// ErrArtifactNotFound means the requested AMI pattern matched in no region
	ErrArtifactNotFound = errors.New("image not found in any region")

	// ErrNoCandidates means no zone cleared both the placement score
	// tolerance and had price history
	ErrNoCandidates = errors.New("no suitable option found")

	// ErrInvalidInput means the caller supplied neither an explicit instance
	// type list nor a complete (vcpus, memory) pair
	ErrInvalidInput = errors.New("either an instance type list or vcpus and memory are required")
)
