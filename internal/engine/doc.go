package engine

// Package engine defines the opaque detection capability behind the
// detector handle. A Backend opens Engine instances bound to a single tag
// family; the engine performs quad search and decoding internally and this
// package never inspects how.
//
// The default build carries no native backend to avoid adding CGO
// implicitly. Link the reference C apriltag implementation with the build
// tag `reference`:
//
//	go build -tags=reference ./...
//
// Tests install an in-process backend via Register.
