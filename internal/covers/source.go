package covers

import "context"

// Source is one strategy for obtaining a cover image from an external
// service. Sources never propagate failures: network errors, bad responses,
// and empty results all come back as an error from Fetch, which the
// orchestrator treats as "not found" and moves on. Adding a lookup service
// means adding a Source implementation, not editing the orchestrator.
type Source interface {
	// Name identifies the source in logs and result provenance.
	Name() string

	// Applicable reports whether this source can attempt the identity at
	// all (e.g. ISBN-only sources skip books without an ISBN).
	Applicable(id Identity) bool

	// Fetch performs a single lookup attempt and returns the raw image
	// bytes. No internal retries.
	Fetch(ctx context.Context, id Identity) ([]byte, error)
}

// Provenance values for Result.Source that do not belong to a lookup source.
const (
	SourceCache  = "cache"
	SourceManual = "manual"
)

// Result is the outcome of a cover fetch. A zero Result means no cover could
// be found, which is a normal terminal outcome: the caller renders a labeled
// placeholder instead.
type Result struct {
	Found  bool
	Data   []byte
	Source string
}
