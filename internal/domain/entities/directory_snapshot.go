package entities

import "time"

// DirectorySnapshot is one loaded version of the provider directory.
// A snapshot is never modified after it is published.
type DirectorySnapshot struct {
	Providers   []Provider `json:"providers"`
	Specialties []string   `json:"specialties"`
	Notice      string     `json:"notice,omitempty"`
	Fallback    bool       `json:"fallback"`
	LoadedAt    time.Time  `json:"loadedAt"`
	Sequence    uint64     `json:"sequence"`
}

// EmptySnapshot is the directory state before the first load completes
func EmptySnapshot() *DirectorySnapshot {
	return &DirectorySnapshot{
		Providers:   []Provider{},
		Specialties: []string{},
	}
}
