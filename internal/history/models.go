package history

import "time"

// Status tracks a generation request through its lifecycle.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Artifact is one delivered output file.
type Artifact struct {
	Format string `json:"format"`
	Path   string `json:"path"`
}

// Record is one generation request as persisted.
type Record struct {
	ID               string
	Template         string
	Status           Status
	Formats          []string
	Artifacts        []Artifact
	ValidationStatus string
	ValidationReason string
	ErrorMessage     string
	CreatedAt        time.Time
	CompletedAt      *time.Time
}
