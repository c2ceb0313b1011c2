package enums

import "fmt"

// JobStatus maps to the job_status_enum enum in Postgres.
type JobStatus string

const (
	JobStatusPending    JobStatus = "PENDING"
	JobStatusScheduled  JobStatus = "SCHEDULED"
	JobStatusInProgress JobStatus = "IN_PROGRESS"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusCanceled   JobStatus = "CANCELED"
)

var validJobStatuses = []JobStatus{
	JobStatusPending,
	JobStatusScheduled,
	JobStatusInProgress,
	JobStatusCompleted,
	JobStatusCanceled,
}

// jobStatusTransitions is the allow-map for status changes. COMPLETED and
// CANCELED are terminal.
var jobStatusTransitions = map[JobStatus][]JobStatus{
	JobStatusPending:    {JobStatusScheduled, JobStatusCanceled},
	JobStatusScheduled:  {JobStatusInProgress, JobStatusCanceled},
	JobStatusInProgress: {JobStatusCompleted, JobStatusCanceled},
}

func (s JobStatus) IsValid() bool {
	for _, candidate := range validJobStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the target status is reachable from s.
func (s JobStatus) CanTransitionTo(target JobStatus) bool {
	for _, candidate := range jobStatusTransitions[s] {
		if candidate == target {
			return true
		}
	}
	return false
}

func ParseJobStatus(value string) (JobStatus, error) {
	for _, candidate := range validJobStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid job status %q", value)
}
