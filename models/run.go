package models

import (
	"time"

	"gorm.io/datatypes"
)

type RunStatus string

const (
	RunPending    RunStatus = "PENDING"
	RunExtracting RunStatus = "EXTRACTING"
	RunScoring    RunStatus = "SCORING"
	RunPersisted  RunStatus = "PERSISTED"
	RunFailed     RunStatus = "FAILED"
)

// BatchRun tracks the latest run for a (group, date) key.
type BatchRun struct {
	GroupID        string                       `json:"group_id" gorm:"primaryKey"`
	Date           string                       `json:"date" gorm:"primaryKey"`
	RunID          string                       `json:"run_id" gorm:"index"`
	Status         RunStatus                    `json:"status" gorm:"index"`
	Keywords       int                          `json:"keywords"`
	Persisted      int                          `json:"persisted"`
	FailedKeywords datatypes.JSONType[[]string] `json:"failed_keywords"`
	Weights        datatypes.JSONMap            `json:"weights"`
	Error          string                       `json:"error,omitempty"`
	StartedAt      time.Time                    `json:"started_at"`
	FinishedAt     *time.Time                   `json:"finished_at,omitempty"`
}
