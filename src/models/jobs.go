package models

import (
	"gsc/src/types"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobTask records one run of a scheduled job.
type JobTask struct {
	ID uuid.UUID `gorm:"primarykey;type:uuid" json:"id"`

	Name       string      `json:"name"`
	JobType    string      `json:"job_type"`
	RunsAt     time.Time   `json:"runs_at"`
	FinishedAt *time.Time  `json:"finished_at,omitempty"`
	Payload    types.JSONB `gorm:"type:jsonb" json:"payload,omitempty"`
	Source     string      `json:"source,omitempty"`
	Status     string      `gorm:"default:'pending'" json:"status"`
	Processed  int         `json:"processed"`
	Failed     int         `json:"failed"`
	Error      string      `json:"error,omitempty"`

	types.Timestamps
}

func (t *JobTask) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func StartJobTask(tx *gorm.DB, name string, jobType string, source string, payload types.JSONB) (*JobTask, error) {
	task := JobTask{
		Name:    name,
		JobType: jobType,
		RunsAt:  time.Now().UTC(),
		Payload: payload,
		Source:  source,
		Status:  "running",
	}
	if err := tx.Create(&task).Error; err != nil {
		log.Printf("Failed to record job %s: %s\n", name, err.Error())
		return nil, err
	}
	return &task, nil
}

func (t *JobTask) Finish(tx *gorm.DB, processed int, failed int, runErr error) error {
	now := time.Now().UTC()
	t.FinishedAt = &now
	t.Processed = processed
	t.Failed = failed
	t.Status = "completed"
	if runErr != nil {
		t.Status = "failed"
		t.Error = runErr.Error()
	}
	return tx.Model(t).Updates(map[string]any{
		"finished_at": now,
		"processed":   processed,
		"failed":      failed,
		"status":      t.Status,
		"error":       t.Error,
	}).Error
}
