package catalog

import (
	"math"
	"time"
)

// EnrichedMetadata is the classification result for one file. Any field may be absent.
// Duration is in minutes.
type EnrichedMetadata struct {
	Category       string   `json:"category,omitempty" yaml:"category,omitempty"`
	TrainingTopic  string   `json:"trainingTopic,omitempty" yaml:"trainingTopic,omitempty"`
	InstructorName string   `json:"instructorName,omitempty" yaml:"instructorName,omitempty"`
	Duration       *float64 `json:"duration,omitempty" yaml:"duration,omitempty"`
}

// Minutes returns the duration, treating absent, negative and non-finite values as zero.
func (m EnrichedMetadata) Minutes() float64 {
	if m.Duration == nil || *m.Duration < 0 || math.IsNaN(*m.Duration) || math.IsInf(*m.Duration, 0) {
		return 0
	}
	return *m.Duration
}

// TrainingMaster is the course-level record derived for one folder.
type TrainingMaster struct {
	ID                  int64     `json:"id,omitempty" yaml:"id,omitempty" db:"id"`
	RunID               string    `json:"run_id,omitempty" yaml:"run_id,omitempty" db:"run_id"`
	TrainingID          string    `json:"training_id" yaml:"training_id" db:"training_id"`
	TrainingName        string    `json:"training_name" yaml:"training_name" db:"training_name"`
	Category            string    `json:"category" yaml:"category" db:"training_category"`
	TrainingTopic       string    `json:"training_topic" yaml:"training_topic" db:"training_topic"`
	Duration            float64   `json:"duration" yaml:"duration" db:"training_duration"`
	TrainingContentPath string    `json:"training_content_path" yaml:"training_content_path" db:"training_content_path"`
	CreatedAt           time.Time `json:"created_at" yaml:"created_at" db:"created_at"`
}

// TrainingDetail is the module-level record derived for one file.
type TrainingDetail struct {
	ID               int64     `json:"id,omitempty" yaml:"id,omitempty" db:"id"`
	RunID            string    `json:"run_id,omitempty" yaml:"run_id,omitempty" db:"run_id"`
	TrainingID       string    `json:"training_id" yaml:"training_id" db:"training_id"`
	TrainingDetailID string    `json:"training_detail_id" yaml:"training_detail_id" db:"training_detail_id"`
	ModuleName       string    `json:"module_name" yaml:"module_name" db:"module_name"`
	ModuleTopic      string    `json:"module_topic" yaml:"module_topic" db:"module_topic"`
	Duration         float64   `json:"duration" yaml:"duration" db:"module_duration"`
	ModulePath       string    `json:"module_path" yaml:"module_path" db:"module_path"`
	InstructorName   string    `json:"instructor_name" yaml:"instructor_name" db:"trainer_name"`
	CreatedAt        time.Time `json:"created_at" yaml:"created_at" db:"created_at"`
}

// CategoryDetails is the raw per-file enrichment row.
type CategoryDetails struct {
	ID             int64     `json:"id,omitempty" yaml:"id,omitempty" db:"id"`
	RunID          string    `json:"run_id,omitempty" yaml:"run_id,omitempty" db:"run_id"`
	FileName       string    `json:"file_name" yaml:"file_name" db:"file_name"`
	InstructorName string    `json:"instructor_name" yaml:"instructor_name" db:"instructor_name"`
	Category       string    `json:"category" yaml:"category" db:"category"`
	Duration       *float64  `json:"duration,omitempty" yaml:"duration,omitempty" db:"duration"`
	CreatedAt      time.Time `json:"created_at" yaml:"created_at" db:"created_at"`
}

// TrainingWithDetails is a master together with its modules, used for export.
type TrainingWithDetails struct {
	TrainingMaster `yaml:",inline"`
	Modules        []TrainingDetail `json:"modules" yaml:"modules"`
}
