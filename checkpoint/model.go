package checkpoint

import "time"

// Thread is the persisted form of a session state. Map and list fields are
// stored as JSON text. The REPL session is never persisted.
type Thread struct {
	ThreadID     string `gorm:"primaryKey;size:255"`
	MessagesJSON string `gorm:"type:text"`
	FilesJSON    string `gorm:"type:text"`
	BackupsJSON  string `gorm:"type:text"`
	ImagesJSON   string `gorm:"type:text"`
	TodosJSON    string `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
