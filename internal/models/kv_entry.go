package models

import "time"

// KVEntry backs one storage key when the console runs on PostgreSQL.
type KVEntry struct {
	Key       string    `gorm:"primaryKey;size:100" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
