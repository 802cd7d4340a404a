package models

import "time"

// SyncMeta stores sync bookkeeping as key-value pairs.
type SyncMeta struct {
	Key       string    `gorm:"primaryKey;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (SyncMeta) TableName() string {
	return "sync_meta"
}

// Common sync meta keys.
const (
	SyncMetaLastFullSync  = "last_full_sync"
	SyncMetaLastPullSync  = "last_pull_sync"
	SyncMetaSchemaVersion = "schema_version"
	SyncMetaTrackingID    = "tracking_id"
)
