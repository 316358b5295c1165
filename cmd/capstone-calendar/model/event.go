package model

import "time"

// EventMapping tracks a generic sheet row pushed as a single calendar event.
type EventMapping struct {
	ID            string           `gorm:"column:id;primaryKey" json:"id"`
	UserID        string           `gorm:"column:user_id" json:"user_id"`
	SheetID       string           `gorm:"column:sheet_id" json:"sheet_id"`
	TabName       string           `gorm:"column:tab_name" json:"tab_name"`
	RowNumber     int              `gorm:"column:row_number" json:"row_number"`
	SheetRowHash  string           `gorm:"column:sheet_row_hash" json:"sheet_row_hash"`
	Title         string           `gorm:"column:title" json:"title"`
	StartTime     time.Time        `gorm:"column:start_time" json:"start_time"`
	EndTime       time.Time        `gorm:"column:end_time" json:"end_time"`
	GoogleEventID *string          `gorm:"column:google_event_id" json:"google_event_id,omitempty"`
	SyncStatus    SyncStatus       `gorm:"column:sync_status" json:"sync_status"`
	LastSyncedAt  *time.Time       `gorm:"column:last_synced_at" json:"last_synced_at,omitempty"`
	CreateDate    time.Time        `gorm:"column:create_date" json:"create_date"`
	UpdateDate    time.Time        `gorm:"column:update_date" json:"update_date"`
	Attributes    []EventAttribute `gorm:"foreignKey:EventMappingID;references:ID" json:"attributes"`
}

func (m *EventMapping) TableName() string {
	return "event_mappings"
}

type EventAttribute struct {
	ID             string  `gorm:"column:id;primaryKey" json:"id"`
	EventMappingID string  `gorm:"column:event_mapping_id" json:"event_mapping_id"`
	Key            string  `gorm:"column:key" json:"key"`
	Value          string  `gorm:"column:value" json:"value"`
	Role           *string `gorm:"column:role" json:"role,omitempty"`
}

func (m *EventAttribute) TableName() string {
	return "event_attributes"
}
