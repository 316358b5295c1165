package model

import "time"

type BaseResponse struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
}

// SheetCoordinate locates a row inside a spreadsheet tab.
type SheetCoordinate struct {
	SheetID   string `json:"sheetId" validate:"required"`
	TabName   string `json:"tabName" validate:"required"`
	RowNumber int    `json:"rowNumber" validate:"required,min=1"`
}

type PreviewRequest struct {
	SheetCoordinate
	RowData map[string]any `json:"rowData" validate:"required"`
}

type SyncOptions struct {
	StagesToSync []Stage `json:"stagesToSync" validate:"omitempty,dive,oneof=REV1 REV2 REV3 SUPERVISOR DEF1 DEF2"`
}

type SyncRequest struct {
	SheetCoordinate
	RowData     map[string]any `json:"rowData" validate:"required"`
	SyncOptions *SyncOptions   `json:"syncOptions,omitempty"`
}

// Stages returns the requested allow-list, or DefaultSyncStages when none was given.
func (r SyncRequest) Stages() []Stage {
	if r.SyncOptions == nil || len(r.SyncOptions.StagesToSync) == 0 {
		return DefaultSyncStages
	}
	return r.SyncOptions.StagesToSync
}

type PreviewProject struct {
	TopicCode     string          `json:"topic_code"`
	GroupCode     string          `json:"group_code"`
	TopicNameEn   string          `json:"topic_name_en"`
	TopicNameVi   string          `json:"topic_name_vi"`
	Mentor        string          `json:"mentor"`
	Mentor1       *string         `json:"mentor1,omitempty"`
	Mentor2       *string         `json:"mentor2,omitempty"`
	SheetMetadata SheetCoordinate `json:"sheet_metadata"`
}

type PreviewEvent struct {
	Stage       Stage   `json:"stage"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Date        *string `json:"date,omitempty"`
	Slot        *string `json:"slot,omitempty"`
	Room        *string `json:"room,omitempty"`
	Reviewer1   *string `json:"reviewer1,omitempty"`
	Reviewer2   *string `json:"reviewer2,omitempty"`
	CouncilCode *string `json:"council_code,omitempty"`
	Result      *string `json:"result,omitempty"`
	CanSync     bool    `json:"can_sync"`
}

type PreviewSummary struct {
	TotalEvents    int `json:"total_events"`
	SyncableEvents int `json:"syncable_events"`
}

type PreviewResult struct {
	Project PreviewProject `json:"project"`
	Events  []PreviewEvent `json:"events"`
	Summary PreviewSummary `json:"summary"`
}

type StageSyncResult struct {
	Stage         Stage      `json:"stage"`
	Status        SyncStatus `json:"status"`
	GoogleEventID *string    `json:"google_event_id,omitempty"`
	Error         string     `json:"error,omitempty"`
}

type SyncSummary struct {
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

type ProjectRef struct {
	ID          string `json:"id"`
	TopicCode   string `json:"topic_code"`
	GroupCode   string `json:"group_code"`
	TopicNameVi string `json:"topic_name_vi"`
}

type SyncReport struct {
	Project ProjectRef        `json:"project"`
	Results []StageSyncResult `json:"results"`
	Summary SyncSummary       `json:"summary"`
}

// SyncedEvent is a ProjectEvent flattened with its parent project identifiers.
type SyncedEvent struct {
	ID               string     `json:"id" csv:"id"`
	Stage            Stage      `json:"stage" csv:"stage"`
	Date             string     `json:"date,omitempty" csv:"date"`
	Slot             string     `json:"slot,omitempty" csv:"slot"`
	Room             string     `json:"room,omitempty" csv:"room"`
	CouncilCode      string     `json:"council_code,omitempty" csv:"council_code"`
	Reviewer1        string     `json:"reviewer1,omitempty" csv:"reviewer1"`
	Reviewer2        string     `json:"reviewer2,omitempty" csv:"reviewer2"`
	GoogleEventID    string     `json:"google_event_id,omitempty" csv:"google_event_id"`
	SyncStatus       SyncStatus `json:"sync_status,omitempty" csv:"sync_status"`
	LastSyncedAt     *time.Time `json:"last_synced_at,omitempty" csv:"-"`
	ProjectID        string     `json:"project_id" csv:"project_id"`
	ProjectTopicCode string     `json:"project_topic_code" csv:"project_topic_code"`
	ProjectGroupCode string     `json:"project_group_code" csv:"project_group_code"`
}

type SyncedEventList struct {
	Events       []SyncedEvent `json:"events"`
	ProjectCount int           `json:"project_count"`
	EventCount   int           `json:"event_count"`
}

type ImportedRow struct {
	RowNumber  int    `json:"row_number"`
	ProjectID  string `json:"project_id"`
	EventCount int    `json:"event_count"`
}

type ImportReport struct {
	SheetID     string        `json:"sheet_id"`
	TabName     string        `json:"tab_name"`
	Imported    []ImportedRow `json:"imported"`
	SkippedRows []int         `json:"skipped_rows,omitempty"`
}

type EventAttributeInput struct {
	Key   string  `json:"key" validate:"required"`
	Value string  `json:"value" validate:"required"`
	Role  *string `json:"role,omitempty"`
}

type EventMappingCreateRequest struct {
	SheetID    string                `json:"sheetId" validate:"required"`
	TabName    string                `json:"tabName" validate:"required"`
	RowNumber  int                   `json:"rowNumber" validate:"min=0"`
	Title      string                `json:"title" validate:"required,max=500"`
	StartTime  time.Time             `json:"startTime" validate:"required"`
	EndTime    time.Time             `json:"endTime" validate:"required,gtfield=StartTime"`
	Attributes []EventAttributeInput `json:"attributes,omitempty" validate:"omitempty,dive"`
}

type EventMappingUpdateRequest struct {
	Title         *string               `json:"title,omitempty" validate:"omitempty,min=1,max=500"`
	StartTime     *time.Time            `json:"startTime,omitempty"`
	EndTime       *time.Time            `json:"endTime,omitempty"`
	GoogleEventID *string               `json:"googleEventId,omitempty"`
	SyncStatus    *SyncStatus           `json:"syncStatus,omitempty" validate:"omitempty,oneof=pending success failed"`
	Attributes    []EventAttributeInput `json:"attributes,omitempty" validate:"omitempty,dive"`
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthResult struct {
	User   User       `json:"user"`
	Tokens AuthTokens `json:"tokens"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type MigrationStatus struct {
	Version int64 `gorm:"column:version" json:"version"`
	Dirty   bool  `gorm:"column:dirty" json:"dirty"`
}

type PoolStats struct {
	MaxOpen   int   `json:"max_open"`
	Open      int   `json:"open"`
	InUse     int   `json:"in_use"`
	Idle      int   `json:"idle"`
	WaitCount int64 `json:"wait_count"`
}

// HealthStatus is the body of /healthz. Migration is absent when the
// schema_migrations table cannot be read.
type HealthStatus struct {
	Database  string           `json:"database"`
	LatencyMs int64            `json:"latency_ms"`
	Migration *MigrationStatus `json:"migration,omitempty"`
	Pool      PoolStats        `json:"pool"`
}
