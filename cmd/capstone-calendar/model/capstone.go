package model

import (
	"sort"
	"time"
)

type CapstoneProject struct {
	ID           string         `gorm:"column:id;primaryKey" json:"id"`
	UserID       string         `gorm:"column:user_id" json:"user_id"`
	SheetID      string         `gorm:"column:sheet_id" json:"sheet_id"`
	TabName      string         `gorm:"column:tab_name" json:"tab_name"`
	RowNumber    int            `gorm:"column:row_number" json:"row_number"`
	SheetRowHash string         `gorm:"column:sheet_row_hash" json:"sheet_row_hash"`
	TopicCode    string         `gorm:"column:topic_code" json:"topic_code"`
	GroupCode    string         `gorm:"column:group_code" json:"group_code"`
	TopicNameEn  string         `gorm:"column:topic_name_en" json:"topic_name_en"`
	TopicNameVi  string         `gorm:"column:topic_name_vi" json:"topic_name_vi"`
	Mentor       string         `gorm:"column:mentor" json:"mentor"`
	Mentor1      *string        `gorm:"column:mentor1" json:"mentor1,omitempty"`
	Mentor2      *string        `gorm:"column:mentor2" json:"mentor2,omitempty"`
	CreateDate   time.Time      `gorm:"column:create_date" json:"create_date"`
	UpdateDate   time.Time      `gorm:"column:update_date" json:"update_date"`
	Events       []ProjectEvent `gorm:"foreignKey:ProjectID;references:ID" json:"events,omitempty"`
}

func (m *CapstoneProject) TableName() string {
	return "capstone_projects"
}

// SortEvents puts the project's events in stage lifecycle order.
func (m *CapstoneProject) SortEvents() {
	sort.SliceStable(m.Events, func(i, j int) bool {
		return m.Events[i].Stage.Order() < m.Events[j].Stage.Order()
	})
}

type ProjectEvent struct {
	ID                     string      `gorm:"column:id;primaryKey" json:"id"`
	ProjectID              string      `gorm:"column:project_id" json:"project_id"`
	Stage                  Stage       `gorm:"column:stage" json:"stage"`
	CouncilCode            *string     `gorm:"column:council_code" json:"council_code,omitempty"`
	Reviewer1              *string     `gorm:"column:reviewer1" json:"reviewer1,omitempty"`
	Reviewer2              *string     `gorm:"column:reviewer2" json:"reviewer2,omitempty"`
	Date                   *time.Time  `gorm:"column:date;type:date" json:"date,omitempty"`
	Slot                   *string     `gorm:"column:slot" json:"slot,omitempty"`
	Room                   *string     `gorm:"column:room" json:"room,omitempty"`
	Conflict               *bool       `gorm:"column:conflict" json:"conflict,omitempty"`
	ConflictSupervisor     *string     `gorm:"column:conflict_supervisor" json:"conflict_supervisor,omitempty"`
	MatchReview2           *string     `gorm:"column:match_review2" json:"match_review2,omitempty"`
	Conflict1              *string     `gorm:"column:conflict1" json:"conflict1,omitempty"`
	Conflict2              *string     `gorm:"column:conflict2" json:"conflict2,omitempty"`
	ReviewerCheck          *string     `gorm:"column:reviewer_check" json:"reviewer_check,omitempty"`
	DefenseList            *string     `gorm:"column:defense_list" json:"defense_list,omitempty"`
	GroupCount             *float64    `gorm:"column:group_count" json:"group_count,omitempty"`
	State                  *string     `gorm:"column:state" json:"state,omitempty"`
	Review3SupervisorDiff  *string     `gorm:"column:review3_supervisor_diff" json:"review3_supervisor_diff,omitempty"`
	SupervisorDefense1Diff *string     `gorm:"column:supervisor_defense1_diff" json:"supervisor_defense1_diff,omitempty"`
	Result                 *string     `gorm:"column:result" json:"result,omitempty"`
	Count                  *float64    `gorm:"column:count" json:"count,omitempty"`
	GoogleEventID          *string     `gorm:"column:google_event_id" json:"google_event_id,omitempty"`
	SyncStatus             *SyncStatus `gorm:"column:sync_status" json:"sync_status,omitempty"`
	LastSyncedAt           *time.Time  `gorm:"column:last_synced_at" json:"last_synced_at,omitempty"`
	CreateDate             time.Time   `gorm:"column:create_date" json:"create_date"`
	UpdateDate             time.Time   `gorm:"column:update_date" json:"update_date"`
}

func (m *ProjectEvent) TableName() string {
	return "project_events"
}

// Syncable reports whether the event has the date, slot and room a calendar
// entry needs.
func (m *ProjectEvent) Syncable() bool {
	return m.Date != nil && nonEmpty(m.Slot) && nonEmpty(m.Room)
}

// DateString returns the civil date as YYYY-MM-DD.
func (m *ProjectEvent) DateString() string {
	if m.Date == nil {
		return ""
	}
	return m.Date.Format(time.DateOnly)
}

func nonEmpty(s *string) bool {
	return s != nil && *s != ""
}
