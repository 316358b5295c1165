package parser

import (
	"capstone-calendar-backend/cmd/capstone-calendar/model"
	"fmt"
)

type ParsedCapstoneProject struct {
	TopicCode   string
	GroupCode   string
	TopicNameEn string
	TopicNameVi string
	Mentor      string
	Mentor1     *string
	Mentor2     *string
	Events      []ParsedProjectEvent
}

// ParsedProjectEvent holds one stage block of the row. Date is an ISO
// YYYY-MM-DD string.
type ParsedProjectEvent struct {
	Stage                  model.Stage
	CouncilCode            *string
	Reviewer1              *string
	Reviewer2              *string
	Date                   *string
	Slot                   *string
	Room                   *string
	Conflict               *bool
	ConflictSupervisor     *string
	MatchReview2           *string
	Conflict1              *string
	Conflict2              *string
	ReviewerCheck          *string
	DefenseList            *string
	GroupCount             *float64
	State                  *string
	Review3SupervisorDiff  *string
	SupervisorDefense1Diff *string
	Result                 *string
	Count                  *float64
}

// HasData reports whether any field other than the stage label is set.
func (e ParsedProjectEvent) HasData() bool {
	strs := []*string{
		e.CouncilCode, e.Reviewer1, e.Reviewer2, e.Date, e.Slot, e.Room,
		e.ConflictSupervisor, e.MatchReview2, e.Conflict1, e.Conflict2,
		e.ReviewerCheck, e.DefenseList, e.State, e.Review3SupervisorDiff,
		e.SupervisorDefense1Diff, e.Result,
	}
	for _, s := range strs {
		if s != nil && *s != "" {
			return true
		}
	}
	return e.Conflict != nil || e.GroupCount != nil || e.Count != nil
}

// Syncable mirrors model.ProjectEvent.Syncable for parsed data.
func (e ParsedProjectEvent) Syncable() bool {
	return e.Date != nil && e.Slot != nil && *e.Slot != "" && e.Room != nil && *e.Room != ""
}

func (e *ParsedProjectEvent) set(field Field, v any) {
	switch field {
	case FieldCouncilCode:
		e.CouncilCode = ParseString(v)
	case FieldReviewer1:
		e.Reviewer1 = ParseString(v)
	case FieldReviewer2:
		e.Reviewer2 = ParseString(v)
	case FieldDate:
		e.Date = ParseDate(v)
	case FieldSlot:
		e.Slot = ParseString(v)
	case FieldRoom:
		e.Room = ParseString(v)
	case FieldConflict:
		e.Conflict = ParseBoolean(v)
	case FieldConflictSupervisor:
		e.ConflictSupervisor = ParseString(v)
	case FieldMatchReview2:
		e.MatchReview2 = ParseString(v)
	case FieldConflict1:
		e.Conflict1 = ParseString(v)
	case FieldConflict2:
		e.Conflict2 = ParseString(v)
	case FieldReviewerCheck:
		e.ReviewerCheck = ParseString(v)
	case FieldDefenseList:
		e.DefenseList = ParseString(v)
	case FieldGroupCount:
		e.GroupCount = ParseNumber(v)
	case FieldState:
		e.State = ParseString(v)
	case FieldReview3SupervisorDiff:
		e.Review3SupervisorDiff = ParseString(v)
	case FieldSupervisorDefense1Diff:
		e.SupervisorDefense1Diff = ParseString(v)
	case FieldResult:
		e.Result = ParseString(v)
	case FieldCount:
		e.Count = ParseNumber(v)
	}
}

// RowParser turns a wide sheet row into a ParsedCapstoneProject using a
// validated Layout. It never fails on cell content.
type RowParser struct {
	layout Layout
}

func New(layout Layout) (*RowParser, error) {
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("invalid column layout: %w", err)
	}
	return &RowParser{layout: layout}, nil
}

func MustNew(layout Layout) *RowParser {
	p, err := New(layout)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *RowParser) Parse(row Row) ParsedCapstoneProject {
	l := p.layout
	project := ParsedCapstoneProject{
		TopicCode:   deref(row.FirstNonEmpty(l.TopicCode)),
		GroupCode:   deref(row.FirstNonEmpty(l.GroupCode)),
		TopicNameEn: deref(row.FirstNonEmpty(l.TopicNameEn)),
		TopicNameVi: deref(row.FirstNonEmpty(l.TopicNameVi)),
		Mentor:      deref(row.FirstNonEmpty(l.Mentor)),
		Mentor1:     row.FirstNonEmpty(l.Mentor1),
		Mentor2:     row.FirstNonEmpty(l.Mentor2),
	}

	for _, st := range l.Stages {
		event := ParsedProjectEvent{Stage: st.Stage}
		for _, ref := range st.Columns {
			event.set(ref.Field, row.Cell(ref.Column))
		}
		if event.HasData() {
			project.Events = append(project.Events, event)
		}
	}
	return project
}

var defaultParser = MustNew(DefaultLayout())

// ParseCapstoneRow parses row with the default master-sheet layout.
func ParseCapstoneRow(row Row) ParsedCapstoneProject {
	return defaultParser.Parse(row)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
