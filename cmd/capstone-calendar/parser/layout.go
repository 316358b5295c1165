package parser

import (
	"capstone-calendar-backend/cmd/capstone-calendar/model"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Field names one data field of a stage event.
type Field string

const (
	FieldCouncilCode            Field = "councilCode"
	FieldReviewer1              Field = "reviewer1"
	FieldReviewer2              Field = "reviewer2"
	FieldDate                   Field = "date"
	FieldSlot                   Field = "slot"
	FieldRoom                   Field = "room"
	FieldConflict               Field = "conflict"
	FieldConflictSupervisor     Field = "conflictSupervisor"
	FieldMatchReview2           Field = "matchReview2"
	FieldConflict1              Field = "conflict1"
	FieldConflict2              Field = "conflict2"
	FieldReviewerCheck          Field = "reviewerCheck"
	FieldDefenseList            Field = "defenseList"
	FieldGroupCount             Field = "groupCount"
	FieldState                  Field = "state"
	FieldReview3SupervisorDiff  Field = "review3SupervisorDiff"
	FieldSupervisorDefense1Diff Field = "supervisorDefense1Diff"
	FieldResult                 Field = "result"
	FieldCount                  Field = "count"
)

// ColumnRef binds a field to the spreadsheet column it is read from.
type ColumnRef struct {
	Field  Field
	Column string
}

type StageLayout struct {
	Stage   model.Stage
	Columns []ColumnRef
}

// Layout is the positional column map of the master sheet.
type Layout struct {
	TopicCode   Sources
	GroupCode   Sources
	TopicNameEn Sources
	TopicNameVi Sources
	Mentor      Sources
	Mentor1     Sources
	Mentor2     Sources
	Stages      []StageLayout
}

// DefaultLayout describes the capstone master sheet: column A is the row
// index, B..M carry project data, and six stage blocks follow from N to BH.
// Column T (day of week) is redundant and not read.
func DefaultLayout() Layout {
	return Layout{
		TopicCode:   Sources{"B"},
		GroupCode:   Sources{"C"},
		TopicNameEn: Sources{"D"},
		TopicNameVi: Sources{"E"},
		Mentor:      Sources{"F", "G", "H", "I"},
		Mentor1:     Sources{"J", "K"},
		Mentor2:     Sources{"L", "M"},
		Stages: []StageLayout{
			{Stage: model.StageRev1, Columns: []ColumnRef{
				{FieldCouncilCode, "N"},
				{FieldCount, "O"},
				{FieldReviewer1, "P"},
				{FieldReviewer2, "Q"},
				{FieldConflict, "R"},
				{FieldDate, "S"},
				{FieldSlot, "U"},
				{FieldRoom, "V"},
				{FieldResult, "W"},
			}},
			{Stage: model.StageRev2, Columns: []ColumnRef{
				{FieldCouncilCode, "X"},
				{FieldReviewer1, "Y"},
				{FieldReviewer2, "Z"},
				{FieldDate, "AA"},
				{FieldSlot, "AB"},
				{FieldRoom, "AC"},
				{FieldCount, "AD"},
				{FieldResult, "AE"},
			}},
			{Stage: model.StageRev3, Columns: []ColumnRef{
				{FieldCouncilCode, "AF"},
				{FieldCount, "AG"},
				{FieldReviewer1, "AH"},
				{FieldReviewer2, "AI"},
				{FieldConflictSupervisor, "AJ"},
				{FieldMatchReview2, "AK"},
				{FieldDate, "AL"},
				{FieldSlot, "AM"},
				{FieldRoom, "AN"},
				{FieldResult, "AO"},
			}},
			{Stage: model.StageSupervisor, Columns: []ColumnRef{
				{FieldResult, "AP"},
			}},
			{Stage: model.StageDef1, Columns: []ColumnRef{
				{FieldCouncilCode, "AQ"},
				{FieldDefenseList, "AR"},
				{FieldGroupCount, "AS"},
				{FieldConflict1, "AT"},
				{FieldConflict2, "AU"},
				{FieldReviewerCheck, "AV"},
				{FieldState, "AW"},
				{FieldResult, "AX"},
				{FieldReview3SupervisorDiff, "AY"},
				{FieldSupervisorDefense1Diff, "AZ"},
			}},
			{Stage: model.StageDef2, Columns: []ColumnRef{
				{FieldCouncilCode, "BA"},
				{FieldDefenseList, "BB"},
				{FieldGroupCount, "BC"},
				{FieldConflict1, "BD"},
				{FieldConflict2, "BE"},
				{FieldReviewerCheck, "BF"},
				{FieldState, "BG"},
				{FieldResult, "BH"},
			}},
		},
	}
}

var knownFields = map[Field]bool{
	FieldCouncilCode:            true,
	FieldReviewer1:              true,
	FieldReviewer2:              true,
	FieldDate:                   true,
	FieldSlot:                   true,
	FieldRoom:                   true,
	FieldConflict:               true,
	FieldConflictSupervisor:     true,
	FieldMatchReview2:           true,
	FieldConflict1:              true,
	FieldConflict2:              true,
	FieldReviewerCheck:          true,
	FieldDefenseList:            true,
	FieldGroupCount:             true,
	FieldState:                  true,
	FieldReview3SupervisorDiff:  true,
	FieldSupervisorDefense1Diff: true,
	FieldResult:                 true,
	FieldCount:                  true,
}

// Validate checks that every column is a real upper-case column name, that no
// column is read twice, and that stages appear once each in lifecycle order.
func (l Layout) Validate() error {
	var errs []error
	claimed := make(map[string]string)

	claim := func(owner, column string) {
		if column == "" || column != strings.ToUpper(column) {
			errs = append(errs, fmt.Errorf("%s: column %q must be an upper-case column name", owner, column))
			return
		}
		if _, err := excelize.ColumnNameToNumber(column); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", owner, err))
			return
		}
		if prev, ok := claimed[column]; ok {
			errs = append(errs, fmt.Errorf("%s: column %s already mapped to %s", owner, column, prev))
			return
		}
		claimed[column] = owner
	}

	statics := []struct {
		name    string
		sources Sources
	}{
		{"topicCode", l.TopicCode},
		{"groupCode", l.GroupCode},
		{"topicNameEn", l.TopicNameEn},
		{"topicNameVi", l.TopicNameVi},
		{"mentor", l.Mentor},
		{"mentor1", l.Mentor1},
		{"mentor2", l.Mentor2},
	}
	for _, s := range statics {
		if len(s.sources) == 0 {
			errs = append(errs, fmt.Errorf("%s: no source columns", s.name))
		}
		for _, column := range s.sources {
			claim(s.name, column)
		}
	}

	last := -1
	for _, st := range l.Stages {
		order := st.Stage.Order()
		if order < 0 {
			errs = append(errs, fmt.Errorf("unknown stage %q", st.Stage))
			continue
		}
		if order <= last {
			errs = append(errs, fmt.Errorf("stage %s is duplicated or out of order", st.Stage))
		}
		last = order

		if len(st.Columns) == 0 {
			errs = append(errs, fmt.Errorf("stage %s has no columns", st.Stage))
		}
		seen := make(map[Field]bool)
		for _, ref := range st.Columns {
			owner := fmt.Sprintf("%s.%s", st.Stage, ref.Field)
			if !knownFields[ref.Field] {
				errs = append(errs, fmt.Errorf("%s: unknown field", owner))
				continue
			}
			if seen[ref.Field] {
				errs = append(errs, fmt.Errorf("%s: field mapped twice", owner))
				continue
			}
			seen[ref.Field] = true
			claim(owner, ref.Column)
		}
	}

	return errors.Join(errs...)
}
