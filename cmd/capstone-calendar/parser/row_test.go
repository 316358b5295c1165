package parser

import (
	"capstone-calendar-backend/cmd/capstone-calendar/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullRow() Row {
	return Row{
		"A":  1.0,
		"B":  "SP001",
		"C":  "G01",
		"D":  "Smart Parking",
		"E":  "Bãi đỗ xe thông minh",
		"G":  "Dr. Lan",
		"K":  "Mr. Hai",
		"N":  "HD01",
		"O":  3.0,
		"P":  "Reviewer A",
		"Q":  "Reviewer B",
		"R":  "yes",
		"S":  "1/22/2026",
		"T":  "Thursday",
		"U":  "2",
		"V":  "P.301",
		"W":  "Pass",
		"AP": "Approved",
		"AQ": "HD05",
		"AS": "4",
		"AW": "Ready",
	}
}

func TestParseCapstoneRow_StaticFields(t *testing.T) {
	parsed := ParseCapstoneRow(fullRow())

	assert.Equal(t, "SP001", parsed.TopicCode)
	assert.Equal(t, "G01", parsed.GroupCode)
	assert.Equal(t, "Smart Parking", parsed.TopicNameEn)
	assert.Equal(t, "Bãi đỗ xe thông minh", parsed.TopicNameVi)
	assert.Equal(t, "Dr. Lan", parsed.Mentor)
	require.NotNil(t, parsed.Mentor1)
	assert.Equal(t, "Mr. Hai", *parsed.Mentor1)
	assert.Nil(t, parsed.Mentor2)
}

func TestParseCapstoneRow_StageFields(t *testing.T) {
	parsed := ParseCapstoneRow(fullRow())

	require.Len(t, parsed.Events, 3)
	assert.Equal(t, model.StageRev1, parsed.Events[0].Stage)
	assert.Equal(t, model.StageSupervisor, parsed.Events[1].Stage)
	assert.Equal(t, model.StageDef1, parsed.Events[2].Stage)

	rev1 := parsed.Events[0]
	assert.Equal(t, ptr("HD01"), rev1.CouncilCode)
	assert.Equal(t, ptr(3.0), rev1.Count)
	assert.Equal(t, ptr("Reviewer A"), rev1.Reviewer1)
	assert.Equal(t, ptr("Reviewer B"), rev1.Reviewer2)
	assert.Equal(t, ptr(true), rev1.Conflict)
	assert.Equal(t, ptr("2026-01-22"), rev1.Date)
	assert.Equal(t, ptr("2"), rev1.Slot)
	assert.Equal(t, ptr("P.301"), rev1.Room)
	assert.Equal(t, ptr("Pass"), rev1.Result)
	assert.True(t, rev1.Syncable())

	assert.Equal(t, ptr("Approved"), parsed.Events[1].Result)
	assert.False(t, parsed.Events[1].Syncable())

	def1 := parsed.Events[2]
	assert.Equal(t, ptr("HD05"), def1.CouncilCode)
	assert.Equal(t, ptr(4.0), def1.GroupCount)
	assert.Equal(t, ptr("Ready"), def1.State)
	assert.Nil(t, def1.Date)
}

func TestParseCapstoneRow_EmptyRowHasNoEvents(t *testing.T) {
	rows := []Row{
		{},
		{"A": 5.0, "B": "SP002", "C": "G02", "D": "x", "E": "y", "F": "m"},
		{"N": "", "O": "  ", "S": nil, "AP": " ", "BH": ""},
	}

	for _, row := range rows {
		assert.Empty(t, ParseCapstoneRow(row).Events)
	}
}

func TestParseCapstoneRow_SingleFieldKeepsStage(t *testing.T) {
	layout := DefaultLayout()
	for _, st := range layout.Stages {
		for _, ref := range st.Columns {
			t.Run(string(st.Stage)+"/"+string(ref.Field), func(t *testing.T) {
				row := Row{ref.Column: sampleValue(ref.Field)}

				parsed := ParseCapstoneRow(row)

				require.Len(t, parsed.Events, 1)
				assert.Equal(t, st.Stage, parsed.Events[0].Stage)
			})
		}
	}
}

func TestParseCapstoneRow_FractionalCountKeepsStage(t *testing.T) {
	parsed := ParseCapstoneRow(Row{"AS": "2.5"})

	require.Len(t, parsed.Events, 1)
	assert.Equal(t, model.StageDef1, parsed.Events[0].Stage)
	assert.Equal(t, ptr(2.5), parsed.Events[0].GroupCount)
}

func TestParseCapstoneRow_UnparseableDateDoesNotKeepStage(t *testing.T) {
	parsed := ParseCapstoneRow(Row{"AA": "next week"})
	assert.Empty(t, parsed.Events)
}

func TestParseCapstoneRow_DayOfWeekColumnIgnored(t *testing.T) {
	parsed := ParseCapstoneRow(Row{"T": "Monday"})
	assert.Empty(t, parsed.Events)
}

func TestParseCapstoneRow_AllStagesInOrder(t *testing.T) {
	row := Row{"N": "a", "X": "b", "AF": "c", "AP": "d", "AQ": "e", "BA": "f"}

	parsed := ParseCapstoneRow(row)

	var stages []model.Stage
	for _, e := range parsed.Events {
		stages = append(stages, e.Stage)
	}
	assert.Equal(t, model.Stages, stages)
}

func TestLayout_Validate(t *testing.T) {
	require.NoError(t, DefaultLayout().Validate())

	t.Run("duplicate column", func(t *testing.T) {
		l := DefaultLayout()
		l.Stages[1].Columns[0].Column = "N"
		assert.ErrorContains(t, l.Validate(), "already mapped")
	})

	t.Run("lower case column", func(t *testing.T) {
		l := DefaultLayout()
		l.TopicCode = Sources{"b"}
		assert.ErrorContains(t, l.Validate(), "upper-case")
	})

	t.Run("invalid column", func(t *testing.T) {
		l := DefaultLayout()
		l.Mentor2 = Sources{"L1"}
		assert.Error(t, l.Validate())
	})

	t.Run("stage out of order", func(t *testing.T) {
		l := DefaultLayout()
		l.Stages[0], l.Stages[1] = l.Stages[1], l.Stages[0]
		assert.ErrorContains(t, l.Validate(), "out of order")
	})

	t.Run("unknown field", func(t *testing.T) {
		l := DefaultLayout()
		l.Stages[3].Columns = append(l.Stages[3].Columns, ColumnRef{Field: "weather", Column: "ZZ"})
		assert.ErrorContains(t, l.Validate(), "unknown field")
	})

	t.Run("missing sources", func(t *testing.T) {
		l := DefaultLayout()
		l.GroupCode = nil
		assert.ErrorContains(t, l.Validate(), "no source columns")
	})
}

func TestNew_RejectsInvalidLayout(t *testing.T) {
	l := DefaultLayout()
	l.Stages = append(l.Stages, StageLayout{Stage: model.StageRev1, Columns: []ColumnRef{{FieldResult, "CA"}}})

	p, err := New(l)
	assert.Nil(t, p)
	assert.Error(t, err)
	assert.Panics(t, func() { MustNew(l) })
}

func sampleValue(field Field) any {
	switch field {
	case FieldDate:
		return "2026-02-10"
	case FieldCount, FieldGroupCount:
		return 2.0
	case FieldConflict:
		return "no"
	}
	return "value"
}
