package model

type Stage string

const (
	StageRev1       Stage = "REV1"
	StageRev2       Stage = "REV2"
	StageRev3       Stage = "REV3"
	StageSupervisor Stage = "SUPERVISOR"
	StageDef1       Stage = "DEF1"
	StageDef2       Stage = "DEF2"
)

// Stages lists every milestone in lifecycle order.
var Stages = []Stage{
	StageRev1,
	StageRev2,
	StageRev3,
	StageSupervisor,
	StageDef1,
	StageDef2,
}

// DefaultSyncStages excludes SUPERVISOR, which never carries a date, slot or room.
var DefaultSyncStages = []Stage{
	StageRev1,
	StageRev2,
	StageRev3,
	StageDef1,
	StageDef2,
}

func (s Stage) Valid() bool {
	return s.Order() >= 0
}

// Order returns the lifecycle position of the stage, or -1 when unknown.
func (s Stage) Order() int {
	for i, st := range Stages {
		if st == s {
			return i
		}
	}
	return -1
}

func (s Stage) String() string {
	return string(s)
}

type SyncStatus string

const (
	SyncPending SyncStatus = "pending"
	SyncSuccess SyncStatus = "success"
	SyncFailed  SyncStatus = "failed"
)

func (s SyncStatus) Valid() bool {
	switch s {
	case SyncPending, SyncSuccess, SyncFailed:
		return true
	}
	return false
}
