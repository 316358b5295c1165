package service

import (
	"capstone-calendar-backend/cmd/capstone-calendar/parser"
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// isoMillis renders instants the way stored hashes were computed: UTC with
// millisecond precision.
const isoMillis = "2006-01-02T15:04:05.000Z"

func digest(parts ...string) string {
	sum := md5.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// ProjectHash is the idempotency key of a capstone project. Only the sheet
// coordinate and static project fields take part; stage data never does.
func ProjectHash(sheetID, tabName string, rowNumber int, p parser.ParsedCapstoneProject) string {
	var mentor1, mentor2 string
	if p.Mentor1 != nil {
		mentor1 = *p.Mentor1
	}
	if p.Mentor2 != nil {
		mentor2 = *p.Mentor2
	}

	return digest(
		sheetID,
		tabName,
		strconv.Itoa(rowNumber),
		p.TopicCode,
		p.GroupCode,
		p.TopicNameEn,
		p.TopicNameVi,
		p.Mentor,
		mentor1,
		mentor2,
	)
}

// EventMappingHash keys a generic event mapping.
func EventMappingHash(sheetID, tabName string, rowNumber int, title string, start, end time.Time) string {
	return digest(
		sheetID,
		tabName,
		strconv.Itoa(rowNumber),
		title,
		start.UTC().Format(isoMillis),
		end.UTC().Format(isoMillis),
	)
}
