package parser

import (
	"capstone-calendar-backend/cmd/capstone-calendar/model"
	"fmt"
	"strings"
)

// GenerateEventTitle formats "[STAGE] groupCode - topicCode".
func GenerateEventTitle(stage model.Stage, groupCode, topicCode string) string {
	return fmt.Sprintf("[%s] %s - %s", stage, groupCode, topicCode)
}

// GenerateEventDescription lists topic and code, then whichever of mentor,
// room, slot, reviewers, result and council are present, one per line.
func GenerateEventDescription(project ParsedCapstoneProject, event ParsedProjectEvent) string {
	lines := []string{
		"Topic: " + project.TopicNameVi,
		"Code: " + project.TopicCode,
	}

	if project.Mentor != "" {
		lines = append(lines, "Mentor: "+project.Mentor)
	}
	if v := deref(event.Room); v != "" {
		lines = append(lines, "Room: "+v)
	}
	if v := deref(event.Slot); v != "" {
		lines = append(lines, "Slot: "+v)
	}

	var reviewers []string
	for _, r := range []*string{event.Reviewer1, event.Reviewer2} {
		if v := deref(r); v != "" {
			reviewers = append(reviewers, v)
		}
	}
	if len(reviewers) > 0 {
		lines = append(lines, "Reviewers: "+strings.Join(reviewers, ", "))
	}

	if v := deref(event.Result); v != "" {
		lines = append(lines, "Result: "+v)
	}
	if v := deref(event.CouncilCode); v != "" {
		lines = append(lines, "Council: "+v)
	}

	return strings.Join(lines, "\n")
}
