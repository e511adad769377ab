package services

import (
	"strings"

	"github.com/justsurfingit/jobseeker-portal/internal/models"
)

// AssistantTrigger is the literal tag that summons the assistant in chat.
const AssistantTrigger = "@AI"

// MentionsAssistant is a case-sensitive substring check, so "@ai" does not count.
func MentionsAssistant(text string) bool {
	return strings.Contains(text, AssistantTrigger)
}

// MatchesJobQuery filters the offline catalogue. An empty filter matches
// everything; otherwise it is a case-insensitive substring match.
func MatchesJobQuery(job models.Job, title, location string) bool {
	titleOK := title == "" || strings.Contains(strings.ToLower(job.Title), strings.ToLower(title))
	locationOK := location == "" || strings.Contains(strings.ToLower(job.Location), strings.ToLower(location))
	return titleOK && locationOK
}
