package events

import "strconv"

const (
	SubjectRescoreStarted   = "auricite.rescore.started"
	SubjectRescoreCompleted = "auricite.rescore.completed"

	// SubjectConfigAll matches every configuration lifecycle subject;
	// instances subscribe to it to drop their local caches.
	SubjectConfigAll = "auricite.config.>"

	StreamName   = "AURICITE_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

func SubjectAssessmentCreated(id string) string { return "auricite.assessment." + id + ".created" }
func SubjectAssessmentScored(id string) string  { return "auricite.assessment." + id + ".scored" }
func SubjectAssessmentRescored(id string) string {
	return "auricite.assessment." + id + ".rescored"
}

func SubjectConfigCreated(version int) string {
	return "auricite.config." + strconv.Itoa(version) + ".created"
}
func SubjectConfigActivated(version int) string {
	return "auricite.config." + strconv.Itoa(version) + ".activated"
}
func SubjectConfigReverted(version int) string {
	return "auricite.config." + strconv.Itoa(version) + ".reverted"
}
