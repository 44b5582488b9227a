package entities

// ReminderType classifies a scheduled health reminder.
type ReminderType string

const (
	ReminderTypeMedication  ReminderType = "medication"
	ReminderTypeAppointment ReminderType = "appointment"
	ReminderTypeVaccination ReminderType = "vaccination"
	ReminderTypeAnalysis    ReminderType = "analysis"
)

// Reminder is an upcoming health task for a family member.
type Reminder struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Subtitle string       `json:"subtitle"`
	Date     string       `json:"date"`
	Type     ReminderType `json:"type"`
	Urgent   bool         `json:"urgent"`
}
