package entities

import (
	"time"
)

// RecordType classifies a medical record.
type RecordType string

const (
	RecordTypePrescription RecordType = "prescription"
	RecordTypeLabResult    RecordType = "lab_result"
	RecordTypeVaccination  RecordType = "vaccination"
	RecordTypeCheckup      RecordType = "checkup"
	RecordTypeSymptom      RecordType = "symptom"
	RecordTypeSurgery      RecordType = "surgery"
)

// RiskLevel is the analyzer's triage assessment of a document.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "Low"
	RiskLevelMedium RiskLevel = "Medium"
	RiskLevelHigh   RiskLevel = "High"
)

// SourceAIScanner marks records submitted by the user through the AI
// document scanner rather than entered by a clinician.
const SourceAIScanner = "user-upload/ai-scanner"

// MedicalRecord is one entry in a member's medical history. Records are
// immutable once created; pending records wait for moderator approval.
type MedicalRecord struct {
	ID         string     `json:"id"`
	Type       RecordType `json:"type"`
	Title      string     `json:"title"`
	Date       string     `json:"date"`
	Doctor     string     `json:"doctor,omitempty"`
	Summary    string     `json:"summary,omitempty"`
	ImageURL   string     `json:"image_url,omitempty"`
	AIAnalysis string     `json:"ai_analysis,omitempty"`
	RiskLevel  RiskLevel  `json:"risk_level,omitempty"`
	Relevance  string     `json:"relevance,omitempty"`
	Source     string     `json:"source,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
	IsPending  bool       `json:"is_pending"`
}

// DocumentAnalysis is the structured report returned by the document
// analyzer for a scanned medical image.
type DocumentAnalysis struct {
	Title          string    `json:"title"`
	Summary        string    `json:"summary"`
	DoctorNotes    string    `json:"doctorNotes,omitempty"`
	RiskLevel      RiskLevel `json:"riskLevel"`
	Recommendation string    `json:"recommendation"`
}
