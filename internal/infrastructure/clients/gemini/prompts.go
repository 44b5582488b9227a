package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/umedhealth/umed-backend/internal/domain/entities"
	"github.com/umedhealth/umed-backend/internal/domain/providers"
)

const analysisPromptTemplate = `Role: You are a highly qualified medical AI assistant for a family health record application.
Context: The patient (%s) uploaded an image of a medical document or symptom.
Task: Analyze the image and prepare a structured report for a doctor.

Output JSON format (strictly clean JSON, no markdown):
{
  "title": "Short medical title (for example: Blood test: CBC)",
  "summary": "Two plain-language sentences a patient can understand.",
  "doctorNotes": "FOR THE DOCTOR: technical terms, detected pathologies or indicators needing attention (professional language).",
  "riskLevel": "Low" | "Medium" | "High",
  "recommendation": "Short next step for the patient (for example: See a cardiologist)."
}

If the image is not medical, respond with: {"error": "No medical content detected"}`

const chatPromptTemplate = `You are a professional family doctor advisor in a health record application.

Patient details: %s

User question: %s

Rules:
1. Keep the answer short and concrete.
2. For questions about serious conditions, always advise seeing a doctor.
3. Keep a friendly but professional tone.`

const insightPromptTemplate = `Analyze the following patient history and give a short trend summary: %s. Keep the answer encouraging and professional.`

func buildAnalysisPrompt(patientContext string) string {
	return fmt.Sprintf(analysisPromptTemplate, patientContext)
}

func buildChatPrompt(message, patientContext string) string {
	return fmt.Sprintf(chatPromptTemplate, patientContext, message)
}

func buildInsightPrompt(history string) string {
	return fmt.Sprintf(insightPromptTemplate, history)
}

// analysisPayload mirrors the JSON schema the model is instructed to
// return. The error field is set instead of the report when the model
// declines to analyze a non-medical image.
type analysisPayload struct {
	Title          string `json:"title"`
	Summary        string `json:"summary"`
	DoctorNotes    string `json:"doctorNotes"`
	RiskLevel      string `json:"riskLevel"`
	Recommendation string `json:"recommendation"`
	Error          string `json:"error"`
}

func parseAnalysisPayload(data []byte) (*entities.DocumentAnalysis, error) {
	var payload analysisPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse analysis payload: %w", err)
	}

	if payload.Error != "" {
		return nil, fmt.Errorf("%w: %s", providers.ErrNotMedicalDocument, payload.Error)
	}
	if payload.Title == "" {
		return nil, fmt.Errorf("analysis payload missing title")
	}

	riskLevel := entities.RiskLevel(payload.RiskLevel)
	switch riskLevel {
	case entities.RiskLevelLow, entities.RiskLevelMedium, entities.RiskLevelHigh:
	default:
		riskLevel = entities.RiskLevelLow
	}

	return &entities.DocumentAnalysis{
		Title:          payload.Title,
		Summary:        payload.Summary,
		DoctorNotes:    payload.DoctorNotes,
		RiskLevel:      riskLevel,
		Recommendation: payload.Recommendation,
	}, nil
}

// stripCodeFences removes surrounding Markdown code fences. The model is
// asked for clean JSON but is not contractually guaranteed to comply.
func stripCodeFences(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	return strings.TrimSpace(cleaned)
}
