package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/umedhealth/umed-backend/internal/domain/entities"
	"github.com/umedhealth/umed-backend/internal/domain/providers"
	"github.com/umedhealth/umed-backend/internal/domain/repositories"
	"github.com/umedhealth/umed-backend/internal/infrastructure/observability"
	apperrors "github.com/umedhealth/umed-backend/pkg/errors"
)

// ScanState is the position of a scan session in the ingestion pipeline.
type ScanState string

const (
	ScanStateCapture   ScanState = "capture"
	ScanStateReview    ScanState = "review"
	ScanStateAnalyzing ScanState = "analyzing"
	ScanStateResult    ScanState = "result"
	ScanStateCommitted ScanState = "committed"
	ScanStateCancelled ScanState = "cancelled"
)

// ScanSession is the externally visible snapshot of one ingestion session.
type ScanSession struct {
	ID        string                     `json:"id"`
	MemberID  string                     `json:"member_id"`
	State     ScanState                  `json:"state"`
	Analysis  *entities.DocumentAnalysis `json:"analysis,omitempty"`
	RecordID  string                     `json:"record_id,omitempty"`
	CreatedAt time.Time                  `json:"created_at"`
	UpdatedAt time.Time                  `json:"updated_at"`
}

type scanSession struct {
	ScanSession

	imageBase64 string
	imageURL    string

	// attempt invalidates in-flight analyzer calls: it bumps on every
	// analyze and cancel, and a response is only applied when the
	// attempt it was issued under is still current.
	attempt int
}

// InsightInvalidator drops derived insight state for a member whose
// record history changed.
type InsightInvalidator interface {
	InvalidateMember(ctx context.Context, memberID string)
}

// ScanService drives the document ingestion pipeline: capture → review →
// analyzing → result → committed, with cancel discarding all transient
// state. Each session owns its state; the family store is only touched
// on the final save.
type ScanService struct {
	mu       sync.Mutex
	sessions map[string]*scanSession

	repo          repositories.FamilyRepository
	analyzer      providers.DocumentAnalyzer
	notifications *NotificationService
	metrics       *observability.Metrics
	insights      InsightInvalidator
}

// NewScanService creates a new scan service. notifications, metrics and
// insights may be nil.
func NewScanService(
	repo repositories.FamilyRepository,
	analyzer providers.DocumentAnalyzer,
	notifications *NotificationService,
	metrics *observability.Metrics,
	insights InsightInvalidator,
) *ScanService {
	return &ScanService{
		sessions:      make(map[string]*scanSession),
		repo:          repo,
		analyzer:      analyzer,
		notifications: notifications,
		metrics:       metrics,
		insights:      insights,
	}
}

// StartScan opens a new ingestion session for a member.
func (s *ScanService) StartScan(ctx context.Context, memberID string) (*ScanSession, error) {
	if _, err := s.repo.GetMember(ctx, memberID); err != nil {
		return nil, err
	}

	now := time.Now()
	session := &scanSession{
		ScanSession: ScanSession{
			ID:        uuid.New().String(),
			MemberID:  memberID,
			State:     ScanStateCapture,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	return session.snapshot(), nil
}

// GetSession returns the current state of a session.
func (s *ScanService) GetSession(ctx context.Context, sessionID string) (*ScanSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, apperrors.NewNotFoundError("scan session not found: " + sessionID)
	}
	return session.snapshot(), nil
}

// AttachImage moves the session from capture to review. imageData may be
// a bare base64 payload or a data URL; any transport framing prefix is
// stripped before the payload is stored. Re-attaching from review
// replaces the image (retake).
func (s *ScanService) AttachImage(ctx context.Context, sessionID string, imageData string) (*ScanSession, error) {
	imageData = strings.TrimSpace(imageData)
	if imageData == "" {
		return nil, apperrors.NewValidationError("image data is required")
	}

	payload := imageData
	if strings.HasPrefix(imageData, "data:") {
		idx := strings.Index(imageData, ",")
		if idx < 0 || idx == len(imageData)-1 {
			return nil, apperrors.NewValidationError("malformed data URL")
		}
		payload = imageData[idx+1:]
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, apperrors.NewNotFoundError("scan session not found: " + sessionID)
	}
	if session.State != ScanStateCapture && session.State != ScanStateReview {
		return nil, apperrors.NewConflictError("cannot attach image in state: " + string(session.State))
	}

	session.imageBase64 = payload
	session.imageURL = imageData
	session.State = ScanStateReview
	session.UpdatedAt = time.Now()

	return session.snapshot(), nil
}

// Analyze confirms the image and runs it through the document analyzer.
// Only one analysis may be outstanding per session. On analyzer failure
// the session returns to review so the user can retry; the store is
// never touched. A response that arrives after the session was cancelled
// is discarded.
func (s *ScanService) Analyze(ctx context.Context, sessionID string) (*ScanSession, error) {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, apperrors.NewNotFoundError("scan session not found: " + sessionID)
	}
	if session.State == ScanStateAnalyzing {
		s.mu.Unlock()
		return nil, apperrors.NewConflictError("analysis already in progress")
	}
	if session.State != ScanStateReview {
		s.mu.Unlock()
		return nil, apperrors.NewConflictError("cannot analyze in state: " + string(session.State))
	}

	memberID := session.MemberID
	image := session.imageBase64
	session.State = ScanStateAnalyzing
	session.UpdatedAt = time.Now()
	session.attempt++
	attempt := session.attempt
	s.mu.Unlock()

	member, err := s.repo.GetMember(ctx, memberID)
	if err != nil {
		s.finishAnalysis(ctx, sessionID, attempt, nil)
		return nil, err
	}

	patientContext := fmt.Sprintf("Name: %s, Age: %d", member.Name, member.Age)

	// The analyzer call runs without the session lock so cancellation
	// stays possible mid-flight.
	analysis, analyzeErr := s.analyzer.AnalyzeDocument(ctx, image, patientContext)
	if analyzeErr != nil {
		analysis = nil
	}

	snapshot, applyErr := s.finishAnalysis(ctx, sessionID, attempt, analysis)
	if applyErr != nil {
		return nil, applyErr
	}
	if analyzeErr != nil {
		return snapshot, apperrors.NewAnalysisError("document analysis failed", analyzeErr)
	}
	return snapshot, nil
}

// finishAnalysis folds an analyzer outcome back into the session, unless
// the session was cancelled or restarted while the call was in flight.
func (s *ScanService) finishAnalysis(ctx context.Context, sessionID string, attempt int, analysis *entities.DocumentAnalysis) (*ScanSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok || session.attempt != attempt || session.State != ScanStateAnalyzing {
		// Late response for a session that moved on; drop it.
		observability.LoggerFromContext(ctx).Debug().
			Str("session_id", sessionID).
			Msg("discarding stale analysis response")
		return nil, apperrors.NewConflictError("scan session is no longer active")
	}

	session.UpdatedAt = time.Now()
	if analysis == nil {
		session.State = ScanStateReview
		session.Analysis = nil
		if s.metrics != nil {
			observability.RecordScanOutcome(ctx, s.metrics, "analysis_failed")
		}
	} else {
		session.State = ScanStateResult
		session.Analysis = analysis
	}
	return session.snapshot(), nil
}

// Save commits the analysis as a new pending medical record, prepended
// to the member's history. The transition is terminal: saving an already
// committed session returns the existing state without creating a
// duplicate record.
func (s *ScanService) Save(ctx context.Context, sessionID string) (*ScanSession, error) {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, apperrors.NewNotFoundError("scan session not found: " + sessionID)
	}
	if session.State == ScanStateCommitted {
		snapshot := session.snapshot()
		s.mu.Unlock()
		return snapshot, nil
	}
	if session.State != ScanStateResult {
		s.mu.Unlock()
		return nil, apperrors.NewConflictError("cannot save in state: " + string(session.State))
	}

	analysis := *session.Analysis
	memberID := session.MemberID
	imageURL := session.imageURL
	s.mu.Unlock()

	member, err := s.repo.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	doctor := "unknown"
	if analysis.DoctorNotes != "" {
		doctor = "AI assistant"
	}

	rawAnalysis, _ := json.Marshal(analysis)
	now := time.Now()

	record := entities.MedicalRecord{
		ID:         uuid.New().String(),
		Type:       entities.RecordTypeLabResult,
		Title:      analysis.Title,
		Date:       now.Format("2006-01-02"),
		Doctor:     doctor,
		Summary:    analysis.Summary,
		ImageURL:   imageURL,
		AIAnalysis: string(rawAnalysis),
		RiskLevel:  analysis.RiskLevel,
		Relevance:  analysis.Recommendation,
		Source:     entities.SourceAIScanner,
		CreatedAt:  &now,
		IsPending:  true,
	}

	records := make([]entities.MedicalRecord, 0, len(member.Records)+1)
	records = append(records, record)
	records = append(records, member.Records...)

	if err := s.repo.ReplaceMemberRecords(ctx, memberID, records); err != nil {
		return nil, err
	}

	s.mu.Lock()
	session, ok = s.sessions[sessionID]
	if ok {
		session.State = ScanStateCommitted
		session.RecordID = record.ID
		session.UpdatedAt = time.Now()
	}
	var snapshot *ScanSession
	if ok {
		snapshot = session.snapshot()
	}
	s.mu.Unlock()

	if s.metrics != nil {
		observability.RecordScanOutcome(ctx, s.metrics, "committed")
	}
	if s.insights != nil {
		s.insights.InvalidateMember(ctx, memberID)
	}
	if s.notifications != nil {
		s.notifications.Add(ctx, &entities.Notification{
			Type:     entities.NotificationTypeAnalysis,
			Title:    "Scan saved",
			Message:  "A scanned document for " + member.Name + " is waiting for specialist review.",
			IsUnread: true,
		})
	}

	observability.LoggerFromContext(ctx).Info().
		Str("member_id", memberID).
		Str("record_id", record.ID).
		Msg("scanned record committed")

	if snapshot == nil {
		return nil, apperrors.NewConflictError("scan session is no longer active")
	}
	return snapshot, nil
}

// Cancel abandons the session and discards all transient state. Allowed
// from capture, review and analyzing; an analyzer response still in
// flight becomes inert. The session is removed from the service, so
// committed sessions are the only ones retained for the process
// lifetime.
func (s *ScanService) Cancel(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return apperrors.NewNotFoundError("scan session not found: " + sessionID)
	}

	switch session.State {
	case ScanStateCapture, ScanStateReview, ScanStateAnalyzing:
	default:
		return apperrors.NewConflictError("cannot cancel in state: " + string(session.State))
	}

	delete(s.sessions, sessionID)

	if s.metrics != nil {
		observability.RecordScanOutcome(ctx, s.metrics, "cancelled")
	}
	return nil
}

func (ss *scanSession) snapshot() *ScanSession {
	out := ss.ScanSession
	if ss.Analysis != nil {
		analysis := *ss.Analysis
		out.Analysis = &analysis
	}
	return &out
}
