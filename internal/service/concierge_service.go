// FILE: internal/service/concierge_service.go
// PURPOSE: The single entry point per turn. Corrects, routes, drives the
// clarification state machine, dispatches to a responder and records the
// turn. Always returns a UnifiedResponse; failures live in its metadata.

package service

import (
	"context"
	"fmt"
	"time"

	"ai-concierge-be/internal/dto"
	"ai-concierge-be/internal/pkg/apperr"
	"ai-concierge-be/internal/pkg/logger"
	"ai-concierge-be/pkg/corrector"
	"ai-concierge-be/pkg/events"
	"ai-concierge-be/pkg/language"
	"ai-concierge-be/pkg/query"
	"ai-concierge-be/pkg/responder"
	"ai-concierge-be/pkg/router"
	"ai-concierge-be/pkg/session"
)

// TurnPublisher pushes completed turns to the presentation layer.
// Best-effort: a publish failure never fails the turn.
type TurnPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type IConciergeService interface {
	Handle(ctx context.Context, request *dto.AskRequest) (*dto.AskResponse, error)
	GetHistory(ctx context.Context, sessionId string) (*dto.HistoryResponse, error)
	EndSession(ctx context.Context, sessionId string) error
}

type conciergeService struct {
	corrector  *corrector.Corrector
	detector   *language.Detector
	router     *router.Router
	sessions   session.Store
	responders map[query.ResponderName]responder.Responder
	clarifier  *responder.Clarifier
	publisher  TurnPublisher
	logger     logger.ILogger
}

func NewConciergeService(
	corr *corrector.Corrector,
	detector *language.Detector,
	rtr *router.Router,
	sessions session.Store,
	responders map[query.ResponderName]responder.Responder,
	clarifier *responder.Clarifier,
	publisher TurnPublisher,
	log logger.ILogger,
) IConciergeService {
	return &conciergeService{
		corrector:  corr,
		detector:   detector,
		router:     rtr,
		sessions:   sessions,
		responders: responders,
		clarifier:  clarifier,
		publisher:  publisher,
		logger:     log,
	}
}

func (s *conciergeService) Handle(ctx context.Context, request *dto.AskRequest) (*dto.AskResponse, error) {
	sessionId := request.SessionId

	// An explicit UI language toggle pins the session language; the pin
	// always wins over per-turn detection.
	if request.Language != "" {
		if err := s.sessions.SetPinnedLanguage(sessionId, query.Language(request.Language)); err != nil {
			s.logger.Warn("Concierge", "Failed to pin session language", map[string]interface{}{"error": err.Error()})
		}
	}

	corrected := s.corrector.Correct(request.Text)
	cq := query.CorrectedQuery{
		Query: query.Query{
			RawText:   request.Text,
			SessionID: sessionId,
			Timestamp: time.Now(),
		},
		CorrectedText: corrected,
	}

	state, err := s.sessions.Get(sessionId)
	degraded := false
	if err != nil || state == nil {
		// Store unreachable: proceed as if the session had no prior
		// context rather than failing the request.
		s.logger.Warn("Concierge", apperr.ErrSessionStoreUnavailable.Error(), map[string]interface{}{
			"session_id": sessionId,
			"error":      fmt.Sprintf("%v", err),
		})
		state = &session.State{ID: sessionId}
		degraded = true
	}

	var reply *query.UnifiedResponse
	if state.Clarification != nil {
		reply = s.resumeClarification(ctx, cq, state)
	} else {
		decision := s.router.Route(corrected, sessionId)
		reply = s.dispatch(ctx, cq, decision, state)
	}

	if degraded && reply.Metadata.Failure == "" {
		reply.Metadata.Failure = responder.FailureSessionDegraded
	}

	s.recordTurns(sessionId, request.Text, reply)
	s.publishTurn(ctx, sessionId, reply)

	return &dto.AskResponse{SessionId: sessionId, Reply: reply}, nil
}

// dispatch invokes the responder the decision names. For clarification
// decisions it emits the disambiguating question and flags the session as
// awaiting the visitor's choice.
func (s *conciergeService) dispatch(ctx context.Context, cq query.CorrectedQuery, decision query.RouteDecision, state *session.State) *query.UnifiedResponse {
	if decision.Responder == query.ResponderClarification {
		if question := s.clarifier.Question(decision.Category, decision); question != nil {
			pending := &session.Clarification{
				Category:     decision.Category,
				PendingQuery: cq.CorrectedText,
			}
			if err := s.sessions.SetClarification(cq.Query.SessionID, pending); err != nil {
				s.logger.Warn("Concierge", "Failed to flag clarification state", map[string]interface{}{"error": err.Error()})
			}
			return question
		}
		// Clarification category without a registered group: answer
		// generally instead of asking an empty question.
		decision.Responder = query.ResponderGeneral
	}

	rsp, ok := s.responders[decision.Responder]
	if !ok {
		rsp = s.responders[query.ResponderGeneral]
	}

	reply := rsp.Answer(ctx, responder.Request{
		Corrected: cq,
		Decision:  decision,
		Turns:     state.Turns,
	})

	// lastRequestType is only ever set from a non-ambiguous decision.
	if decision.RequestType != query.RequestTypeNone && !decision.Category.IsClarification() {
		if err := s.sessions.SetLastRequestType(cq.Query.SessionID, decision.RequestType); err != nil {
			s.logger.Warn("Concierge", "Failed to persist request type", map[string]interface{}{"error": err.Error()})
		}
	}

	return reply
}

// resumeClarification advances the awaiting-choice state: a matched reply
// folds the chosen entity into the pending query and re-runs the router;
// an unmatched reply re-asks once, then falls back to the general
// responder instead of looping.
func (s *conciergeService) resumeClarification(ctx context.Context, cq query.CorrectedQuery, state *session.State) *query.UnifiedResponse {
	pending := state.Clarification
	sessionId := cq.Query.SessionID

	if cand := s.clarifier.Resolve(pending.Category, cq.CorrectedText); cand != nil {
		s.clearClarification(sessionId)

		det := s.detector.Resolve(pending.PendingQuery, state.PinnedLanguage)
		folded := s.clarifier.Fold(cand, pending.PendingQuery, det.Response)
		decision := s.router.Route(folded, sessionId)

		resolved := query.CorrectedQuery{Query: cq.Query, CorrectedText: folded}
		return s.dispatch(ctx, resolved, decision, state)
	}

	if pending.Retries < s.clarifier.RetryBudget {
		pending.Retries++
		if err := s.sessions.SetClarification(sessionId, pending); err != nil {
			s.logger.Warn("Concierge", "Failed to bump clarification retries", map[string]interface{}{"error": err.Error()})
		}
		det := s.detector.Resolve(cq.CorrectedText, state.PinnedLanguage)
		return s.clarifier.ReAsk(pending.Category, query.RouteDecision{
			Responder:  query.ResponderClarification,
			Category:   pending.Category,
			Language:   det.Response,
			Confidence: 1.0,
		})
	}

	// Re-ask budget exhausted: hand the original question to the general
	// responder rather than asking a third time.
	s.logger.Warn("Concierge", apperr.ErrAmbiguityLoop.Error(), map[string]interface{}{
		"session_id":    sessionId,
		"pending_query": pending.PendingQuery,
	})
	s.clearClarification(sessionId)
	det := s.detector.Resolve(pending.PendingQuery, state.PinnedLanguage)
	decision := query.RouteDecision{
		Responder:  query.ResponderGeneral,
		Category:   query.CategoryGeneral,
		Language:   det.Response,
		Confidence: 0.3,
	}
	fallbackQuery := query.CorrectedQuery{Query: cq.Query, CorrectedText: pending.PendingQuery}
	reply := s.dispatch(ctx, fallbackQuery, decision, state)
	reply.Metadata.Failure = responder.FailureAmbiguityLoop
	return reply
}

func (s *conciergeService) clearClarification(sessionId string) {
	if err := s.sessions.SetClarification(sessionId, nil); err != nil {
		s.logger.Warn("Concierge", "Failed to clear clarification state", map[string]interface{}{"error": err.Error()})
	}
}

func (s *conciergeService) recordTurns(sessionId, rawText string, reply *query.UnifiedResponse) {
	now := time.Now()
	if err := s.sessions.RecordTurn(sessionId, session.Turn{Role: session.RoleUser, Content: rawText, Timestamp: now}); err != nil {
		s.logger.Warn("Concierge", "Failed to record user turn", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := s.sessions.RecordTurn(sessionId, session.Turn{Role: session.RoleAssistant, Content: reply.Text, Timestamp: now}); err != nil {
		s.logger.Warn("Concierge", "Failed to record assistant turn", map[string]interface{}{"error": err.Error()})
	}
}

func (s *conciergeService) publishTurn(ctx context.Context, sessionId string, reply *query.UnifiedResponse) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewTurnEvent(sessionId, reply)); err != nil {
		s.logger.Warn("Concierge", "Failed to publish turn event", map[string]interface{}{"error": err.Error()})
	}
}

func (s *conciergeService) GetHistory(ctx context.Context, sessionId string) (*dto.HistoryResponse, error) {
	state, err := s.sessions.Get(sessionId)
	if err != nil {
		return nil, err
	}
	turns := make([]dto.HistoryTurn, 0, len(state.Turns))
	for _, t := range state.Turns {
		turns = append(turns, dto.HistoryTurn{
			Role:      t.Role,
			Content:   t.Content,
			Timestamp: t.Timestamp.Format(time.RFC3339),
		})
	}
	return &dto.HistoryResponse{SessionId: sessionId, Turns: turns}, nil
}

func (s *conciergeService) EndSession(ctx context.Context, sessionId string) error {
	return s.sessions.Clear(sessionId)
}
