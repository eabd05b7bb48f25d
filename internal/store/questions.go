package store

import (
	"context"
	"math"

	"github.com/pmclarity/clarity/internal/apiclient"
)

// Catalog returns the question catalog.
func (s *Store) Catalog() apiclient.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog
}

// ResponseByQuestionID returns the saved response for a question, or nil.
func (s *Store) ResponseByQuestionID(questionID string) *apiclient.Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	if resp, ok := s.responses[questionID]; ok {
		return &resp
	}
	return nil
}

// Responses returns a copy of the response map keyed by question ID.
func (s *Store) Responses() map[string]apiclient.Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]apiclient.Response, len(s.responses))
	for id, resp := range s.responses {
		out[id] = resp
	}
	return out
}

// ConfirmedCount counts locally confirmed responses.
func (s *Store) ConfirmedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, resp := range s.responses {
		if resp.Confirmed {
			count++
		}
	}
	return count
}

// TotalQuestions counts all questions in the catalog.
func (s *Store) TotalQuestions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, section := range s.catalog.Sections {
		for _, sub := range section.Subsections {
			count += len(sub.Questions)
		}
	}
	return count
}

// Stats returns the server-computed completion summary.
func (s *Store) Stats() apiclient.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// CompletionPercentage derives the completion percentage from the latest
// stats, rounded to the nearest integer.
func (s *Store) CompletionPercentage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stats.TotalQuestions == 0 {
		return 0
	}
	return int(math.Round(float64(s.stats.Confirmed) / float64(s.stats.TotalQuestions) * 100))
}

// FetchQuestions loads the global question catalog; the first section
// becomes active by default. Failures degrade to an empty catalog.
func (s *Store) FetchQuestions(ctx context.Context) apiclient.Catalog {
	catalog, err := s.api.GetQuestions(ctx)
	if err != nil {
		s.logger.Error("failed to fetch questions", "error", err)
		catalog = &apiclient.Catalog{}
	}

	s.mu.Lock()
	s.catalog = *catalog
	if len(s.catalog.Sections) > 0 && s.activeSection == "" {
		s.activeSection = s.catalog.Sections[0].ID
	}
	s.mu.Unlock()
	return *catalog
}

// PrefillQuestions asks the server to auto-answer questions from context,
// then reloads responses and stats.
func (s *Store) PrefillQuestions(ctx context.Context) (*apiclient.PrefillResult, error) {
	projectID, err := s.requireProject()
	if err != nil {
		return nil, err
	}

	s.setLoading(true, "prefillQuestions")
	defer s.setLoading(false, "")

	result, err := s.api.PrefillQuestions(ctx, projectID)
	if err != nil {
		s.logger.Error("failed to prefill questions", "error", err)
		message := apiclient.UserMessage(err, "Failed to prefill questions")
		if apiErr, ok := apiclient.AsError(err); ok && apiErr.Hint != "" {
			message += ". " + apiErr.Hint
		}
		s.ShowToastFor(message, ToastError, longToastDuration)
		return nil, err
	}

	s.FetchResponses(ctx)
	s.FetchStats(ctx)

	message := result.Message
	if message == "" {
		message = "Questions prefilled successfully"
	}
	s.ShowToast(message, ToastSuccess)
	return result, nil
}

// FetchResponses loads all saved responses for the current project, keyed by
// question ID for O(1) lookup. Failures degrade to an empty map.
func (s *Store) FetchResponses(ctx context.Context) map[string]apiclient.Response {
	projectID := s.currentProjectID()
	if projectID == "" {
		return map[string]apiclient.Response{}
	}

	byQuestion := map[string]apiclient.Response{}
	responses, err := s.api.GetResponses(ctx, projectID)
	if err != nil {
		s.logger.Error("failed to fetch responses", "error", err)
	} else {
		for _, resp := range responses {
			if resp.QuestionID != "" {
				byQuestion[resp.QuestionID] = resp
			}
		}
	}

	s.mu.Lock()
	s.responses = byQuestion
	s.mu.Unlock()
	return byQuestion
}

// SaveResponse persists a single response and optimistically patches the
// local map. Stats are always re-fetched afterwards to keep the completion
// percentage authoritative; the local patch may briefly disagree with the
// confirmed count until that refresh completes.
func (s *Store) SaveResponse(ctx context.Context, questionID, response string, confirmed bool) error {
	projectID, err := s.requireProject()
	if err != nil {
		return err
	}
	if questionID == "" {
		s.logger.Error("question ID is required")
		return ErrInvalidID
	}

	s.mu.Lock()
	aiSuggested := s.responses[questionID].AISuggested
	s.mu.Unlock()

	update := apiclient.Response{
		QuestionID:  questionID,
		Response:    response,
		Confirmed:   confirmed,
		AISuggested: aiSuggested,
	}
	if err := s.api.UpdateResponse(ctx, projectID, questionID, update); err != nil {
		s.failure(err, "Failed to save response")
		return err
	}

	s.mu.Lock()
	s.responses[questionID] = update
	s.mu.Unlock()

	s.FetchStats(ctx)
	return nil
}

// ConfirmResponse marks a response confirmed (or unconfirmed), patching the
// local entry and refreshing stats.
func (s *Store) ConfirmResponse(ctx context.Context, questionID string, confirmed bool) error {
	projectID, err := s.requireProject()
	if err != nil {
		return err
	}
	if questionID == "" {
		s.logger.Error("question ID is required")
		return ErrInvalidID
	}

	if err := s.api.ConfirmResponse(ctx, projectID, questionID, confirmed); err != nil {
		s.failure(err, "Failed to confirm response")
		return err
	}

	s.mu.Lock()
	if resp, ok := s.responses[questionID]; ok {
		resp.Confirmed = confirmed
		s.responses[questionID] = resp
	}
	s.mu.Unlock()

	s.FetchStats(ctx)
	return nil
}

// FetchStats loads the completion summary for the current project. Failures
// leave the previous stats in place.
func (s *Store) FetchStats(ctx context.Context) apiclient.Stats {
	projectID := s.currentProjectID()
	if projectID == "" {
		return s.Stats()
	}

	stats, err := s.api.GetStats(ctx, projectID)
	if err != nil {
		s.logger.Error("failed to fetch stats", "error", err)
		return s.Stats()
	}

	s.mu.Lock()
	s.stats = *stats
	s.mu.Unlock()
	return *stats
}

// FollowUpQuestions asks the server for adaptive follow-ups to an answer.
func (s *Store) FollowUpQuestions(ctx context.Context, questionID, response string) ([]apiclient.Question, error) {
	projectID, err := s.requireProject()
	if err != nil {
		return nil, err
	}

	questions, err := s.api.FollowUpQuestions(ctx, projectID, questionID, response)
	if err != nil {
		s.failure(err, "Failed to load follow-up questions")
		return nil, err
	}
	return questions, nil
}
