package interview

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"interview-alchemist/internal/evaluator"
	"interview-alchemist/internal/events"
	"interview-alchemist/internal/feedback"
	"interview-alchemist/internal/generator"
	"interview-alchemist/internal/llm"
	"interview-alchemist/internal/metrics"
	"interview-alchemist/internal/models"
	"interview-alchemist/internal/repositories"
)

const (
	msgNotFound         = "Interview not found"
	msgQuestionNotFound = "Question not found"
	msgGeneration       = "Failed to generate questions"
	msgEvaluation       = "Failed to evaluate answer"
	msgMalformed        = "Could not read the evaluation returned by the model"
	msgRateLimited      = "The AI provider is busy, try again shortly"
	msgNotCreated       = "Interview could not be created"
	msgUnavailable      = "Interview storage is unavailable"
)

// Caller is the authenticated identity on whose behalf an operation runs
type Caller struct {
	UserID string
	Admin  bool
}

type QuestionGenerator interface {
	Generate(ctx context.Context, requestID string, p generator.Params) ([]string, error)
}

type AnswerEvaluator interface {
	Evaluate(ctx context.Context, requestID, question, answer string) (*evaluator.Evaluation, error)
}

// Controller owns the session lifecycle: creation, answering, completion and reads
type Controller struct {
	store     repositories.InterviewStore
	generator QuestionGenerator
	evaluator AnswerEvaluator
	publisher events.Publisher
	feedback  feedback.Recorder
	logger    *zap.Logger
	pageSize  int
	now       func() time.Time
}

type Option func(*Controller)

func WithPublisher(p events.Publisher) Option {
	return func(c *Controller) { c.publisher = p }
}

// WithFeedback caches evaluated exchanges so candidates can rate them
func WithFeedback(r feedback.Recorder) Option {
	return func(c *Controller) { c.feedback = r }
}

func WithPageSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func New(store repositories.InterviewStore, gen QuestionGenerator, eval AnswerEvaluator, logger *zap.Logger, opts ...Option) *Controller {
	c := &Controller{
		store:     store,
		generator: gen,
		evaluator: eval,
		publisher: events.NopPublisher{},
		logger:    logger,
		pageSize:  2,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) PageSize() int { return c.pageSize }

// Create generates the questions and stores a new pending session
func (c *Controller) Create(ctx context.Context, caller Caller, req *models.CreateInterviewRequest) (*models.Interview, error) {
	if !caller.Admin || req.User == "" {
		req.User = caller.UserID
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	requestID := uuid.New().String()
	questions, err := c.generator.Generate(ctx, requestID, generator.Params{
		Industry:        req.Industry,
		Topic:           req.Topic,
		Type:            req.Type,
		Role:            req.Role,
		Difficulty:      req.Difficulty,
		Count:           req.NumOfQuestions,
		DurationMinutes: req.Duration,
	})
	if err != nil {
		c.logger.Error("question generation failed",
			zap.String("request_id", requestID),
			zap.String("user", req.User),
			zap.Error(err))
		return nil, providerError(err, models.KindGeneration, msgGeneration)
	}

	iv, err := c.store.Create(ctx, models.NewInterview(req, questions, c.now()))
	if err != nil {
		c.logger.Error("failed to persist interview", zap.String("request_id", requestID), zap.Error(err))
		return nil, models.NewAppError(models.KindNotCreated, msgNotCreated, err)
	}

	metrics.InterviewCreated(iv.Industry, iv.Difficulty)
	c.logger.Info("interview created",
		zap.String("interview_id", iv.ID.Hex()),
		zap.String("user", iv.User),
		zap.Int("questions", len(iv.Questions)))
	return iv, nil
}

// SubmitAnswer records an answer and/or the client's remaining time and
// completes the session when the transition rule says so.
func (c *Controller) SubmitAnswer(ctx context.Context, caller Caller, req *models.SubmitAnswerRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	iv, err := c.load(ctx, caller, req.SessionID)
	if err != nil {
		return err
	}
	if iv.IsCompleted() {
		metrics.AnswerSubmitted(metrics.OutcomeIgnored)
		return nil
	}

	outcome := metrics.OutcomeTimerOnly
	answered := iv.Answered
	if req.AnswerText != "" {
		q, ok := iv.FindQuestion(req.QuestionID)
		if !ok {
			return models.NotFoundError(msgQuestionNotFound)
		}

		result := models.PassResult()
		outcome = metrics.OutcomePassed
		if !req.IsPass() {
			result, err = c.evaluate(ctx, iv, q, req.AnswerText)
			if err != nil {
				metrics.AnswerSubmitted(metrics.OutcomeFailed)
				return err
			}
			outcome = metrics.OutcomeEvaluated
		}

		updated, _, err := c.store.ApplyAnswer(ctx, req.SessionID, repositories.AnswerUpdate{
			QuestionID: req.QuestionID,
			Answer:     req.AnswerText,
			Result:     result,
		}, c.now())
		switch {
		case errors.Is(err, repositories.ErrSessionCompleted):
			// completed by a concurrent request while we were grading
			metrics.AnswerSubmitted(metrics.OutcomeIgnored)
			return nil
		case err != nil:
			return c.storeError(err)
		}
		answered = updated.Answered
	}

	remaining := *req.RemainingSeconds
	progress := repositories.ProgressUpdate{DurationLeft: remaining}
	trigger := ""
	switch {
	case answered >= len(iv.Questions):
		trigger = metrics.TriggerAllAnswered
	case remaining == 0:
		trigger = metrics.TriggerTimeout
	case req.Completed:
		trigger = metrics.TriggerForced
	}
	progress.Complete = trigger != ""

	updated, completedNow, err := c.store.UpdateProgress(ctx, req.SessionID, progress, c.now())
	if err != nil {
		return c.storeError(err)
	}
	metrics.AnswerSubmitted(outcome)

	if completedNow {
		metrics.InterviewCompleted(trigger)
		c.publishCompleted(ctx, updated, trigger)
	}
	return nil
}

func (c *Controller) evaluate(ctx context.Context, iv *models.Interview, q *models.Question, answer string) (models.Result, error) {
	key := models.FeedbackKey(iv.ID.Hex(), q.ID.Hex())
	eval, err := c.evaluator.Evaluate(ctx, key, q.Question, answer)
	if err != nil {
		c.logger.Error("answer evaluation failed",
			zap.String("interview_id", iv.ID.Hex()),
			zap.String("question_id", q.ID.Hex()),
			zap.Error(err))
		if errors.Is(err, evaluator.ErrMalformedResponse) {
			return models.Result{}, models.NewAppError(models.KindMalformedResponse, msgMalformed, err)
		}
		return models.Result{}, providerError(err, models.KindEvaluation, msgEvaluation)
	}

	if c.feedback != nil {
		c.feedback.StoreRequestContext(&models.RequestContext{
			RequestID:    key,
			RequestType:  "evaluation",
			InterviewID:  iv.ID.Hex(),
			QuestionID:   q.ID.Hex(),
			Prompt:       eval.Prompt,
			Response:     eval.RawResponse,
			ModelVersion: eval.ModelVersion,
			Timestamp:    c.now(),
		})
	}
	return eval.Result, nil
}

func (c *Controller) publishCompleted(ctx context.Context, iv *models.Interview, trigger string) {
	evt := events.InterviewCompleted{
		InterviewID:    iv.ID.Hex(),
		User:           iv.User,
		NumOfQuestions: iv.NumOfQuestions,
		Answered:       iv.Answered,
		AverageScore:   iv.AverageScore(),
		Trigger:        trigger,
		CompletedAt:    iv.UpdatedAt,
	}
	if err := c.publisher.PublishCompleted(ctx, evt); err != nil {
		c.logger.Warn("failed to publish completion event",
			zap.String("interview_id", evt.InterviewID),
			zap.Error(err))
		return
	}
	c.logger.Info("interview completed",
		zap.String("interview_id", evt.InterviewID),
		zap.String("trigger", trigger),
		zap.Int("answered", evt.Answered))
}

func (c *Controller) Get(ctx context.Context, caller Caller, id string) (*models.Interview, error) {
	return c.load(ctx, caller, id)
}

func (c *Controller) Result(ctx context.Context, caller Caller, id string) (*models.ResultSummary, error) {
	iv, err := c.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	sum := iv.Summary()
	return &sum, nil
}

func (c *Controller) Delete(ctx context.Context, caller Caller, id string) error {
	if _, err := c.load(ctx, caller, id); err != nil {
		return err
	}
	if err := c.store.Delete(ctx, id); err != nil {
		return c.storeError(err)
	}
	c.logger.Info("interview deleted", zap.String("interview_id", id), zap.String("user", caller.UserID))
	return nil
}

// ListQuery selects one page of sessions; AllUsers is honoured for admins only
type ListQuery struct {
	Fields   map[string]string
	Page     int
	AllUsers bool
}

func (c *Controller) List(ctx context.Context, caller Caller, q ListQuery) (*models.ListResponse, error) {
	filter := repositories.ListFilter{
		User:     caller.UserID,
		Fields:   q.Fields,
		Page:     q.Page,
		PageSize: c.pageSize,
	}
	if caller.Admin && q.AllUsers {
		filter.User = ""
	}

	items, total, err := c.store.List(ctx, filter)
	if err != nil {
		return nil, c.storeError(err)
	}
	return &models.ListResponse{Items: items, PageSize: c.pageSize, TotalFilteredCount: total}, nil
}

// Stats aggregates the caller's sessions created between the start and end
// days inclusive. Zero values default to the current month up to today.
func (c *Controller) Stats(ctx context.Context, caller Caller, start, end time.Time) (*models.InterviewStats, error) {
	now := c.now()
	if start.IsZero() {
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	if end.IsZero() {
		end = now
	}
	start = startOfDay(start)
	end = startOfDay(end).Add(24*time.Hour - time.Millisecond)
	if end.Before(start) {
		return nil, models.ValidationError("end must not be before start")
	}

	stats, err := c.store.Stats(ctx, repositories.StatsRange{User: caller.UserID, Start: start, End: end})
	if err != nil {
		return nil, c.storeError(err)
	}
	return stats, nil
}

// load fetches a session the caller may see; other users' sessions look missing
func (c *Controller) load(ctx context.Context, caller Caller, id string) (*models.Interview, error) {
	iv, err := c.store.Get(ctx, id)
	if err != nil {
		return nil, c.storeError(err)
	}
	if !caller.Admin && iv.User != caller.UserID {
		return nil, models.NotFoundError(msgNotFound)
	}
	return iv, nil
}

func (c *Controller) storeError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return models.NewAppError(models.KindNotFound, msgNotFound, err)
	case errors.Is(err, repositories.ErrQuestionNotFound):
		return models.NewAppError(models.KindNotFound, msgQuestionNotFound, err)
	case errors.Is(err, repositories.ErrInvalidID):
		return models.NewAppError(models.KindValidation, "Invalid interview id", err)
	case errors.Is(err, repositories.ErrStoreNotAvailable):
		return models.NewAppError(models.KindUnavailable, msgUnavailable, err)
	}
	return err
}

func providerError(err error, kind models.ErrorKind, msg string) error {
	if llm.IsRateLimited(err) {
		return models.NewAppError(models.KindRateLimited, msgRateLimited, err)
	}
	return models.NewAppError(kind, msg, err)
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
