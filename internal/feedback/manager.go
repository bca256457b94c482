package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"interview-alchemist/internal/models"
)

// ErrContextNotFound means the evaluation is unknown or its rating window has passed
var ErrContextNotFound = errors.New("evaluation context not found or expired")

// Recorder is the part of the manager the interview controller needs
type Recorder interface {
	StoreRequestContext(ctx *models.RequestContext)
}

// Stats summarises stored ratings
type Stats struct {
	TotalCount      int64 `json:"total_count"`
	PositiveCount   int64 `json:"positive_count"`
	UnexportedCount int64 `json:"unexported_count"`
	CachedContexts  int   `json:"cached_contexts"`
}

// Manager keeps rated evaluations in postgres and exports them as tuning data
type Manager struct {
	db     *gorm.DB
	cache  *ContextCache
	logger *zap.Logger
}

var _ Recorder = (*Manager)(nil)

func NewManager(db *gorm.DB, cacheTTL time.Duration, logger *zap.Logger) *Manager {
	return &Manager{db: db, cache: NewContextCache(cacheTTL), logger: logger}
}

func (m *Manager) Close() {
	m.cache.Close()
}

func (m *Manager) StoreRequestContext(rc *models.RequestContext) {
	m.cache.Set(rc.RequestID, rc)
	m.logger.Debug("stored evaluation context",
		zap.String("request_id", rc.RequestID),
		zap.String("request_type", rc.RequestType))
}

// SubmitFeedback persists a rating for a cached evaluation. Rating the same
// question again overwrites the earlier row.
func (m *Manager) SubmitFeedback(ctx context.Context, requestID string, isPositive bool) error {
	rc, ok := m.cache.Get(requestID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrContextNotFound, requestID)
	}

	fb := &models.AIFeedback{
		RequestID:    requestID,
		RequestType:  rc.RequestType,
		InterviewID:  rc.InterviewID,
		QuestionID:   rc.QuestionID,
		Prompt:       rc.Prompt,
		Response:     rc.Response,
		IsPositive:   isPositive,
		ModelVersion: rc.ModelVersion,
		FeedbackAt:   time.Now().UTC(),
	}
	err := m.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "request_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"prompt", "response", "is_positive", "model_version", "feedback_at", "exported", "updated_at"}),
	}).Create(fb).Error
	if err != nil {
		return fmt.Errorf("store feedback: %w", err)
	}

	m.cache.Delete(requestID)
	m.logger.Info("stored feedback",
		zap.String("request_id", requestID),
		zap.Bool("positive", isPositive))
	return nil
}

// GetUnexportedFeedback returns the oldest ratings not yet exported, limit 0 means all
func (m *Manager) GetUnexportedFeedback(ctx context.Context, limit int) ([]models.AIFeedback, error) {
	var rows []models.AIFeedback
	q := m.db.WithContext(ctx).Where("exported = ?", false).Order("feedback_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("get unexported feedback: %w", err)
	}
	return rows, nil
}

func (m *Manager) GetFeedbackSince(ctx context.Context, since time.Time, limit int) ([]models.AIFeedback, error) {
	var rows []models.AIFeedback
	q := m.db.WithContext(ctx).Where("feedback_at >= ?", since).Order("feedback_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("get feedback since %s: %w", since.Format(time.RFC3339), err)
	}
	return rows, nil
}

func (m *Manager) MarkAsExported(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	res := m.db.WithContext(ctx).Model(&models.AIFeedback{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{"exported": true, "exported_at": time.Now().UTC()})
	if res.Error != nil {
		return fmt.Errorf("mark feedback exported: %w", res.Error)
	}
	m.logger.Info("marked feedback exported", zap.Int64("rows", res.RowsAffected))
	return nil
}

// ExportToJSONL renders positively rated evaluations as tuning examples, one per line
func (m *Manager) ExportToJSONL(rows []models.AIFeedback) ([]byte, error) {
	var buf bytes.Buffer
	written := 0
	for _, fb := range rows {
		if !fb.IsPositive {
			continue
		}
		line, err := json.Marshal(models.TrainingDataPoint{
			Contents: []models.TrainingContent{
				{Role: "user", Parts: []models.TrainingPart{{Text: fb.Prompt}}},
				{Role: "model", Parts: []models.TrainingPart{{Text: fb.Response}}},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("marshal training example: %w", err)
		}
		if written > 0 {
			buf.WriteByte('\n')
		}
		buf.Write(line)
		written++
	}

	m.logger.Info("exported feedback to jsonl",
		zap.Int("examples", written),
		zap.Int("records", len(rows)))
	return buf.Bytes(), nil
}

func (m *Manager) GetFeedbackStats(ctx context.Context) (*Stats, error) {
	db := m.db.WithContext(ctx).Model(&models.AIFeedback{})
	stats := &Stats{CachedContexts: m.cache.Size()}

	if err := db.Session(&gorm.Session{}).Count(&stats.TotalCount).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Where("is_positive = ?", true).Count(&stats.PositiveCount).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Where("exported = ?", false).Count(&stats.UnexportedCount).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
