package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultChannel = "interview_completed"

// InterviewCompleted is published once when a session moves to completed
type InterviewCompleted struct {
	InterviewID    string    `json:"interviewId"`
	User           string    `json:"user"`
	NumOfQuestions int       `json:"numOfQuestions"`
	Answered       int       `json:"answered"`
	AverageScore   float64   `json:"averageScore"`
	Trigger        string    `json:"trigger"`
	CompletedAt    time.Time `json:"completedAt"`
}

type Publisher interface {
	PublishCompleted(ctx context.Context, evt InterviewCompleted) error
}

// NopPublisher drops events, used when no redis is configured
type NopPublisher struct{}

func (NopPublisher) PublishCompleted(context.Context, InterviewCompleted) error { return nil }

type RedisPublisher struct {
	rdb     *redis.Client
	channel string
}

func NewRedisPublisher(rdb *redis.Client, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{rdb: rdb, channel: channel}
}

func (p *RedisPublisher) PublishCompleted(ctx context.Context, evt InterviewCompleted) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal completion event: %w", err)
	}
	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", p.channel, err)
	}
	return nil
}

func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}
