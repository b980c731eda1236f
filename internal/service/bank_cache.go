package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gabarita/gabarita-backend/internal/config"
	"github.com/gabarita/gabarita-backend/internal/model"
)

// CachedQuestionBank is a read-through Redis cache in front of a QuestionBank.
// Cached entries hold the answer key and are only read by services, never
// served raw. Any Redis failure falls back to the underlying store.
type CachedQuestionBank struct {
	bank QuestionBank
	rdb  *redis.Client
	ttl  time.Duration
	log  zerolog.Logger
}

// NewCachedQuestionBank wraps bank. A zero ttl keeps entries until invalidated.
func NewCachedQuestionBank(bank QuestionBank, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *CachedQuestionBank {
	return &CachedQuestionBank{
		bank: bank,
		rdb:  rdb,
		ttl:  ttl,
		log:  log.With().Str("component", "question_cache").Logger(),
	}
}

// ExamIDs serves the exam index from Redis, loading it on a miss.
func (b *CachedQuestionBank) ExamIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if b.read(ctx, config.CacheKey.ExamIndexKey(), &ids) {
		return ids, nil
	}

	ids, err := b.bank.ExamIDs(ctx)
	if err != nil {
		return nil, err
	}
	b.write(ctx, config.CacheKey.ExamIndexKey(), ids)
	return ids, nil
}

// ListByExam serves one exam's questions from Redis, loading them on a miss.
// Unknown exams are not cached, so arbitrary ids from clients never create keys.
func (b *CachedQuestionBank) ListByExam(ctx context.Context, examID string) ([]model.Question, error) {
	var questions []model.Question
	if b.read(ctx, config.CacheKey.ExamQuestionsKey(examID), &questions) {
		return questions, nil
	}

	questions, err := b.bank.ListByExam(ctx, examID)
	if err != nil {
		return nil, err
	}
	if len(questions) > 0 {
		b.write(ctx, config.CacheKey.ExamQuestionsKey(examID), questions)
	}
	return questions, nil
}

// All assembles the whole bank from per-exam entries.
func (b *CachedQuestionBank) All(ctx context.Context) (map[string][]model.Question, error) {
	ids, err := b.ExamIDs(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]model.Question, len(ids))
	for _, id := range ids {
		questions, err := b.ListByExam(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("list exam %s: %w", id, err)
		}
		out[id] = questions
	}
	return out, nil
}

// Get looks the question up in its cached exam.
func (b *CachedQuestionBank) Get(ctx context.Context, examID, questionID string) (*model.Question, error) {
	questions, err := b.ListByExam(ctx, examID)
	if err != nil {
		return nil, err
	}
	for i := range questions {
		if questions[i].ID == questionID {
			q := questions[i]
			return &q, nil
		}
	}
	return nil, ErrNotFound
}

// Upsert writes through to the store and drops the affected cache entries.
func (b *CachedQuestionBank) Upsert(ctx context.Context, examID string, questions []model.Question) error {
	if err := b.bank.Upsert(ctx, examID, questions); err != nil {
		return err
	}

	err := b.rdb.Del(ctx,
		config.CacheKey.ExamQuestionsKey(examID),
		config.CacheKey.ExamIndexKey(),
	).Err()
	if err != nil {
		b.log.Warn().Err(err).Str("exam_id", examID).Msg("Failed to invalidate question cache")
	}
	return nil
}

// Prewarm loads every exam into Redis in a single pipeline so the first
// requests after startup never hit the store.
func (b *CachedQuestionBank) Prewarm(ctx context.Context) error {
	bank, err := b.bank.All(ctx)
	if err != nil {
		return fmt.Errorf("load question bank: %w", err)
	}

	if len(bank) == 0 {
		b.log.Info().Msg("No questions to prewarm")
		return nil
	}

	ids := make([]string, 0, len(bank))
	pipe := b.rdb.Pipeline()
	for examID, questions := range bank {
		data, err := json.Marshal(questions)
		if err != nil {
			return fmt.Errorf("marshal exam %s: %w", examID, err)
		}
		pipe.Set(ctx, config.CacheKey.ExamQuestionsKey(examID), data, b.ttl)
		ids = append(ids, examID)
	}
	sort.Strings(ids)
	index, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshal exam index: %w", err)
	}
	pipe.Set(ctx, config.CacheKey.ExamIndexKey(), index, b.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache to redis: %w", err)
	}

	b.log.Info().Int("exams", len(ids)).Msg("Question cache warmed")
	return nil
}

func (b *CachedQuestionBank) read(ctx context.Context, key string, dst any) bool {
	data, err := b.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			b.log.Warn().Err(err).Str("key", key).Msg("Cache read failed, using store")
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		b.log.Warn().Err(err).Str("key", key).Msg("Corrupt cache entry, using store")
		return false
	}
	return true
}

func (b *CachedQuestionBank) write(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := b.rdb.Set(ctx, key, data, b.ttl).Err(); err != nil {
		b.log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}
