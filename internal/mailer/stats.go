package mailer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Statistics holds delivery counters.
type Statistics struct {
	TotalSent   int64
	TotalFailed int64
	SentToday   int64
}

// Stats records and reports delivery counters.
type Stats interface {
	RecordSent(ctx context.Context) error
	RecordFailed(ctx context.Context) error
	Snapshot(ctx context.Context) (Statistics, error)
}

const (
	statsSentKey   = "gdpr:mail:sent"
	statsFailedKey = "gdpr:mail:failed"
	statsDayPrefix = "gdpr:mail:sent:"
	statsDayTTL    = 48 * time.Hour
)

// RedisStats keeps counters in Redis so API instances and mail workers share them.
type RedisStats struct {
	rdb *redis.Client
	now func() time.Time
}

// NewRedisStats wraps a Redis client.
func NewRedisStats(rdb *redis.Client) *RedisStats {
	return &RedisStats{rdb: rdb, now: time.Now}
}

func (s *RedisStats) dayKey() string {
	return statsDayPrefix + s.now().Format("20060102")
}

// RecordSent increments the total and daily sent counters.
func (s *RedisStats) RecordSent(ctx context.Context) error {
	day := s.dayKey()
	pipe := s.rdb.TxPipeline()
	pipe.Incr(ctx, statsSentKey)
	pipe.Incr(ctx, day)
	pipe.Expire(ctx, day, statsDayTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record sent email: %w", err)
	}
	return nil
}

// RecordFailed increments the failure counter.
func (s *RedisStats) RecordFailed(ctx context.Context) error {
	if err := s.rdb.Incr(ctx, statsFailedKey).Err(); err != nil {
		return fmt.Errorf("record failed email: %w", err)
	}
	return nil
}

// Snapshot reads every counter. Missing keys count as zero.
func (s *RedisStats) Snapshot(ctx context.Context) (Statistics, error) {
	vals, err := s.rdb.MGet(ctx, statsSentKey, statsFailedKey, s.dayKey()).Result()
	if err != nil {
		return Statistics{}, fmt.Errorf("read email statistics: %w", err)
	}
	counts := make([]int64, len(vals))
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		if _, err := fmt.Sscan(str, &counts[i]); err != nil {
			return Statistics{}, fmt.Errorf("decode email statistic: %w", err)
		}
	}
	return Statistics{TotalSent: counts[0], TotalFailed: counts[1], SentToday: counts[2]}, nil
}

// MemoryStats is the in-process fallback when Redis is not configured.
type MemoryStats struct {
	mu     sync.Mutex
	sent   int64
	failed int64
	day    string
	today  int64
	now    func() time.Time
}

// NewMemoryStats creates zeroed counters.
func NewMemoryStats() *MemoryStats {
	return &MemoryStats{now: time.Now}
}

func (s *MemoryStats) rollover() {
	if day := s.now().Format("20060102"); day != s.day {
		s.day = day
		s.today = 0
	}
}

// RecordSent increments the sent counters.
func (s *MemoryStats) RecordSent(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollover()
	s.sent++
	s.today++
	return nil
}

// RecordFailed increments the failure counter.
func (s *MemoryStats) RecordFailed(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed++
	return nil
}

// Snapshot returns the current counters.
func (s *MemoryStats) Snapshot(context.Context) (Statistics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollover()
	return Statistics{TotalSent: s.sent, TotalFailed: s.failed, SentToday: s.today}, nil
}
