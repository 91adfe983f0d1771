package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/brandaudit/backend/internal/analysis"
	"github.com/brandaudit/backend/pkg/logger"
)

var ErrNotFound = errors.New("report not found")

// Store keeps finished reports for the read-by-id path. Entries expire; a
// report that ages out is simply gone, never regenerated.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(host string, port int, password string, db int, ttl time.Duration) (*Store, error) {
	return NewStoreWithAddr(fmt.Sprintf("%s:%d", host, port), password, db, ttl)
}

func NewStoreWithAddr(addr, password string, db int, ttl time.Duration) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Report store initialized",
		zap.String("addr", addr),
		zap.Duration("ttl", ttl),
	)

	return &Store{client: client, ttl: ttl}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Put(ctx context.Context, id string, report *analysis.AnalysisReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := s.client.Set(ctx, reportKey(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store report: %w", err)
	}

	logger.Debug("Report stored", zap.String("submission_id", id))
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*analysis.AnalysisReport, error) {
	data, err := s.client.Get(ctx, reportKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch report: %w", err)
	}

	var report analysis.AnalysisReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}

	return &report, nil
}

func reportKey(id string) string {
	return "report:" + id
}
