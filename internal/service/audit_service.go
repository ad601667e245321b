package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/complyhub/riskgate/internal/model"
	"github.com/complyhub/riskgate/internal/pkg/logger"
)

type AuditService struct {
	logChan chan *model.AuditLog
	logFile *os.File
	buffer  *auditBuffer
	repo    AuditRepo
	done    chan struct{}
	once    sync.Once
}

type AuditRepo interface {
	Insert(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, entityID string, limit int, from, to *time.Time) ([]*model.AuditLog, error)
}

func NewAuditService(logDir string, bufferSize int, repo AuditRepo) (*AuditService, error) {
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, err
	}

	// 按启动日期命名文件
	filename := filepath.Join(logDir, "audit-"+time.Now().UTC().Format("2006-01-02")+".jsonl")
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	svc := &AuditService{
		logChan: make(chan *model.AuditLog, bufferSize),
		logFile: f,
		buffer:  newAuditBuffer(bufferSize),
		repo:    repo,
		done:    make(chan struct{}),
	}

	go svc.processLogs()

	return svc, nil
}

// Log never blocks the request path; entries are dropped when the queue is full.
func (s *AuditService) Log(entry *model.AuditLog) {
	if entry == nil {
		return
	}
	s.buffer.Add(entry)
	select {
	case s.logChan <- entry:
	default:
		logger.Warn("Audit log queue full, dropping entry", "request_id", entry.ID)
	}
}

func (s *AuditService) List(ctx context.Context, entityID string, limit int, from, to *time.Time) ([]*model.AuditLog, error) {
	if s.repo != nil {
		records, err := s.repo.List(ctx, entityID, limit, from, to)
		if err == nil {
			return records, nil
		}
		logger.Warn("Audit repo list failed, serving from memory", "error", err)
	}
	return s.buffer.List(entityID, limit, from, to), nil
}

func (s *AuditService) processLogs() {
	defer close(s.done)
	encoder := json.NewEncoder(s.logFile)
	for entry := range s.logChan {
		if s.repo != nil {
			if err := s.repo.Insert(context.Background(), entry); err != nil {
				logger.Error("Failed to write audit log to repo", "error", err)
			}
		}
		if err := encoder.Encode(entry); err != nil {
			logger.Error("Failed to write audit log file", "error", err)
		}
	}
}

// Close drains queued entries and closes the file.
func (s *AuditService) Close() {
	s.once.Do(func() {
		close(s.logChan)
		<-s.done
		s.logFile.Close()
	})
}

type auditBuffer struct {
	mu        sync.Mutex
	maxSize   int
	records   []*model.AuditLog
	nextIndex int
}

func newAuditBuffer(maxSize int) *auditBuffer {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &auditBuffer{
		maxSize: maxSize,
		records: make([]*model.AuditLog, 0, maxSize),
	}
}

func (b *auditBuffer) Add(entry *model.AuditLog) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.records) < b.maxSize {
		b.records = append(b.records, entry)
		return
	}
	b.records[b.nextIndex] = entry
	b.nextIndex = (b.nextIndex + 1) % b.maxSize
}

// List walks the ring newest first.
func (b *auditBuffer) List(entityID string, limit int, from, to *time.Time) []*model.AuditLog {
	b.mu.Lock()
	defer b.mu.Unlock()
	if limit <= 0 || limit > b.maxSize {
		limit = b.maxSize
	}
	results := make([]*model.AuditLog, 0, limit)
	total := len(b.records)
	for i := 0; i < total; i++ {
		idx := (b.nextIndex + total - 1 - i) % total
		entry := b.records[idx]
		if entry == nil {
			continue
		}
		if entityID != "" && entry.EntityID != entityID {
			continue
		}
		if from != nil && entry.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && entry.CreatedAt.After(*to) {
			continue
		}
		results = append(results, entry)
		if len(results) >= limit {
			break
		}
	}
	return results
}
