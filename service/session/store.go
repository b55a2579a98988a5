/*
 * @module service/session/store
 * @description 会话存储，上传的规范化记录集以会话为粒度保存在进程内存中
 * @architecture 分层架构 - 会话层，进程内Map + 读写锁
 * @documentReference dev_docs/requirements.md
 * @stateFlow 上传创建会话 -> 访问续期 -> TTL到期由定时清扫回收
 * @rules 不落盘、不跨实例共享，进程或会话结束后数据不保留
 * @dependencies github.com/google/uuid, github.com/robfig/cron/v3
 * @refs api/controllers/dataset_controller.go
 */

package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"annotation-metrics-service/service/models"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// Session 单次上传的私有数据集，对下游只读
type Session struct {
	ID         string
	Records    []models.TaskRecord
	Summary    *models.IngestSummary
	CreatedAt  time.Time
	lastAccess time.Time
}

// Store 进程内会话存储
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	cron     *cron.Cron
}

// NewStore 创建会话存储，ttl为会话空闲回收时间
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Put 保存一次上传的规范化结果，返回新会话ID
func (s *Store) Put(records []models.TaskRecord, summary *models.IngestSummary) *Session {
	sess := &Session{
		ID:         uuid.New().String(),
		Records:    records,
		Summary:    summary,
		CreatedAt:  time.Now(),
		lastAccess: time.Now(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get 按ID取会话并续期，不存在时返回错误
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("会话 %s 不存在或已过期，请重新上传文件", id)
	}
	sess.lastAccess = time.Now()
	return sess, nil
}

// Delete 主动删除会话
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len 当前会话数
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep 回收空闲超过TTL的会话，返回回收数量
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	deadline := time.Now().Add(-s.ttl)
	removed := 0
	for id, sess := range s.sessions {
		if sess.lastAccess.Before(deadline) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// StartCleanup 启动定时清扫任务
func (s *Store) StartCleanup(spec string) error {
	s.cron = cron.New()
	_, err := s.cron.AddFunc(spec, func() {
		if removed := s.Sweep(); removed > 0 {
			slog.Info("会话清扫完成", "removed", removed, "remaining", s.Len())
		}
	})
	if err != nil {
		return fmt.Errorf("注册会话清扫任务失败: %w", err)
	}
	s.cron.Start()
	return nil
}

// StopCleanup 停止定时清扫
func (s *Store) StopCleanup() {
	if s.cron != nil {
		s.cron.Stop()
	}
}
