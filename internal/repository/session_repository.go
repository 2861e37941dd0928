package repository

import (
	"interview_prep_backend/internal/model"
	"interview_prep_backend/internal/util"
	"sync"
	"time"
)

// SessionRepository 内存会话存储。会话不持久化，进程重启即丢失；
// 长时间无活动的会话由后台任务按 TTL 清理。
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*model.InterviewSession
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]*model.InterviewSession),
	}
}

func (r *SessionRepository) Save(session *model.InterviewSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session
}

// FindByID 返回会话副本，调用方的读取不会暴露内部状态
func (r *SessionRepository) FindByID(id string) (*model.InterviewSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, util.ErrSessionNotFound
	}
	return s.Clone(), nil
}

// Update 在写锁内对会话执行变更函数，保证提交路径的原子性
func (r *SessionRepository) Update(id string, mutate func(*model.InterviewSession) error) (*model.InterviewSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, util.ErrSessionNotFound
	}

	if err := mutate(s); err != nil {
		return nil, err
	}

	s.UpdatedAt = time.Now()
	return s.Clone(), nil
}

func (r *SessionRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return util.ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

// DeleteExpired 清理最后活跃时间早于 TTL 的会话，返回清理数量
func (r *SessionRepository) DeleteExpired(ttl time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-ttl)
	removed := 0
	for id, s := range r.sessions {
		if s.UpdatedAt.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

func (r *SessionRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
