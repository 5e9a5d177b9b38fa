// Package queue 以固定數量的 worker 處理批次購物清單請求
package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"recipe-shopping/internal/infrastructure/config"
	"recipe-shopping/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrClosed 隊列已關閉
var ErrClosed = errors.New("queue manager is closed")

// Job 隊列中執行的工作
type Job func(ctx context.Context) (any, error)

// Request 隊列請求
type Request struct {
	Context context.Context
	Job     Job
	Result  chan Result
}

// Result 處理結果
type Result struct {
	Value any
	Error error
}

// Status 隊列狀態
type Status struct {
	QueueLength    int   `json:"queue_length"`
	ProcessedCount int64 `json:"processed_count"`
	FailedCount    int64 `json:"failed_count"`
	MaxQueueSize   int   `json:"max_queue_size"`
	Workers        int   `json:"workers"`
}

// Manager 隊列管理器
type Manager struct {
	config    *config.QueueConfig
	queue     chan *Request
	processed int64
	failed    int64
	mu        sync.RWMutex
	closed    bool
	wg        sync.WaitGroup
}

// NewManager 創建新的隊列管理器並啟動 worker
func NewManager(cfg *config.QueueConfig) *Manager {
	m := &Manager{
		config: cfg,
		queue:  make(chan *Request, cfg.MaxSize),
	}

	for i := 0; i < cfg.Workers; i++ {
		m.wg.Add(1)
		go m.worker(i)
	}

	common.LogInfo("隊列已啟動",
		zap.Int("workers", cfg.Workers),
		zap.Int("max_queue_size", cfg.MaxSize),
	)
	return m
}

// Enqueue 將工作加入隊列，隊列已滿時立即回傳 common.ErrQueueFull
func (m *Manager) Enqueue(ctx context.Context, job Job) (<-chan Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := &Request{
		Context: ctx,
		Job:     job,
		Result:  make(chan Result, 1),
	}

	select {
	case m.queue <- req:
		common.LogDebug("Request enqueued",
			zap.Int("queue_length", len(m.queue)),
			zap.Int("max_queue_size", m.config.MaxSize),
		)
		return req.Result, nil
	default:
		common.LogWarn("隊列已滿", zap.Int("max_queue_size", m.config.MaxSize))
		return nil, common.ErrQueueFull
	}
}

// Status 獲取隊列狀態
func (m *Manager) Status() Status {
	return Status{
		QueueLength:    len(m.queue),
		ProcessedCount: atomic.LoadInt64(&m.processed),
		FailedCount:    atomic.LoadInt64(&m.failed),
		MaxQueueSize:   m.config.MaxSize,
		Workers:        m.config.Workers,
	}
}

// Close 停止接收新工作，等待已排入的工作完成
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	close(m.queue)
	m.mu.Unlock()

	m.wg.Wait()
	common.LogInfo("隊列已關閉", zap.Int64("processed", atomic.LoadInt64(&m.processed)))
}

func (m *Manager) worker(id int) {
	defer m.wg.Done()

	for req := range m.queue {
		res := m.run(req)
		if res.Error != nil {
			atomic.AddInt64(&m.failed, 1)
			common.LogDebug("Job failed", zap.Int("worker", id), zap.Error(res.Error))
		}
		atomic.AddInt64(&m.processed, 1)
		req.Result <- res
	}
}

// run 執行單一工作，已取消的請求不執行
func (m *Manager) run(req *Request) (res Result) {
	if err := req.Context.Err(); err != nil {
		return Result{Error: err}
	}

	ctx := req.Context
	if m.config.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.config.JobTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			common.LogError("Job panic recovered", zap.Any("panic", r))
			res = Result{Error: fmt.Errorf("job panic: %v", r)}
		}
	}()

	value, err := req.Job(ctx)
	return Result{Value: value, Error: err}
}
