package audit

import (
	"encoding/json"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbearia-console/internal/models"
)

type Sink interface {
	Log(ev Event) error
	Recent(limit int) ([]models.AuditLog, error)
}

func toRecord(ev Event) models.AuditLog {
	var meta string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			meta = string(b)
		}
	}
	return models.AuditLog{
		ActorID:  ev.ActorID,
		Action:   ev.Action,
		Entity:   ev.Entity,
		EntityID: ev.EntityID,
		Metadata: meta,
	}
}

// ===============================
// gorm
// ===============================

type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(ev Event) error {
	rec := toRecord(ev)
	return l.db.Create(&rec).Error
}

func (l *Logger) Recent(limit int) ([]models.AuditLog, error) {
	var out []models.AuditLog
	err := l.db.Order("created_at DESC").Limit(limit).Find(&out).Error
	return out, err
}

// ===============================
// memory
// ===============================

// MemorySink keeps the newest entries in process, for the memory storage
// driver and tests.
type MemorySink struct {
	mu      sync.Mutex
	max     int
	nextID  uint
	entries []models.AuditLog
}

func NewMemorySink(max int) *MemorySink {
	return &MemorySink{max: max}
}

func (m *MemorySink) Log(ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	rec := toRecord(ev)
	rec.ID = m.nextID
	rec.CreatedAt = time.Now()

	m.entries = append(m.entries, rec)
	if len(m.entries) > m.max {
		m.entries = m.entries[len(m.entries)-m.max:]
	}
	return nil
}

func (m *MemorySink) Recent(limit int) ([]models.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.AuditLog, 0, limit)
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}
