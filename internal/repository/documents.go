package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/attendance-tracker/internal/models"
	"github.com/noah-isme/attendance-tracker/internal/store"
)

// Observer receives store operation timings for instrumentation.
type Observer interface {
	ObserveStoreOp(op string, duration time.Duration)
}

// Documents mediates all access to the three persisted documents. Every
// operation is a whole-document read-modify-write cycle; the mutex is
// the single-writer boundary that keeps multi-document mutations (such
// as a subject cascade delete) atomic with respect to other callers.
type Documents struct {
	store    store.Store
	observer Observer
	logger   *zap.Logger
	mu       sync.RWMutex
}

// New constructs the document repository. Observer may be nil.
func New(st store.Store, observer Observer, logger *zap.Logger) *Documents {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Documents{store: st, observer: observer, logger: logger}
}

// Snapshot holds an in-memory copy of the three documents for the
// duration of one View or Update.
type Snapshot struct {
	subjects   []models.Subject
	schedule   models.WeeklySchedule
	attendance []models.AttendanceRecord

	dirtySubjects   bool
	dirtySchedule   bool
	dirtyAttendance bool
}

// Subjects returns the loaded subject list.
func (s *Snapshot) Subjects() []models.Subject { return s.subjects }

// Schedule returns the loaded weekly schedule.
func (s *Snapshot) Schedule() models.WeeklySchedule { return s.schedule }

// Attendance returns the loaded attendance records.
func (s *Snapshot) Attendance() []models.AttendanceRecord { return s.attendance }

// SetSubjects stages a replacement subject document.
func (s *Snapshot) SetSubjects(subjects []models.Subject) {
	s.subjects = subjects
	s.dirtySubjects = true
}

// SetSchedule stages a replacement schedule document.
func (s *Snapshot) SetSchedule(schedule models.WeeklySchedule) {
	s.schedule = schedule
	s.dirtySchedule = true
}

// SetAttendance stages a replacement attendance document.
func (s *Snapshot) SetAttendance(records []models.AttendanceRecord) {
	s.attendance = records
	s.dirtyAttendance = true
}

// View runs fn against a read-only snapshot under a shared lock.
func (d *Documents) View(ctx context.Context, fn func(*Snapshot) error) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	snap, err := d.load(ctx)
	if err != nil {
		return err
	}
	return fn(snap)
}

// Update runs fn against a snapshot under an exclusive lock and writes
// back every document fn staged. Validation errors from fn abort the
// cycle before any write, leaving stored state unchanged.
func (d *Documents) Update(ctx context.Context, fn func(*Snapshot) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	snap, err := d.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(snap); err != nil {
		return err
	}

	if snap.dirtySubjects {
		if err := d.save(ctx, store.KeySubjects, snap.subjects); err != nil {
			return err
		}
	}
	if snap.dirtySchedule {
		if err := d.save(ctx, store.KeySchedule, snap.schedule); err != nil {
			return err
		}
	}
	if snap.dirtyAttendance {
		if err := d.save(ctx, store.KeyAttendance, snap.attendance); err != nil {
			return err
		}
	}
	return nil
}

func (d *Documents) load(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{
		subjects:   []models.Subject{},
		schedule:   models.WeeklySchedule{},
		attendance: []models.AttendanceRecord{},
	}

	if err := d.get(ctx, store.KeySubjects, &snap.subjects); err != nil {
		return nil, err
	}
	if err := d.get(ctx, store.KeySchedule, &snap.schedule); err != nil {
		return nil, err
	}
	if err := d.get(ctx, store.KeyAttendance, &snap.attendance); err != nil {
		return nil, err
	}

	for i := range snap.subjects {
		snap.subjects[i].Normalize()
	}

	return snap, nil
}

func (d *Documents) get(ctx context.Context, key string, dest interface{}) error {
	start := time.Now()
	raw, err := d.store.Get(ctx, key)
	d.observe("get_"+key, start)

	if err != nil {
		if err == store.ErrNotFound {
			return nil
		}
		return fmt.Errorf("load document %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode document %s: %w", key, err)
	}
	return nil
}

func (d *Documents) save(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", key, err)
	}

	start := time.Now()
	err = d.store.Set(ctx, key, raw)
	d.observe("set_"+key, start)
	if err != nil {
		d.logger.Error("document write failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

func (d *Documents) observe(op string, start time.Time) {
	if d.observer != nil {
		d.observer.ObserveStoreOp(op, time.Since(start))
	}
}
