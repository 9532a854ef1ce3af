// Package transfer moves whole collections in and out of the store as JSON
// arrays.
package transfer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	habitDomain "github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	sharedApplication "github.com/felixgeelhaar/cadence/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/cadence/internal/shared/domain"
)

// Kind names a collection.
type Kind string

const (
	KindTasks  Kind = "tasks"
	KindHabits Kind = "habits"
)

// ParseKind accepts "tasks"/"task" and "habits"/"habit".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tasks", "task":
		return KindTasks, nil
	case "habits", "habit":
		return KindHabits, nil
	default:
		return "", fmt.Errorf("unknown collection %q (want tasks or habits)", s)
	}
}

// ImportReport lists what an import stored and what it skipped.
type ImportReport struct {
	Kind     Kind                                 `json:"kind"`
	Imported []string                             `json:"imported"`
	Errors   []*sharedDomain.MalformedImportError `json:"-"`
}

// Skipped returns the number of rejected records.
func (r ImportReport) Skipped() int { return len(r.Errors) }

// Service exports and imports collections. Imports run in one unit of work:
// bad records are skipped, but a storage failure rolls the batch back.
type Service struct {
	tasks  task.Repository
	habits habitDomain.Repository
	uow    sharedApplication.UnitOfWork
	clock  sharedApplication.Clock
	logger *slog.Logger
}

// NewService creates a new transfer Service.
func NewService(
	tasks task.Repository,
	habits habitDomain.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedApplication.Clock,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{tasks: tasks, habits: habits, uow: uow, clock: clock, logger: logger}
}

// Export serialises every entity of kind as an indented JSON array. An empty
// collection yields "[]".
func (s *Service) Export(ctx context.Context, kind Kind) ([]byte, error) {
	var payload any
	switch kind {
	case KindTasks:
		tasks, err := s.tasks.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		if tasks == nil {
			tasks = []task.Task{}
		}
		payload = tasks
	case KindHabits:
		habits, err := s.habits.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		if habits == nil {
			habits = []habitDomain.Habit{}
		}
		payload = habits
	default:
		return nil, fmt.Errorf("unknown collection %q", kind)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", kind, err)
	}
	return data, nil
}

// Import upserts every valid record of data. A document that is not a JSON
// array is returned as a *MalformedImportError with Index -1 and nothing is
// stored.
func (s *Service) Import(ctx context.Context, kind Kind, data []byte) (ImportReport, error) {
	report := ImportReport{Kind: kind, Imported: []string{}}
	if kind != KindTasks && kind != KindHabits {
		return report, fmt.Errorf("unknown collection %q", kind)
	}

	records, err := splitArray(data)
	if err != nil {
		return report, &sharedDomain.MalformedImportError{Index: -1, Err: err}
	}

	err = sharedApplication.WithUnitOfWork(ctx, s.uow, func(txCtx context.Context) error {
		now := s.clock()
		seen := make(map[string]struct{}, len(records))

		for i, raw := range records {
			id, save, err := s.decode(kind, raw, now)
			if err != nil {
				report.Errors = append(report.Errors, &sharedDomain.MalformedImportError{Index: i, ID: recordID(raw), Err: err})
				continue
			}
			if _, dup := seen[id]; dup {
				report.Errors = append(report.Errors, &sharedDomain.MalformedImportError{
					Index: i,
					ID:    id,
					Err:   fmt.Errorf("duplicate id %q in batch", id),
				})
				continue
			}

			if err := save(txCtx); err != nil {
				return err
			}
			seen[id] = struct{}{}
			report.Imported = append(report.Imported, id)
		}
		return nil
	})
	if err != nil {
		return ImportReport{Kind: kind, Imported: []string{}}, err
	}

	s.logger.InfoContext(ctx, "import finished",
		"kind", kind,
		"imported", len(report.Imported),
		"skipped", report.Skipped(),
	)
	return report, nil
}

func (s *Service) decode(kind Kind, raw json.RawMessage, now time.Time) (string, func(context.Context) error, error) {
	if kind == KindTasks {
		t, err := decodeTask(raw, now)
		if err != nil {
			return "", nil, err
		}
		return t.ID, func(ctx context.Context) error { return s.tasks.Save(ctx, t) }, nil
	}

	h, err := decodeHabit(raw, now)
	if err != nil {
		return "", nil, err
	}
	return h.ID, func(ctx context.Context) error { return s.habits.Save(ctx, h) }, nil
}

func splitArray(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("document must be a JSON array")
	}
	var records []json.RawMessage
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return records, nil
}
