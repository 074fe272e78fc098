package journal

import (
	"context"
	"fmt"

	"medialink/core/database"
	"medialink/core/reconcile"
	"medialink/core/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultLimit = 100

// Service writes and reads the link journal. It implements reconcile.Recorder.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

var _ reconcile.Recorder = (*Service)(nil)

// NewService creates a journal over db.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger.With(zap.String("component", "journal"))}
}

// Migrate creates or updates the journal table.
func (s *Service) Migrate() error {
	return s.db.AutoMigrate(&LinkEvent{})
}

// CheckSchema reports journal columns missing from the database.
func (s *Service) CheckSchema() ([]string, error) {
	return database.MissingColumns(s.db, LinkEvent{}.TableName(), Columns)
}

// RecordDecision stores a create or override.
func (s *Service) RecordDecision(ctx context.Context, entry int, event reconcile.DecisionEvent) error {
	row := LinkEvent{
		PassID:      event.PassID,
		Entry:       entry,
		Action:      string(event.Decision),
		Destination: event.Record.Destination,
		Origin:      event.Record.Origin,
		Quality:     quality(event.Record.Metadata),
	}
	if event.Previous != nil {
		row.Previous = event.Previous.Origin
	}
	return s.insert(ctx, &row)
}

// RecordRemoval stores a link removed after its origin was deleted.
func (s *Service) RecordRemoval(ctx context.Context, entry int, record reconcile.LinkRecord) error {
	return s.insert(ctx, &LinkEvent{
		Entry:       entry,
		Action:      ActionRemove,
		Destination: record.Destination,
		Origin:      record.Origin,
		Quality:     quality(record.Metadata),
	})
}

// RecordPass stores a summary row for a completed pass.
func (s *Service) RecordPass(ctx context.Context, result reconcile.PassResult, records []reconcile.LinkRecord) error {
	return s.insert(ctx, &LinkEvent{
		PassID: result.PassID,
		Entry:  result.Entry,
		Action: ActionPass,
		Links:  len(records),
	})
}

// Filter narrows List results.
type Filter struct {
	Destination string
	Entry       *int
	Limit       int
}

// List returns journal rows, newest first.
func (s *Service) List(ctx context.Context, f Filter) ([]LinkEvent, error) {
	limit := f.Limit
	if limit <= 0 || limit > 1000 {
		limit = defaultLimit
	}

	q := s.db.WithContext(ctx).Order("id desc").Limit(limit)
	if f.Destination != "" {
		q = q.Where("destination = ?", f.Destination)
	}
	if f.Entry != nil {
		q = q.Where("entry = ?", *f.Entry)
	}

	var events []LinkEvent
	if err := q.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list journal: %w", err)
	}
	return events, nil
}

func (s *Service) insert(ctx context.Context, row *LinkEvent) error {
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		s.logger.Error("Failed to write journal", zap.String("action", row.Action), zap.Error(err))
		return fmt.Errorf("write journal: %w", err)
	}
	return nil
}

func quality(meta reconcile.Metadata) string {
	q, ok := meta.Quality()
	if !ok {
		return ""
	}
	return utils.ToString(q)
}
