package backoffice

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"
)

// SetHierarchyOrder moves a level to a new 1-based position and shifts every
// row between the old and new slots by exactly one, all inside a single
// transaction. Moving a row to its current position is a successful no-op
// that touches nothing.
func (s *Service) SetHierarchyOrder(ctx context.Context, id, newOrder int) (*AgentLevel, error) {
	if newOrder < 1 {
		return nil, ErrInvalidInput
	}

	var level AgentLevel
	moved := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&level, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to fetch agent level: %w", err)
		}

		current := level.HierarchyOrder
		if current == newOrder {
			return nil
		}

		if newOrder > current {
			// Moving down: rows in (current, newOrder] shift up one slot.
			if err := tx.Model(&AgentLevel{}).
				Where("hierarchyOrder > ? AND hierarchyOrder <= ? AND id <> ?", current, newOrder, id).
				UpdateColumn("hierarchyOrder", gorm.Expr("hierarchyOrder - 1")).Error; err != nil {
				return fmt.Errorf("failed to shift rows up: %w", err)
			}
		} else {
			// Moving up: rows in [newOrder, current) shift down one slot.
			if err := tx.Model(&AgentLevel{}).
				Where("hierarchyOrder >= ? AND hierarchyOrder < ? AND id <> ?", newOrder, current, id).
				UpdateColumn("hierarchyOrder", gorm.Expr("hierarchyOrder + 1")).Error; err != nil {
				return fmt.Errorf("failed to shift rows down: %w", err)
			}
		}

		now := time.Now()
		if err := tx.Model(&level).UpdateColumns(map[string]interface{}{
			"hierarchyOrder": newOrder,
			"updatedAt":      now,
		}).Error; err != nil {
			return fmt.Errorf("failed to move agent level: %w", err)
		}

		level.HierarchyOrder = newOrder
		level.UpdatedAt = now
		moved = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if moved {
		s.invalidateLevels(ctx)
		if levels, lerr := s.ListAgentLevels(ctx); lerr == nil {
			s.publish(Event{Type: LevelsReordered, Levels: levels})
		} else {
			s.log.Errorw("failed to load levels after reorder", "error", lerr)
		}
	}
	return &level, nil
}

// HierarchyOrderReport lists order values that break the contiguous 1..N
// invariant. Detection only; nothing is repaired.
type HierarchyOrderReport struct {
	Total      int   `json:"total"`
	Duplicates []int `json:"duplicates"`
	Missing    []int `json:"missing"`
}

// Valid reports whether the order values form exactly 1..N.
func (r HierarchyOrderReport) Valid() bool {
	return len(r.Duplicates) == 0 && len(r.Missing) == 0
}

// ValidateHierarchyOrder checks the ordering invariant across all rows.
// Gaps are expected after deletes; duplicates indicate a real problem.
func (s *Service) ValidateHierarchyOrder(ctx context.Context) (*HierarchyOrderReport, error) {
	var orders []int
	if err := s.db.WithContext(ctx).Model(&AgentLevel{}).
		Order("hierarchyOrder ASC").Pluck("hierarchyOrder", &orders).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch hierarchy orders: %w", err)
	}

	report := &HierarchyOrderReport{Total: len(orders)}
	seen := make(map[int]int, len(orders))
	for _, o := range orders {
		seen[o]++
	}
	for o, n := range seen {
		if n > 1 {
			report.Duplicates = append(report.Duplicates, o)
		}
	}
	for i := 1; i <= len(orders); i++ {
		if seen[i] == 0 {
			report.Missing = append(report.Missing, i)
		}
	}
	sort.Ints(report.Duplicates)
	sort.Ints(report.Missing)
	return report, nil
}
