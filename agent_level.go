package backoffice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// AgentLevelInput carries the writable fields of an agent level.
type AgentLevelInput struct {
	LevelType       string `json:"levelType"`
	Permissions     string `json:"permissions"`
	HierarchyOrder  *int   `json:"hierarchyOrder"`
	BackgroundColor string `json:"backgroundColor"`
	BorderColor     string `json:"borderColor"`
}

// ListAgentLevels returns all levels ordered by hierarchy position, then id.
func (s *Service) ListAgentLevels(ctx context.Context) ([]AgentLevel, error) {
	if levels, ok := s.cachedLevels(ctx); ok {
		return levels, nil
	}

	var levels []AgentLevel
	if err := s.db.WithContext(ctx).Order("hierarchyOrder ASC, id ASC").Find(&levels).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch agent levels: %w", err)
	}

	s.storeLevels(ctx, levels)
	return levels, nil
}

// GetAgentLevel retrieves a single level by id.
func (s *Service) GetAgentLevel(ctx context.Context, id int) (*AgentLevel, error) {
	var level AgentLevel
	if err := s.db.WithContext(ctx).First(&level, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch agent level: %w", err)
	}
	return &level, nil
}

// CreateAgentLevel creates a new level. When no hierarchy order is given it
// is appended after the current last row (empty table starts at 1).
func (s *Service) CreateAgentLevel(ctx context.Context, in AgentLevelInput) (*AgentLevel, error) {
	if in.LevelType == "" || in.Permissions == "" {
		return nil, ErrInvalidInput
	}

	level := AgentLevel{
		LevelType:       in.LevelType,
		Permissions:     in.Permissions,
		BackgroundColor: in.BackgroundColor,
		BorderColor:     in.BorderColor,
	}

	if in.HierarchyOrder != nil {
		level.HierarchyOrder = *in.HierarchyOrder
	} else {
		var max sql.NullInt64
		if err := s.db.WithContext(ctx).Model(&AgentLevel{}).
			Select("MAX(hierarchyOrder)").Scan(&max).Error; err != nil {
			return nil, fmt.Errorf("failed to determine next hierarchy order: %w", err)
		}
		level.HierarchyOrder = int(max.Int64) + 1
	}

	if err := s.db.WithContext(ctx).Create(&level).Error; err != nil {
		return nil, fmt.Errorf("failed to create agent level: %w", err)
	}

	s.invalidateLevels(ctx)
	s.publish(Event{Type: LevelAdded, Level: &level})
	return &level, nil
}

// UpdateAgentLevel updates a level in place. Setting the hierarchy order
// here writes the raw value without renumbering; use SetHierarchyOrder for
// coordinated moves.
func (s *Service) UpdateAgentLevel(ctx context.Context, id int, in AgentLevelInput) (*AgentLevel, error) {
	if in.LevelType == "" || in.Permissions == "" {
		return nil, ErrInvalidInput
	}

	var level AgentLevel
	if err := s.db.WithContext(ctx).First(&level, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch agent level: %w", err)
	}

	level.LevelType = in.LevelType
	level.Permissions = in.Permissions
	level.BackgroundColor = in.BackgroundColor
	level.BorderColor = in.BorderColor
	if in.HierarchyOrder != nil {
		level.HierarchyOrder = *in.HierarchyOrder
	}

	if err := s.db.WithContext(ctx).Save(&level).Error; err != nil {
		return nil, fmt.Errorf("failed to update agent level: %w", err)
	}

	s.invalidateLevels(ctx)
	s.publish(Event{Type: LevelUpdated, Level: &level})
	return &level, nil
}

// DeleteAgentLevel removes a level. Remaining rows are not renumbered, so a
// gap in the order sequence persists until the next explicit reorder.
func (s *Service) DeleteAgentLevel(ctx context.Context, id int) error {
	var level AgentLevel
	if err := s.db.WithContext(ctx).First(&level, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to fetch agent level: %w", err)
	}

	if err := s.db.WithContext(ctx).Delete(&level).Error; err != nil {
		return fmt.Errorf("failed to delete agent level: %w", err)
	}

	s.invalidateLevels(ctx)
	s.publish(Event{Type: LevelDeleted, ID: id})
	return nil
}
