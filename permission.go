package backoffice

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// PermissionInput carries the writable fields of a permission.
type PermissionInput struct {
	PermissionName string        `json:"permissionName"`
	Description    string        `json:"description"`
	IsActive       *bool         `json:"isActive"`
	Restrictions   *Restrictions `json:"restrictions"`
}

// ListPermissions returns all permissions.
func (s *Service) ListPermissions(ctx context.Context) ([]Permission, error) {
	var perms []Permission
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&perms).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch permissions: %w", err)
	}
	return perms, nil
}

// GetPermission retrieves a single permission by id.
func (s *Service) GetPermission(ctx context.Context, id int) (*Permission, error) {
	var perm Permission
	if err := s.db.WithContext(ctx).First(&perm, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch permission: %w", err)
	}
	return &perm, nil
}

// CreatePermission creates a new permission. Missing restrictions normalize
// to the all-empty-arrays shape.
func (s *Service) CreatePermission(ctx context.Context, in PermissionInput) (*Permission, error) {
	if in.PermissionName == "" {
		return nil, ErrInvalidInput
	}

	perm := Permission{
		PermissionName: in.PermissionName,
		Description:    in.Description,
		IsActive:       true,
	}
	if in.IsActive != nil {
		perm.IsActive = *in.IsActive
	}
	if in.Restrictions != nil {
		perm.Restrictions = *in.Restrictions
	}
	perm.Restrictions.Normalize()

	if err := s.db.WithContext(ctx).Create(&perm).Error; err != nil {
		return nil, fmt.Errorf("failed to create permission: %w", err)
	}

	s.publish(Event{Type: PermissionAdded, Perm: &perm})
	return &perm, nil
}

// UpdatePermission updates a permission in place. When the name changes,
// every agent level referencing the old name is rewritten to the new one in
// a second pass. A cascade failure does not roll back the primary rename;
// it is returned as a CascadeError alongside the updated row so callers can
// surface a warning.
func (s *Service) UpdatePermission(ctx context.Context, id int, in PermissionInput) (*Permission, error) {
	if in.PermissionName == "" {
		return nil, ErrInvalidInput
	}

	var perm Permission
	if err := s.db.WithContext(ctx).First(&perm, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch permission: %w", err)
	}

	oldName := perm.PermissionName
	perm.PermissionName = in.PermissionName
	perm.Description = in.Description
	if in.IsActive != nil {
		perm.IsActive = *in.IsActive
	}
	if in.Restrictions != nil {
		perm.Restrictions = *in.Restrictions
	}
	perm.Restrictions.Normalize()

	if err := s.db.WithContext(ctx).Save(&perm).Error; err != nil {
		return nil, fmt.Errorf("failed to update permission: %w", err)
	}
	s.publish(Event{Type: PermissionUpdated, Perm: &perm})

	if oldName != perm.PermissionName {
		err := s.db.WithContext(ctx).Model(&AgentLevel{}).
			Where("permissions = ?", oldName).
			Update("permissions", perm.PermissionName).Error
		if err != nil {
			s.log.Errorw("permission rename cascade failed",
				"permission", perm.PermissionName, "oldName", oldName, "error", err)
			return &perm, &CascadeError{Op: "rename", Err: err}
		}
		s.invalidateLevels(ctx)
	}

	return &perm, nil
}

// DeletePermission removes a permission and blanks the permissions field of
// every agent level that referenced it by name.
func (s *Service) DeletePermission(ctx context.Context, id int) error {
	var perm Permission
	if err := s.db.WithContext(ctx).First(&perm, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to fetch permission: %w", err)
	}

	if err := s.db.WithContext(ctx).Delete(&perm).Error; err != nil {
		return fmt.Errorf("failed to delete permission: %w", err)
	}
	s.publish(Event{Type: PermissionDeleted, ID: id})

	err := s.db.WithContext(ctx).Model(&AgentLevel{}).
		Where("permissions = ?", perm.PermissionName).
		Update("permissions", "").Error
	if err != nil {
		s.log.Errorw("permission delete cascade failed",
			"permission", perm.PermissionName, "error", err)
		return &CascadeError{Op: "delete", Err: err}
	}
	s.invalidateLevels(ctx)

	return nil
}
