package backoffice

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// AgentLevel is one row of the level hierarchy shown on the dashboard.
// HierarchyOrder defines the linear sequence; lower means higher authority.
type AgentLevel struct {
	ID              int       `gorm:"primaryKey;autoIncrement" json:"id"`
	LevelType       string    `gorm:"column:levelType;not null" json:"levelType"`
	Permissions     string    `gorm:"column:permissions" json:"permissions"`
	HierarchyOrder  int       `gorm:"column:hierarchyOrder;index" json:"hierarchyOrder"`
	BackgroundColor string    `gorm:"column:backgroundColor" json:"backgroundColor"`
	BorderColor     string    `gorm:"column:borderColor" json:"borderColor"`
	CreatedAt       time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (AgentLevel) TableName() string { return "agent_levels" }

// Permission represents a named permission an agent level can reference.
// Agent levels reference permissions by name, not by id.
type Permission struct {
	ID             int          `gorm:"primaryKey;autoIncrement" json:"id"`
	PermissionName string       `gorm:"column:permissionName;not null" json:"permissionName"`
	Description    string       `gorm:"column:description" json:"description"`
	IsActive       bool         `gorm:"column:isActive;default:true" json:"isActive"`
	Restrictions   Restrictions `gorm:"column:restrictions;type:text" json:"restrictions"`
	CreatedAt      time.Time    `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt      time.Time    `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Permission) TableName() string { return "permissions" }

// Restrictions is the denylist of UI elements hidden from users holding a
// permission. It is stored as a JSON document in a text column and always
// carries all four arrays once normalized.
type Restrictions struct {
	Menus        []string `json:"menus"`
	Buttons      []string `json:"buttons"`
	Layouts      []string `json:"layouts"`
	CSSSelectors []string `json:"cssSelectors"`
}

// Normalize replaces nil slices with empty ones so the serialized form never
// contains null array fields.
func (r *Restrictions) Normalize() {
	if r.Menus == nil {
		r.Menus = []string{}
	}
	if r.Buttons == nil {
		r.Buttons = []string{}
	}
	if r.Layouts == nil {
		r.Layouts = []string{}
	}
	if r.CSSSelectors == nil {
		r.CSSSelectors = []string{}
	}
}

// Value serializes the restrictions for storage.
func (r Restrictions) Value() (driver.Value, error) {
	rr := r
	rr.Normalize()
	b, err := json.Marshal(rr)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal restrictions: %w", err)
	}
	return string(b), nil
}

// Scan reads the stored JSON document. NULL, empty and corrupt values all
// normalize to the all-empty-arrays shape.
func (r *Restrictions) Scan(value interface{}) error {
	*r = Restrictions{}
	defer r.Normalize()

	var raw []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported restrictions column type %T", value)
	}

	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, r); err != nil {
		*r = Restrictions{}
	}
	return nil
}
