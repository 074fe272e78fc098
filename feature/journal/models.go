package journal

import "time"

// Journal actions.
const (
	ActionCreate   = "create"
	ActionOverride = "override"
	ActionRemove   = "remove"
	ActionPass     = "pass"
)

// LinkEvent is one row of the link journal.
type LinkEvent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PassID      string    `gorm:"size:36;index" json:"pass_id,omitempty"`
	Entry       int       `gorm:"index" json:"entry"`
	Action      string    `gorm:"size:16;not null" json:"action"`
	Destination string    `gorm:"size:1024;index" json:"destination,omitempty"`
	Origin      string    `gorm:"size:1024" json:"origin,omitempty"`
	Previous    string    `gorm:"size:1024" json:"previous,omitempty"`
	Quality     string    `gorm:"size:32" json:"quality,omitempty"`
	Links       int       `json:"links,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName pins the table name.
func (LinkEvent) TableName() string {
	return "link_events"
}

// Columns are the columns the journal expects to find.
var Columns = []string{"id", "pass_id", "entry", "action", "destination", "origin", "previous", "quality", "links", "created_at"}
