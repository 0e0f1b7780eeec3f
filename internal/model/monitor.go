// Package model defines domain entities for the application.
package model

// Monitor is a user's saved keyword watch.
// ID is assigned once at creation and never changes afterward.
type Monitor struct {
	ID        string `json:"id"`
	Keyword   string `json:"keyword"`
	UserEmail string `json:"userEmail"`
}

// MonitorRow is the storage shape of a monitor, keyed by column name.
type MonitorRow struct {
	ID        string `db:"id"`
	Keyword   string `db:"keyword"`
	UserEmail string `db:"user_email"`
}

// ToRow converts the domain monitor to its storage shape.
func (m *Monitor) ToRow() MonitorRow {
	return MonitorRow{
		ID:        m.ID,
		Keyword:   m.Keyword,
		UserEmail: m.UserEmail,
	}
}

// MonitorFromRow converts a storage row to the domain monitor.
func MonitorFromRow(row MonitorRow) *Monitor {
	return &Monitor{
		ID:        row.ID,
		Keyword:   row.Keyword,
		UserEmail: row.UserEmail,
	}
}

// CachedMonitor represents monitor data stored in a Redis hash.
type CachedMonitor struct {
	Keyword   string `redis:"keyword"`
	UserEmail string `redis:"user_email"`
}

// ToMonitor converts CachedMonitor to the domain monitor.
func (c *CachedMonitor) ToMonitor(id string) *Monitor {
	return &Monitor{
		ID:        id,
		Keyword:   c.Keyword,
		UserEmail: c.UserEmail,
	}
}

// ToCachedMonitor converts the domain monitor to CachedMonitor.
func (m *Monitor) ToCachedMonitor() *CachedMonitor {
	return &CachedMonitor{
		Keyword:   m.Keyword,
		UserEmail: m.UserEmail,
	}
}
