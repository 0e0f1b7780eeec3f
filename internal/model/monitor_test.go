package model

import (
	"encoding/json"
	"testing"
)

func TestMonitor_RowRoundTrip(t *testing.T) {
	row := MonitorRow{ID: "SOME_ID", Keyword: "KW", UserEmail: "email"}

	m := MonitorFromRow(row)
	if m.ID != "SOME_ID" || m.Keyword != "KW" || m.UserEmail != "email" {
		t.Fatalf("unexpected monitor: %+v", m)
	}

	if got := m.ToRow(); got != row {
		t.Errorf("ToRow() = %+v, want %+v", got, row)
	}
}

func TestMonitor_JSONFieldNames(t *testing.T) {
	m := &Monitor{ID: "id1", Keyword: "golang", UserEmail: "a@b.com"}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var fields map[string]string
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if fields["userEmail"] != "a@b.com" {
		t.Errorf("expected userEmail field, got %v", fields)
	}
	if _, ok := fields["user_email"]; ok {
		t.Errorf("storage column name leaked into domain JSON: %v", fields)
	}
}

func TestCachedMonitor_ToMonitor(t *testing.T) {
	m := &Monitor{ID: "id1", Keyword: "golang", UserEmail: "a@b.com"}

	got := m.ToCachedMonitor().ToMonitor("id1")
	if *got != *m {
		t.Errorf("cache round trip = %+v, want %+v", got, m)
	}
}
