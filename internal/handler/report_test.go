package handler_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"portal/internal/store"
)

type reportRow struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	FullName    string `json:"fullName"`
	Level       string `json:"level"`
	PhoneNumber string `json:"phoneNumber"`
	Attendance  []struct {
		ID        string `json:"id"`
		DateTime  string `json:"dateTime"`
		Status    string `json:"status"`
		StudentID string `json:"studentId"`
	} `json:"attendance"`
}

func seedAttendance(t *testing.T, mem *store.Memory, code, eventID string, record map[string]any) {
	t.Helper()
	if err := mem.Set(context.Background(), "attendance/"+code+"/"+eventID, record); err != nil {
		t.Fatalf("seed attendance: %v", err)
	}
}

func TestReportEmptyUsersIsSuccess(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := doRequest(t, r, http.MethodGet, "/api/users/attendance", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for absent users tree, got %d", w.Code)
	}
	var report []reportRow
	decodeJSON(t, w, &report)
	if len(report) != 0 {
		t.Fatalf("expected empty report, got %v", report)
	}
	// The body is a JSON array, not null.
	if w.Body.String() != "[]" {
		t.Fatalf("expected literal empty array, got %q", w.Body.String())
	}
}

func TestReportJoinsOnCodeNotKey(t *testing.T) {
	r, mem, _ := newTestRouter(t)
	// Tree key and code deliberately differ; attendance hangs off the code.
	seedUser(t, mem, "K1", map[string]any{"code": "C1", "fullName": "Jane", "secret": "drop me"})
	seedAttendance(t, mem, "C1", "evt1", map[string]any{
		"dateTime": "2026-01-05T09:00:00Z", "status": "present", "studentId": "C1",
	})

	w := doRequest(t, r, http.MethodGet, "/api/users/attendance", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var report []reportRow
	decodeJSON(t, w, &report)
	if len(report) != 1 {
		t.Fatalf("expected 1 row, got %d", len(report))
	}
	row := report[0]
	if row.ID != "K1" || row.Code != "C1" {
		t.Fatalf("unexpected projection: %+v", row)
	}
	if len(row.Attendance) != 1 || row.Attendance[0].StudentID != "C1" {
		t.Fatalf("join by code failed: %+v", row.Attendance)
	}
	// The projection drops fields outside the fixed subset.
	if strings.Contains(w.Body.String(), "secret") {
		t.Fatalf("projection leaked extra field: %s", w.Body.String())
	}
}

func TestReportUserWithoutAttendanceGetsEmptyArray(t *testing.T) {
	r, mem, _ := newTestRouter(t)
	seedUser(t, mem, "A1", map[string]any{"code": "A1", "fullName": "Jane"})

	w := doRequest(t, r, http.MethodGet, "/api/users/attendance", nil)
	var report []reportRow
	decodeJSON(t, w, &report)
	if len(report) != 1 {
		t.Fatalf("expected 1 row, got %d", len(report))
	}
	if report[0].Attendance == nil || len(report[0].Attendance) != 0 {
		t.Fatalf("expected empty attendance array, got %v", report[0].Attendance)
	}
}

func TestReportLevelFilter(t *testing.T) {
	r, mem, _ := newTestRouter(t)
	seedUser(t, mem, "A1", map[string]any{"code": "A1", "fullName": "Jane", "level": "1"})
	seedUser(t, mem, "A2", map[string]any{"code": "A2", "fullName": "John", "level": "2"})
	seedUser(t, mem, "A3", map[string]any{"code": "A3", "fullName": "Mary", "level": "1"})

	var all, unfiltered, level1 []reportRow

	decodeJSON(t, doRequest(t, r, http.MethodGet, "/api/users/attendance?level=all", nil), &all)
	decodeJSON(t, doRequest(t, r, http.MethodGet, "/api/users/attendance", nil), &unfiltered)
	if len(all) != len(unfiltered) || len(all) != 3 {
		t.Fatalf("level=all should match no filter: %d vs %d", len(all), len(unfiltered))
	}

	decodeJSON(t, doRequest(t, r, http.MethodGet, "/api/users/attendance?level=1", nil), &level1)
	if len(level1) != 2 {
		t.Fatalf("expected 2 level-1 users, got %d", len(level1))
	}
	for _, row := range level1 {
		if row.Level != "1" {
			t.Fatalf("filter leaked level %q", row.Level)
		}
	}
}

func TestReportLevelFilterIsExact(t *testing.T) {
	r, mem, _ := newTestRouter(t)
	seedUser(t, mem, "A1", map[string]any{"code": "A1", "fullName": "Jane", "level": "Beginner"})

	var rows []reportRow
	decodeJSON(t, doRequest(t, r, http.MethodGet, "/api/users/attendance?level=beginner", nil), &rows)
	if len(rows) != 0 {
		t.Fatalf("level match must be case sensitive, got %d rows", len(rows))
	}
}

func TestReportAttendanceSortedNewestFirst(t *testing.T) {
	r, mem, _ := newTestRouter(t)
	seedUser(t, mem, "A1", map[string]any{"code": "A1", "fullName": "Jane"})
	// Inserted as T1, T3, T2; expected back as T3, T2, T1.
	seedAttendance(t, mem, "A1", "evt1", map[string]any{
		"dateTime": "2026-01-01T09:00:00Z", "status": "present", "studentId": "A1",
	})
	seedAttendance(t, mem, "A1", "evt2", map[string]any{
		"dateTime": "2026-01-03T09:00:00Z", "status": "absent", "studentId": "A1",
	})
	seedAttendance(t, mem, "A1", "evt3", map[string]any{
		"dateTime": "2026-01-02T09:00:00Z", "status": "present", "studentId": "A1",
	})

	var report []reportRow
	decodeJSON(t, doRequest(t, r, http.MethodGet, "/api/users/attendance", nil), &report)
	if len(report) != 1 || len(report[0].Attendance) != 3 {
		t.Fatalf("unexpected report shape: %+v", report)
	}
	got := []string{
		report[0].Attendance[0].DateTime,
		report[0].Attendance[1].DateTime,
		report[0].Attendance[2].DateTime,
	}
	want := []string{"2026-01-03T09:00:00Z", "2026-01-02T09:00:00Z", "2026-01-01T09:00:00Z"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}
