package handler

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"portal/internal/model"
	"portal/internal/store"
)

// GetUsersAttendance joins the users tree with each user's attendance
// records, optionally filtered by level. The two reads run concurrently and
// are not a consistent snapshot: a write landing between them can show
// different points in time per tree. Known limitation, accepted.
func (h *Handler) GetUsersAttendance(c *gin.Context) {
	level := c.Query("level")

	var (
		users      map[string]model.Record
		attendance map[string]map[string]model.Record
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error { return h.store.Get(ctx, store.UsersPath, &users) })
	g.Go(func() error { return h.store.Get(ctx, store.AttendancePath, &attendance) })
	if err := g.Wait(); err != nil {
		h.log.Error().Err(err).Msg("error generating report")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to generate report",
			"details": err.Error(),
		})
		return
	}

	report := buildReport(users, attendance, level)
	h.log.Info().Int("students", len(report)).Msg("generated attendance report")
	c.JSON(http.StatusOK, report)
}

// buildReport projects every user to the fixed report shape, applies the
// level filter and attaches the user's attendance events sorted newest first.
// An absent users tree yields an empty report, not an error; this is
// deliberately asymmetric with the list endpoints.
func buildReport(users map[string]model.Record, attendance map[string]map[string]model.Record, level string) []model.ReportUser {
	report := make([]model.ReportUser, 0, len(users))

	keys := make([]string, 0, len(users))
	for key := range users {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		user := projectUser(key, users[key])
		if level != "" && level != "all" && user.Level != level {
			continue
		}
		// The join key is code, not the tree key; the two may differ.
		user.Attendance = collectAttendance(attendance[user.Code])
		report = append(report, user)
	}
	return report
}

// projectUser maps a raw record to the fixed field subset the report exposes.
func projectUser(key string, record model.Record) model.ReportUser {
	return model.ReportUser{
		ID:          key,
		Code:        stringField(record, "code"),
		FullName:    stringField(record, "fullName"),
		Level:       stringField(record, "level"),
		Church:      stringField(record, "church"),
		Birthdate:   stringField(record, "birthdate"),
		Gender:      stringField(record, "gender"),
		Address:     stringField(record, "address"),
		PhoneNumber: stringField(record, "phoneNumber"),
	}
}

// collectAttendance flattens one user's events and sorts them descending by
// dateTime. Events with equal or unparseable timestamps keep their id order.
func collectAttendance(events map[string]model.Record) []model.AttendanceEntry {
	entries := make([]model.AttendanceEntry, 0, len(events))

	ids := make([]string, 0, len(events))
	for id := range events {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		record := events[id]
		entries = append(entries, model.AttendanceEntry{
			ID:        id,
			DateTime:  stringField(record, "dateTime"),
			Status:    stringField(record, "status"),
			StudentID: stringField(record, "studentId"),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return parseWhen(entries[i].DateTime).After(parseWhen(entries[j].DateTime))
	})
	return entries
}

// timeLayouts are tried in order when sorting attendance; records written by
// different client versions carry slightly different formats.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseWhen(value string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

func stringField(record model.Record, key string) string {
	s, _ := record[key].(string)
	return s
}
