package model

import (
	"bytes"
	"encoding/json"
)

// Record is a user document as it travels to and from the tree store. Records
// are passed through verbatim: the store enforces no schema, and clients may
// carry fields beyond the well-known ones.
type Record = map[string]any

// UpdatePayload is the decoded body of an update request. The wire format is
// either a single record object or an array of records; the variant is fixed
// at decode time so handlers dispatch on it explicitly instead of probing the
// body shape downstream.
type UpdatePayload struct {
	Single Record
	Bulk   []Record

	bulk bool
}

func (p *UpdatePayload) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		p.bulk = true
		return json.Unmarshal(data, &p.Bulk)
	}
	return json.Unmarshal(data, &p.Single)
}

// IsBulk reports whether the payload decoded as an array of records.
func (p *UpdatePayload) IsBulk() bool { return p.bulk }

// BulkSuccess is one successfully updated record with its post-update value.
type BulkSuccess struct {
	Code string `json:"code"`
	User Record `json:"user"`
}

// BulkFailure is one rejected record with the reason it was skipped.
type BulkFailure struct {
	User  Record `json:"user"`
	Error string `json:"error"`
}

// BulkResults collects per-item outcomes of a bulk update. Partial success is
// an expected outcome, not an error: the batch never aborts on one bad item.
type BulkResults struct {
	Successful []BulkSuccess `json:"successful"`
	Failed     []BulkFailure `json:"failed"`
}

// ReportUser is the fixed projection of a user record used by the attendance
// report. Optional fields absent from the stored record are omitted from the
// JSON output.
type ReportUser struct {
	ID          string            `json:"id"`
	Code        string            `json:"code"`
	FullName    string            `json:"fullName"`
	Level       string            `json:"level,omitempty"`
	Church      string            `json:"church,omitempty"`
	Birthdate   string            `json:"birthdate,omitempty"`
	Gender      string            `json:"gender,omitempty"`
	Address     string            `json:"address,omitempty"`
	PhoneNumber string            `json:"phoneNumber,omitempty"`
	Attendance  []AttendanceEntry `json:"attendance"`
}

// AttendanceEntry is one attendance event attached to a report row.
type AttendanceEntry struct {
	ID        string `json:"id"`
	DateTime  string `json:"dateTime"`
	Status    string `json:"status"`
	StudentID string `json:"studentId"`
}
