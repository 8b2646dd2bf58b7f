package campus

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"strings"
)

// Report is a rendered CSV download.
type Report struct {
	Filename string
	Data     []byte
}

// ExportStudentsCSV renders every student with their registration count.
func (s *Service) ExportStudentsCSV(ctx context.Context) (*Report, error) {
	const failMsg = "Error exporting students"
	students, err := s.store.ListStudents(ctx)
	if err != nil {
		return nil, internal(failMsg, err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Name", "Student ID", "Email", "Branch", "Registered Events Count"})
	for _, st := range students {
		_ = w.Write([]string{st.Name, st.StudentID, st.Email, st.Branch, strconv.Itoa(len(st.RegisteredEvents))})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, internal(failMsg, err)
	}
	return &Report{Filename: "students_report.csv", Data: buf.Bytes()}, nil
}

// ExportParticipantsCSV renders an event's participants under a title line.
func (s *Service) ExportParticipantsCSV(ctx context.Context, eventID string) (*Report, error) {
	const failMsg = "Error exporting participants"
	e, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, internal(failMsg, err)
	}
	if e == nil {
		return nil, ErrEventNotFound
	}
	parts, err := s.Participants(ctx, eventID)
	if err != nil {
		return nil, internal(failMsg, err)
	}

	var buf bytes.Buffer
	buf.WriteString("Event Report: " + e.Title + "\n")
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"RegistrationID", "Student ID", "Name", "Email", "Branch", "Type", "Team Name", "Status", "Payment Status"})
	for _, p := range parts {
		_ = w.Write([]string{
			p.ID, p.StudentID, p.StudentName, p.StudentEmail, p.StudentBranch,
			p.RegistrationType, p.TeamName, p.Status, p.PaymentStatus,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, internal(failMsg, err)
	}
	name := "participants_" + strings.ReplaceAll(e.Title, " ", "_") + ".csv"
	return &Report{Filename: name, Data: buf.Bytes()}, nil
}
