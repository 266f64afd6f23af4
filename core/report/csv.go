package report

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/kjboard/board/core/result"
	"github.com/kjboard/board/core/student"
)

const (
	StudentsHeader = "ID,Name,Roll Number,Class,Email,Phone,Created"
	ResultsHeader  = "ID,Student Name,Roll Number,Subject,Marks,Total Marks,Exam Date,Created"

	timestampLayout = "2006-01-02 15:04:05"
	dateLayout      = "2006-01-02"
)

// WriteStudentsCSV writes the students export: the header line, then one row per student.
// Text fields are wrapped in double quotes but interior quotes are left as is,
// so a value containing `"` yields a malformed row.
func WriteStudentsCSV(w io.Writer, students []student.Student) error {
	rows := make([]string, 0, len(students))
	for _, s := range students {
		rows = append(rows, joinFields(
			strconv.FormatInt(s.ID, 10),
			quote(s.Name),
			quote(s.RollNumber),
			quote(s.Class),
			quote(s.Email.String),
			quote(s.Phone.String),
			quote(timestamp(s.CreatedAt)),
		))
	}
	return write(w, StudentsHeader, rows)
}

// WriteResultsCSV writes the results export; rows must carry the owning student's name and roll number.
func WriteResultsCSV(w io.Writer, results []result.Result) error {
	rows := make([]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, joinFields(
			strconv.FormatInt(r.ID, 10),
			quote(r.StudentName),
			quote(r.RollNumber),
			quote(r.Subject),
			strconv.Itoa(r.Marks),
			strconv.Itoa(r.TotalMarks),
			quote(date(r.ExamDate)),
			quote(timestamp(r.CreatedAt)),
		))
	}
	return write(w, ResultsHeader, rows)
}

func write(w io.Writer, header string, rows []string) error {
	_, err := io.WriteString(w, header+"\n"+strings.Join(rows, "\n"))
	return err
}

func joinFields(fields ...string) string { return strings.Join(fields, ",") }

func quote(s string) string { return `"` + s + `"` }

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}

func date(t null.Time) string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format(dateLayout)
}
