// Package export serializes registrations to the CSV dialect the admin
// dashboard download has always produced: quoted string fields, bare
// numerics, team members joined with "; ", dd/mm/yyyy dates.
package export

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/techmania/registration-service/internal/models"
)

var ErrNoRegistrations = errors.New("no registrations to export")

// displayDate is the en-IN date rendering used in the admin table.
const displayDate = "02/01/2006"

var header = []string{
	"Team Name", "Event Type", "Team Size", "Team Lead", "Team Members",
	"Mobile", "Transaction ID", "Registration Fee", "Registration Date",
}

// CSV renders the records in input order. Callers pre-sort if order matters.
func CSV(records []models.Registration) (string, error) {
	if len(records) == 0 {
		return "", ErrNoRegistrations
	}

	var b strings.Builder
	b.WriteString(strings.Join(header, ","))
	for _, reg := range records {
		fields := []string{
			quote(reg.TeamName),
			quote(string(reg.EventType)),
			strconv.Itoa(reg.TeamSize),
			quote(reg.TeamLead),
			quote(strings.Join(reg.TeamMembers, "; ")),
			quote(reg.Mobile),
			quote(reg.TransactionID),
			strconv.Itoa(reg.RegistrationFee),
			quote(reg.CreatedAt.Format(displayDate)),
		}
		b.WriteString("\n")
		b.WriteString(strings.Join(fields, ","))
	}
	return b.String(), nil
}

// Filename suggests the download name for an export generated at the given
// time.
func Filename(now time.Time) string {
	return fmt.Sprintf("techmania2025-registrations-%s.csv", now.Format("2006-01-02"))
}

// quote wraps a field in double quotes, doubling embedded quotes so
// user-supplied names cannot break the row structure.
func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
