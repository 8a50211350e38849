package summary

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jtmst/dash-md/internal/domain/notes"
	"github.com/jtmst/dash-md/internal/domain/patients"
)

const (
	noteExcerptLimit = 200
	recentNoteCount  = 2
)

// dateLayout equivale a "January 02, 2006" (mes completo, día con cero).
const dateLayout = "January 02, 2006"

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// age calcula años cumplidos al día de hoy; resta uno si el cumpleaños de
// este año todavía no ocurrió.
func age(dob, now time.Time) int {
	now = now.UTC()
	years := now.Year() - dob.Year()
	if int(now.Month())*100+now.Day() < int(dob.Month())*100+dob.Day() {
		years--
	}
	return years
}

// template arma el resumen determinístico, sin I/O.
func template(p patients.Patient, ns []notes.Note, now time.Time) string {
	var b strings.Builder

	name := p.FirstName + " " + p.LastName
	fmt.Fprintf(&b, "%s is a %d-year-old %s patient", name, age(p.DateOfBirth, now), strings.ToLower(p.Gender))
	if p.BloodType != "" {
		fmt.Fprintf(&b, " with blood type %s", p.BloodType)
	}
	fmt.Fprintf(&b, ", currently listed as %s.", p.Status)

	if len(p.Conditions) > 0 {
		fmt.Fprintf(&b, " The patient has the following conditions: %s.", strings.Join(p.Conditions, ", "))
	} else {
		b.WriteString(" The patient has no known conditions on file.")
	}

	if len(p.Allergies) > 0 {
		fmt.Fprintf(&b, " Known allergies include %s.", strings.Join(p.Allergies, ", "))
	} else {
		b.WriteString(" No known allergies are documented.")
	}

	if p.LastVisitDate != nil {
		fmt.Fprintf(&b, " The most recent visit was on %s.", formatDate(*p.LastVisitDate))
	} else {
		b.WriteString(" No visit date is recorded.")
	}

	sorted := sortByTimestampAsc(ns)
	if len(sorted) == 0 {
		b.WriteString("\n\nNo clinical notes on file.")
		return b.String()
	}

	// Las dos más recientes, de la más nueva a la más vieja.
	b.WriteString("\n\nRecent notes:")
	shown := 0
	for i := len(sorted) - 1; i >= 0 && shown < recentNoteCount; i-- {
		n := sorted[i]
		fmt.Fprintf(&b, "\n On %s: %s", formatDate(n.Timestamp), excerpt(n.Content, noteExcerptLimit))
		shown++
	}

	if older := len(sorted) - shown; older > 0 {
		plural := ""
		if older > 1 {
			plural = "s"
		}
		fmt.Fprintf(&b, "\n\n%d additional earlier note%s on file.", older, plural)
	}

	return b.String()
}

// excerpt corta por runas, no por bytes, para no partir texto multibyte.
func excerpt(content string, limit int) string {
	runes := []rune(content)
	if len(runes) <= limit {
		return content
	}
	return string(runes[:limit]) + "..."
}

func sortByTimestampAsc(ns []notes.Note) []notes.Note {
	out := make([]notes.Note, len(ns))
	copy(out, ns)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}
