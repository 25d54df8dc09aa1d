package domain

import (
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
)

// BookingSummary is the in-process view of a booking the classifier operates
// on. The aggregation engine never materializes these at scale; the type
// exists so the classification rule can be exercised row-by-row in tests and
// in the few places that handle individual bookings.
type BookingSummary struct {
	ID          int64
	ClientName  string
	ClientEmail string
	PriceTotal  float64
	CourseIDs   []int64
}

// A booking is classified as test when its client looks like placeholder
// data, its expected price is zero, or every one of its course lines belongs
// to the excluded course set. The rule exists in two representations, an
// in-process predicate and a SQL filter, both generated from the tables
// below. Change the tables, never the two representations independently.

type clientField int

const (
	fieldClientEmail clientField = iota
	fieldClientName
)

type clientPattern struct {
	field clientField
	// substring matched case-insensitively; the SQL form renders it as
	// LOWER(col) LIKE '%needle%'.
	needle string
}

var testClientPatterns = []clientPattern{
	{fieldClientEmail, "test"},
	{fieldClientEmail, "prueba"},
	{fieldClientEmail, "demo"},
	{fieldClientEmail, "@boukii.com"},
	{fieldClientName, "test"},
	{fieldClientName, "prueba"},
	{fieldClientName, "demo"},
}

// Courses used for staff training and demo material. Bookings made up
// exclusively of these never count as production activity. The list is fixed
// at compile time and is the only value the query layer renders inline.
var ExcludedCourseIDs = []int64{94, 117, 203}

// IsTestBooking is the in-process form of the classification rule. Pure, no
// I/O.
func IsTestBooking(b BookingSummary) bool {
	if b.PriceTotal == 0 {
		return true
	}
	for _, p := range testClientPatterns {
		var hay string
		switch p.field {
		case fieldClientEmail:
			hay = b.ClientEmail
		case fieldClientName:
			hay = b.ClientName
		}
		if strings.Contains(strings.ToLower(hay), p.needle) {
			return true
		}
	}
	if len(b.CourseIDs) > 0 {
		onlyExcluded := true
		for _, id := range b.CourseIDs {
			if !isExcludedCourse(id) {
				onlyExcluded = false
				break
			}
		}
		if onlyExcluded {
			return true
		}
	}
	return false
}

func isExcludedCourse(id int64) bool {
	for _, ex := range ExcludedCourseIDs {
		if id == ex {
			return true
		}
	}
	return false
}

// TestRecordPredicate is the SQL form of the classification rule, built for a
// query where bookings are aliased "b" and their clients "c". All pattern
// values are bound parameters; only the excluded course id list is inline.
func TestRecordPredicate() squirrel.Sqlizer {
	or := squirrel.Or{
		squirrel.Eq{"b.price_total": 0},
	}
	// NULL client columns must make a clause false, never NULL: a NULL leaking
	// out of the OR would break the boolean is_test column. CONCAT already
	// treats NULL names as empty; the email column needs the COALESCE.
	for _, p := range testClientPatterns {
		var col string
		switch p.field {
		case fieldClientEmail:
			col = "COALESCE(c.email, '')"
		case fieldClientName:
			col = "CONCAT(c.first_name, ' ', c.last_name)"
		}
		or = append(or, squirrel.Expr("LOWER("+col+") LIKE ?", "%"+p.needle+"%"))
	}
	or = append(or, squirrel.Expr(fmt.Sprintf(
		"(EXISTS (SELECT 1 FROM booking_users bu WHERE bu.booking_id = b.id)"+
			" AND NOT EXISTS (SELECT 1 FROM booking_users bu WHERE bu.booking_id = b.id AND bu.course_id NOT IN (%s)))",
		excludedCourseList(),
	)))
	return or
}

func excludedCourseList() string {
	parts := make([]string, len(ExcludedCourseIDs))
	for i, id := range ExcludedCourseIDs {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ", ")
}
