package domain

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The classification rule exists twice: as an in-process predicate and as a
// SQL filter. These tests evaluate the rendered SQL against the same corpus
// the in-process form sees and require both verdicts to match on every input.

func TestClassifierFormsAgree(t *testing.T) {
	corpus := []struct {
		name    string
		booking BookingSummary
		want    bool
	}{
		{
			name: "zero price booking",
			booking: BookingSummary{
				ID:          1,
				ClientName:  "Laura Fernandez",
				ClientEmail: "laura@gmail.com",
				PriceTotal:  0,
				CourseIDs:   []int64{12},
			},
			want: true,
		},
		{
			name: "placeholder email",
			booking: BookingSummary{
				ID:          2,
				ClientName:  "Laura Fernandez",
				ClientEmail: "test@client.com",
				PriceTotal:  150,
				CourseIDs:   []int64{12},
			},
			want: true,
		},
		{
			name: "placeholder name",
			booking: BookingSummary{
				ID:          3,
				ClientName:  "Prueba Garcia",
				ClientEmail: "laura@gmail.com",
				PriceTotal:  150,
				CourseIDs:   []int64{12},
			},
			want: true,
		},
		{
			name: "internal boukii address",
			booking: BookingSummary{
				ID:          4,
				ClientName:  "Laura Fernandez",
				ClientEmail: "laura@boukii.com",
				PriceTotal:  150,
				CourseIDs:   []int64{12},
			},
			want: true,
		},
		{
			name: "only excluded courses",
			booking: BookingSummary{
				ID:          5,
				ClientName:  "Laura Fernandez",
				ClientEmail: "laura@gmail.com",
				PriceTotal:  150,
				CourseIDs:   []int64{ExcludedCourseIDs[0], ExcludedCourseIDs[1]},
			},
			want: true,
		},
		{
			name: "mixed excluded and regular courses",
			booking: BookingSummary{
				ID:          6,
				ClientName:  "Laura Fernandez",
				ClientEmail: "laura@gmail.com",
				PriceTotal:  150,
				CourseIDs:   []int64{ExcludedCourseIDs[0], 12},
			},
			want: false,
		},
		{
			name: "booking without course lines",
			booking: BookingSummary{
				ID:          7,
				ClientName:  "Laura Fernandez",
				ClientEmail: "laura@gmail.com",
				PriceTotal:  150,
			},
			want: false,
		},
		{
			name: "client without email",
			booking: BookingSummary{
				ID:          9,
				ClientName:  "Laura Fernandez",
				ClientEmail: "",
				PriceTotal:  150,
				CourseIDs:   []int64{12},
			},
			want: false,
		},
		{
			name: "booking without client record",
			booking: BookingSummary{
				ID:         10,
				PriceTotal: 150,
				CourseIDs:  []int64{12},
			},
			want: false,
		},
		{
			name: "normal production booking",
			booking: BookingSummary{
				ID:          8,
				ClientName:  "Laura Fernandez",
				ClientEmail: "laura@gmail.com",
				PriceTotal:  150,
				CourseIDs:   []int64{12, 14},
			},
			want: false,
		},
	}

	for _, tc := range corpus {
		t.Run(tc.name, func(t *testing.T) {
			inProcess := IsTestBooking(tc.booking)
			sqlForm := evalPredicateSQL(t, tc.booking)

			assert.Equal(t, tc.want, inProcess, "in-process form")
			assert.Equal(t, inProcess, sqlForm, "SQL form must agree with in-process form")
		})
	}
}

func TestPredicateBindsPatternValues(t *testing.T) {
	sqlStr, args, err := TestRecordPredicate().ToSql()
	require.NoError(t, err)

	// Pattern needles travel as bound parameters, never inline.
	assert.NotContains(t, sqlStr, "%test%")
	assert.Contains(t, args, "%test%")
	assert.Contains(t, args, "%prueba%")

	// A NULL email must evaluate a clause to false, not NULL.
	assert.Contains(t, sqlStr, "COALESCE(c.email, '')")

	// The excluded course list is the one allowed inline value.
	for _, id := range ExcludedCourseIDs {
		assert.Contains(t, sqlStr, strconv.FormatInt(id, 10))
	}
}

// evalPredicateSQL interprets the rendered SQL predicate against a booking,
// clause by clause, with SQL LIKE semantics. It reads the course exclusion
// set out of the rendered statement so the test exercises what the query
// layer actually emits.
func evalPredicateSQL(t *testing.T, b BookingSummary) bool {
	t.Helper()

	sqlStr, args, err := TestRecordPredicate().ToSql()
	require.NoError(t, err)

	clauses := splitOrClauses(sqlStr)
	argIdx := 0

	for _, clause := range clauses {
		switch {
		case strings.Contains(clause, "b.price_total"):
			want, ok := args[argIdx].(int)
			require.True(t, ok)
			argIdx++
			if b.PriceTotal == float64(want) {
				return true
			}
		case strings.Contains(clause, "c.email"):
			pattern, ok := args[argIdx].(string)
			require.True(t, ok)
			argIdx++
			if likeMatch(pattern, strings.ToLower(b.ClientEmail)) {
				return true
			}
		case strings.Contains(clause, "first_name"):
			pattern, ok := args[argIdx].(string)
			require.True(t, ok)
			argIdx++
			if likeMatch(pattern, strings.ToLower(b.ClientName)) {
				return true
			}
		case strings.Contains(clause, "booking_users"):
			if onlyExcludedCourses(t, clause, b.CourseIDs) {
				return true
			}
		default:
			t.Fatalf("unrecognized predicate clause: %s", clause)
		}
	}

	return false
}

func splitOrClauses(sqlStr string) []string {
	return strings.Split(sqlStr, " OR ")
}

// likeMatch applies SQL LIKE semantics for the pattern shapes the classifier
// emits.
func likeMatch(pattern, value string) bool {
	switch {
	case strings.HasPrefix(pattern, "%") && strings.HasSuffix(pattern, "%"):
		return strings.Contains(value, strings.Trim(pattern, "%"))
	case strings.HasSuffix(pattern, "%"):
		return strings.HasPrefix(value, strings.TrimSuffix(pattern, "%"))
	case strings.HasPrefix(pattern, "%"):
		return strings.HasSuffix(value, strings.TrimPrefix(pattern, "%"))
	default:
		return value == pattern
	}
}

var inListPattern = regexp.MustCompile(`NOT IN \(([^)]+)\)`)

func onlyExcludedCourses(t *testing.T, clause string, courseIDs []int64) bool {
	t.Helper()

	match := inListPattern.FindStringSubmatch(clause)
	require.Len(t, match, 2, "course exclusion clause must carry an inline id list")

	excluded := make(map[int64]bool)
	for _, part := range strings.Split(match[1], ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		require.NoError(t, err)
		excluded[id] = true
	}

	// EXISTS guard: a booking without lines never matches this clause.
	if len(courseIDs) == 0 {
		return false
	}
	for _, id := range courseIDs {
		if !excluded[id] {
			return false
		}
	}
	return true
}
