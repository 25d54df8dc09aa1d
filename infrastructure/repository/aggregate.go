package repository

import (
	"context"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/sysantonio/api-boukii-sub001/infrastructure/database/postgres"
	"github.com/sysantonio/api-boukii-sub001/internal/domain"
)

// AggregateRepository runs the season aggregate query: one bounded, windowed,
// single round-trip statement per invocation. No per-row fetches, no N+1
// follow-ups.
type AggregateRepository interface {
	Run(ctx context.Context, window domain.ReportWindow, level domain.OptimizationLevel) (*domain.RawAggregate, error)
}

type aggregateRepository struct {
	conn         postgres.Conn
	queryTimeout time.Duration
}

func NewAggregateRepository(conn postgres.Conn, queryTimeout time.Duration) AggregateRepository {
	return &aggregateRepository{
		conn:         conn,
		queryTimeout: queryTimeout,
	}
}

// Each UNION ALL arm yields the same eight columns so one scan loop folds the
// whole result set. Booking-grain arms aggregate the scoped CTE; the method
// arm joins confirmed payments against it.
const (
	bookingArmAggregates = `COUNT(*) AS cnt, ` +
		`COALESCE(SUM(price_total), 0) AS expected_sum, ` +
		`COALESCE(SUM(CASE WHEN status <> 2 THEN price_total ELSE 0 END), 0) AS actual_sum, ` +
		`COALESCE(SUM(paid_total), 0) AS paid_sum, ` +
		`COALESCE(SUM(CASE WHEN paid_total >= price_total THEN price_total ELSE 0 END), 0) AS paid_expected_sum`

	armTotal = `SELECT 'total' AS dim, is_test, '' AS key, ` + bookingArmAggregates +
		` FROM scoped GROUP BY is_test`

	armStatus = `SELECT 'status' AS dim, is_test, status::text AS key, ` + bookingArmAggregates +
		` FROM scoped GROUP BY is_test, status`

	armSource = `SELECT 'source' AS dim, is_test, source AS key, ` + bookingArmAggregates +
		` FROM scoped GROUP BY is_test, source`

	armMethod = `SELECT 'method' AS dim, s.is_test, p.pay_method AS key, ` +
		`COUNT(*) AS cnt, 0 AS expected_sum, 0 AS actual_sum, ` +
		`COALESCE(SUM(p.amount), 0) AS paid_sum, 0 AS paid_expected_sum` +
		` FROM payments p JOIN scoped s ON s.id = p.booking_id` +
		` WHERE p.status = ? GROUP BY s.is_test, p.pay_method`
)

func (r *aggregateRepository) Run(
	ctx context.Context,
	window domain.ReportWindow,
	level domain.OptimizationLevel,
) (*domain.RawAggregate, error) {
	query, args, err := buildAggregateQuery(window, level)
	if err != nil {
		return nil, errors.Wrap(err, "building aggregate query")
	}

	qctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	rows, err := r.conn.QueryContext(qctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "running aggregate query")
	}
	defer rows.Close()

	raw := &domain.RawAggregate{
		ByStatus: make(map[string]domain.AggregateBucket),
		BySource: make(map[string]domain.AggregateBucket),
		ByMethod: make(map[string]domain.AggregateBucket),
	}

	for rows.Next() {
		var (
			dim    string
			isTest bool
			key    string
			bucket domain.AggregateBucket
		)
		if err := rows.Scan(
			&dim, &isTest, &key,
			&bucket.Count, &bucket.ExpectedSum, &bucket.ActualSum,
			&bucket.PaidSum, &bucket.PaidExpectedSum,
		); err != nil {
			return nil, errors.Wrap(err, "scanning aggregate row")
		}

		if dim == "total" {
			if isTest {
				raw.Test = bucket
			} else {
				raw.Production = bucket
			}
			continue
		}

		// Dimension rows of the test partition are computed by the query but
		// only the production partition feeds the document breakdowns.
		if isTest {
			continue
		}

		switch dim {
		case "status":
			raw.ByStatus[statusName(key)] = bucket
		case "source":
			raw.BySource[key] = bucket
		case "method":
			raw.ByMethod[key] = bucket
		}
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating aggregate rows")
	}

	return raw, nil
}

// buildAggregateQuery composes the full statement. Window and tenant values
// are bound parameters; the compile-time excluded-course list inside the
// classifier predicate is the only inline value.
func buildAggregateQuery(window domain.ReportWindow, level domain.OptimizationLevel) (string, []interface{}, error) {
	scoped := squirrel.Select(
		"b.id",
		"b.status",
		"COALESCE(b.source, 'unknown') AS source",
		"b.price_total",
		"b.paid_total",
	).
		Column(squirrel.Alias(
			// Bookings without a client row still aggregate; the FALSE fallback
			// keeps is_test boolean when every clause comes back NULL.
			squirrel.Expr("COALESCE(?, FALSE)", domain.TestRecordPredicate()),
			"is_test",
		)).
		From("bookings b").
		LeftJoin("clients c ON c.id = b.client_main_id").
		Where(squirrel.Eq{"b.school_id": window.TenantID}).
		Where(squirrel.GtOrEq{"b.created_at": window.StartDate.Format(time.DateOnly)}).
		Where(squirrel.Lt{"b.created_at": window.EndDate.AddDate(0, 0, 1).Format(time.DateOnly)}).
		Where("b.deleted_at IS NULL")

	// Bounded levels scan the most recent rows first: a deliberate bias
	// toward recent activity, not a random sample.
	if cap := level.RowCap(); cap > 0 {
		scoped = scoped.OrderBy("b.created_at DESC").Limit(cap)
	}

	scopedSQL, scopedArgs, err := scoped.ToSql()
	if err != nil {
		return "", nil, err
	}

	full := "WITH scoped AS (" + scopedSQL + ") " +
		strings.Join([]string{armTotal, armStatus, armSource, armMethod}, " UNION ALL ")
	args := append(scopedArgs, paymentStatusConfirmed)

	full, err = squirrel.Dollar.ReplacePlaceholders(full)
	if err != nil {
		return "", nil, err
	}

	return full, args, nil
}

const paymentStatusConfirmed = "paid"

// statusName maps the numeric booking status to its reporting label.
func statusName(code string) string {
	switch code {
	case "1":
		return "active"
	case "2":
		return "cancelled"
	case "3":
		return "partially_cancelled"
	default:
		return "status_" + code
	}
}
