package analyzing

import (
	"sort"

	"github.com/sysantonio/api-boukii-sub001/internal/domain"
	"github.com/sysantonio/api-boukii-sub001/pkg/utils"
)

// builtMetrics is the output of the metrics builder: every derived KPI and
// breakdown of the dashboard, before assembly into a document.
type builtMetrics struct {
	KPIs      domain.ExecutiveKPIs
	Sources   []domain.BreakdownRow
	Methods   []domain.BreakdownRow
	Financial domain.FinancialSummary
}

// buildMetrics derives the dashboard KPIs from one raw aggregate. Pure and
// deterministic: no I/O, no re-querying, and every ratio guards its
// denominator so a zero always yields 0, never NaN or Inf.
func buildMetrics(raw *domain.RawAggregate) builtMetrics {
	prod := raw.Production

	kpis := domain.ExecutiveKPIs{
		TotalBookings:        prod.Count + raw.Test.Count,
		ProductionBookings:   prod.Count,
		TestBookingsExcluded: raw.Test.Count,
		RevenueExpected:      utils.RoundWithTwoDecimalPlace(prod.ExpectedSum),
		RevenuePaid:          utils.RoundWithTwoDecimalPlace(prod.PaidSum),
		PaymentEfficiency:    percentage(prod.PaidSum, prod.ExpectedSum),
		AverageBookingValue:  ratio(prod.ExpectedSum, float64(prod.Count)),
		ConversionRate:       percentage(prod.PaidExpectedSum, prod.ExpectedSum),
	}

	financial := domain.FinancialSummary{
		RevenueExpected:   utils.RoundWithTwoDecimalPlace(prod.ExpectedSum),
		RevenueActual:     utils.RoundWithTwoDecimalPlace(prod.ActualSum),
		RevenuePaid:       utils.RoundWithTwoDecimalPlace(prod.PaidSum),
		OutstandingAmount: utils.RoundWithTwoDecimalPlace(prod.ActualSum - prod.PaidSum),
		StatusBreakdown:   buildBreakdown(raw.ByStatus, weighByCount),
	}

	return builtMetrics{
		KPIs:      kpis,
		Sources:   buildBreakdown(raw.BySource, weighByCount),
		Methods:   buildBreakdown(raw.ByMethod, weighByPaid),
		Financial: financial,
	}
}

type weighFunc func(domain.AggregateBucket) (weight float64, revenue float64)

func weighByCount(b domain.AggregateBucket) (float64, float64) {
	return float64(b.Count), b.ExpectedSum
}

func weighByPaid(b domain.AggregateBucket) (float64, float64) {
	return b.PaidSum, b.PaidSum
}

// buildBreakdown renders a sparse breakdown list: entries whose count and
// revenue are both zero are omitted, never emitted as zero rows. Percentages
// are shares of the included entries, one decimal place.
func buildBreakdown(buckets map[string]domain.AggregateBucket, weigh weighFunc) []domain.BreakdownRow {
	rows := make([]domain.BreakdownRow, 0, len(buckets))

	var total float64
	for key, bucket := range buckets {
		weight, revenue := weigh(bucket)
		if bucket.Count == 0 && revenue == 0 {
			continue
		}
		total += weight
		rows = append(rows, domain.BreakdownRow{
			Key:     key,
			Count:   bucket.Count,
			Revenue: utils.RoundWithTwoDecimalPlace(revenue),
		})
	}

	for i := range rows {
		weight, _ := weigh(buckets[rows[i].Key])
		rows[i].Percentage = sharePercentage(weight, total)
	}

	sort.Slice(rows, func(i, j int) bool {
		wi, _ := weigh(buckets[rows[i].Key])
		wj, _ := weigh(buckets[rows[j].Key])
		if wi != wj {
			return wi > wj
		}
		return rows[i].Key < rows[j].Key
	})

	return rows
}

// percentage is part/total*100 rounded to two decimals, 0 when total is 0.
func percentage(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return utils.RoundWithTwoDecimalPlace(part / total * 100)
}

// ratio is part/n rounded to two decimals, 0 when n is 0.
func ratio(part, n float64) float64 {
	if n == 0 {
		return 0
	}
	return utils.RoundWithTwoDecimalPlace(part / n)
}

// sharePercentage is part/total*100 rounded to one decimal, 0 when total is 0.
func sharePercentage(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return utils.RoundWithOneDecimalPlace(part / total * 100)
}
