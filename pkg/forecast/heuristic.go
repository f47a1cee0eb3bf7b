package forecast

import (
	"math"
	"sort"
	"time"

	"github.com/finsight/finsight/pkg/category"
	"github.com/finsight/finsight/pkg/transaction"
)

// categoryForecast predicts one period of spend for a single category from its
// expense history: arithmetic mean plus a linear trend between the first and
// last transaction, scaled to the period length. The result is floored at 0.
func categoryForecast(txs []transaction.Transaction, period Period, now time.Time) (float64, float64) {
	sorted := make([]transaction.Transaction, len(txs))
	copy(sorted, txs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	sum := 0.0
	for _, tx := range sorted {
		sum += tx.Amount
	}
	mean := sum / float64(len(sorted))

	trend := 0.0
	if len(sorted) > 1 {
		first := sorted[0]
		last := sorted[len(sorted)-1]
		elapsedMs := last.Date.Sub(first.Date).Milliseconds()
		if elapsedMs > 0 {
			ratePerMs := (last.Amount - first.Amount) / float64(elapsedMs)
			trend = ratePerMs * float64(period.Length().Milliseconds())
		}
	}

	amount := math.Max(0, mean+trend)
	return amount, categoryConfidence(sorted, mean, now)
}

// categoryConfidence scores prediction reliability in [0, 0.95]:
// 0.6 weight on low relative variance, 0.3 on sample size, 0.1 on recency.
// Fewer than 3 samples always score 0.3.
func categoryConfidence(sorted []transaction.Transaction, mean float64, now time.Time) float64 {
	if len(sorted) < 3 {
		return 0.3
	}

	variance := 0.0
	for _, tx := range sorted {
		variance += (tx.Amount - mean) * (tx.Amount - mean)
	}
	variance /= float64(len(sorted))

	varianceConfidence := 0.0
	if mean != 0 {
		cv := math.Sqrt(variance) / mean
		varianceConfidence = math.Max(0, 1-math.Min(1, cv))
	}

	sampleConfidence := math.Min(1, float64(len(sorted))/10)

	daysSinceLast := now.Sub(sorted[len(sorted)-1].Date).Hours() / 24
	recencyConfidence := math.Max(0, 1-daysSinceLast/30)

	confidence := 0.6*varianceConfidence + 0.3*sampleConfidence + 0.1*recencyConfidence
	return math.Min(0.95, confidence)
}

// monthlyNet is one calendar month's merged income and expense totals.
type monthlyNet struct {
	Year    int
	Month   time.Month
	Income  float64
	Expense float64
}

func (m monthlyNet) Savings() float64 {
	return m.Income - m.Expense
}

// SavingsRate is savings/income, 0 when income is 0.
func (m monthlyNet) SavingsRate() float64 {
	if m.Income == 0 {
		return 0
	}
	return m.Savings() / m.Income
}

// savingsForecast predicts next-period savings from a chronological monthly
// series. Under 3 data points it falls back to a plain average with fixed 0.4
// confidence; otherwise it uses a position-weighted average adjusted by the
// mean successive difference over the last 3 months, with a
// coefficient-of-variation confidence clamped to [0.3, 0.9].
func savingsForecast(months []monthlyNet) (float64, float64) {
	savings := make([]float64, len(months))
	for i, m := range months {
		savings[i] = m.Savings()
	}

	if len(savings) < 3 {
		sum := 0.0
		for _, s := range savings {
			sum += s
		}
		avg := 0.0
		if len(savings) > 0 {
			avg = sum / float64(len(savings))
		}
		return math.Max(0, avg), 0.4
	}

	weightedSum := 0.0
	weightTotal := 0.0
	for i, s := range savings {
		weight := float64(i + 1)
		weightedSum += s * weight
		weightTotal += weight
	}
	weightedAverage := weightedSum / weightTotal

	last3 := savings[len(savings)-3:]
	trend := ((last3[1] - last3[0]) + (last3[2] - last3[1])) / 2

	amount := math.Max(0, weightedAverage+trend)

	variance := 0.0
	for _, s := range savings {
		variance += (s - weightedAverage) * (s - weightedAverage)
	}
	variance /= float64(len(savings))

	cv := 1.0
	if weightedAverage != 0 {
		cv = math.Sqrt(variance) / math.Abs(weightedAverage)
	}
	confidence := math.Max(0.3, math.Min(0.9, 1-math.Min(1, cv)))

	return amount, confidence
}

// mergeMonthly folds per (year, month, kind) sums into a chronological series
// of income/expense pairs.
func mergeMonthly(sums []transaction.MonthlySum) []monthlyNet {
	type key struct {
		year  int
		month time.Month
	}
	byMonth := map[key]*monthlyNet{}
	var order []key
	for _, sum := range sums {
		k := key{sum.Year, sum.Month}
		net, ok := byMonth[k]
		if !ok {
			net = &monthlyNet{Year: sum.Year, Month: sum.Month}
			byMonth[k] = net
			order = append(order, k)
		}
		switch sum.Kind {
		case category.KindIncome:
			net.Income += sum.Total
		case category.KindExpense:
			net.Expense += sum.Total
		}
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].year != order[j].year {
			return order[i].year < order[j].year
		}
		return order[i].month < order[j].month
	})

	months := make([]monthlyNet, 0, len(order))
	for _, k := range order {
		months = append(months, *byMonth[k])
	}
	return months
}
