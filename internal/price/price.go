// Package price converts display-formatted prices such as "₹1,899" into
// decimal values.
package price

import (
	"context"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/bansalKrishna311/tryo/pkg/logger"
)

var parseFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "tryo_price_parse_failures_total",
	Help: "Display prices that could not be normalized and were treated as 0",
})

// Strip keeps only ASCII digits and '.' from s.
func Strip(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Parse normalizes display without side effects. ok is false when no number
// could be recovered, in which case the value is zero.
func Parse(display string) (v decimal.Decimal, ok bool) {
	s := Strip(display)
	if strings.IndexFunc(s, func(r rune) bool { return r != '.' }) < 0 {
		return decimal.Zero, false
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	s = strings.TrimSuffix(s, ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Normalize is Parse plus the failure signal: a warning on the context logger
// and a metric increment. It never fails.
func Normalize(ctx context.Context, display string) (decimal.Decimal, bool) {
	v, ok := Parse(display)
	if !ok {
		parseFailures.Inc()
		logger.FromContext(ctx).WarnContext(ctx, "price string could not be normalized",
			slog.String("raw", display),
		)
	}
	return v, ok
}
