package rpc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	quotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swapquote_quotes_total",
		Help: "Quotes served, partitioned by whether the swap can execute.",
	}, []string{"can_swap"})

	quoteErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "swapquote_quote_errors_total",
		Help: "Quote requests that failed validation or upstream fetch.",
	})

	statusChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swapquote_status_checks_total",
		Help: "Transaction lifecycle checks, partitioned by resulting stage.",
	}, []string{"stage"})
)
