package metrics

import "github.com/prometheus/client_golang/prometheus"

// LedgerSource provides the values the ledger collector reports.
type LedgerSource interface {
	QueryChainLength() int
	QueryPendingLength() int
	QueryPeerCount() int
}

// LedgerCollector is a prometheus collector that reports the size of the
// chain, the pending pool and the peer set at the time of the scrape.
type LedgerCollector struct {
	src         LedgerSource
	chainLength *prometheus.Desc
	pending     *prometheus.Desc
	peers       *prometheus.Desc
}

// NewLedgerCollector constructs a collector for the specified source.
func NewLedgerCollector(src LedgerSource) *LedgerCollector {
	return &LedgerCollector{
		src: src,
		chainLength: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "ledger", "chain_length"),
			"Number of blocks in the chain",
			nil, nil,
		),
		pending: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "ledger", "pending_transactions"),
			"Number of transactions waiting to be mined",
			nil, nil,
		),
		peers: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "ledger", "known_peers"),
			"Number of registered peer nodes",
			nil, nil,
		),
	}
}

// Describe implements the prometheus.Collector interface.
func (c *LedgerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.chainLength
	ch <- c.pending
	ch <- c.peers
}

// Collect implements the prometheus.Collector interface.
func (c *LedgerCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.chainLength, prometheus.GaugeValue, float64(c.src.QueryChainLength()))
	ch <- prometheus.MustNewConstMetric(c.pending, prometheus.GaugeValue, float64(c.src.QueryPendingLength()))
	ch <- prometheus.MustNewConstMetric(c.peers, prometheus.GaugeValue, float64(c.src.QueryPeerCount()))
}
