package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	Namespace = "acl"
)

var (
	// RulesCompiledTotal counts successful Compile calls.
	RulesCompiledTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "rules_compiled_total",
			Help:      "Total number of successful rule-set compilations",
		},
	)

	// CompileErrorsTotal counts failed Compile calls.
	CompileErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "compile_errors_total",
			Help:      "Total number of rule-set compilation failures",
		},
	)

	// ActiveRuleCount is the number of rules in the currently loaded set.
	ActiveRuleCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "active_rule_count",
			Help:      "Number of rules in the currently loaded rule set",
		},
	)

	// MatchesTotal counts Match calls, partitioned by whether a rule fired.
	MatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "matches_total",
			Help:      "Total number of rule-set match queries",
		},
		[]string{"result"}, // "matched" or "unmatched"
	)

	// MatchesByOutboundTotal counts matches per resolved outbound name.
	MatchesByOutboundTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "matches_by_outbound_total",
			Help:      "Total number of matches resolved to each outbound",
		},
		[]string{"outbound"},
	)

	// CacheHitsTotal and CacheMissesTotal track the result cache.
	CacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "cache_hits_total",
			Help:      "Total number of result-cache hits",
		},
	)

	CacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "cache_misses_total",
			Help:      "Total number of result-cache misses",
		},
	)

	// CacheSize is the current number of memoized entries.
	CacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "cache_size",
			Help:      "Current number of entries held in the result cache",
		},
	)

	// GeoLoadsTotal counts GeoLoader calls, partitioned by kind and outcome.
	GeoLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "geo_loads_total",
			Help:      "Total number of GeoIP/GeoSite load attempts",
		},
		[]string{"kind", "result"}, // kind: "geoip"/"geosite"; result: "ok"/"error"
	)

	// OutboundDialsTotal counts dial attempts made by outbound collaborators.
	OutboundDialsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "outbound_dials_total",
			Help:      "Total number of outbound dial attempts",
		},
		[]string{"outbound", "result"}, // result: "ok"/"error"
	)

	// ServerStartTime records the process start time.
	ServerStartTime = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "server_start_time_seconds",
			Help:      "Unix timestamp of server start time",
		},
	)
)

// RegisterAll registers every metric with the given registry.
func RegisterAll(registry *prometheus.Registry) {
	registry.MustRegister(
		RulesCompiledTotal,
		CompileErrorsTotal,
		ActiveRuleCount,
		MatchesTotal,
		MatchesByOutboundTotal,
		CacheHitsTotal,
		CacheMissesTotal,
		CacheSize,
		GeoLoadsTotal,
		OutboundDialsTotal,
		ServerStartTime,
	)
}

// RegisterDefault registers every metric with the default registry. Callers
// (NewServer) guard this with a sync.Once: registering the same collector
// twice on prometheus.DefaultRegisterer panics.
func RegisterDefault() {
	prometheus.MustRegister(
		RulesCompiledTotal,
		CompileErrorsTotal,
		ActiveRuleCount,
		MatchesTotal,
		MatchesByOutboundTotal,
		CacheHitsTotal,
		CacheMissesTotal,
		CacheSize,
		GeoLoadsTotal,
		OutboundDialsTotal,
		ServerStartTime,
	)
}
