package prometheus

import "time"

// RecordCompile records the outcome of an acl.Compile call.
func RecordCompile(ruleCount int, err error) {
	if err != nil {
		CompileErrorsTotal.Inc()
		return
	}
	RulesCompiledTotal.Inc()
	ActiveRuleCount.Set(float64(ruleCount))
}

// RecordMatch records one Match query outcome and, when it matched, which
// outbound it resolved to.
func RecordMatch(matched bool, outbound string) {
	if matched {
		MatchesTotal.WithLabelValues("matched").Inc()
		MatchesByOutboundTotal.WithLabelValues(outbound).Inc()
		return
	}
	MatchesTotal.WithLabelValues("unmatched").Inc()
}

// RecordCacheLookup records whether a result-cache lookup was a hit or
// miss, and refreshes the current cache size gauge.
func RecordCacheLookup(hit bool, size int) {
	if hit {
		CacheHitsTotal.Inc()
	} else {
		CacheMissesTotal.Inc()
	}
	CacheSize.Set(float64(size))
}

// RecordGeoLoad records a GeoLoader.LoadGeoIP/LoadGeoSite attempt.
func RecordGeoLoad(kind string, err error) {
	if err != nil {
		GeoLoadsTotal.WithLabelValues(kind, "error").Inc()
		return
	}
	GeoLoadsTotal.WithLabelValues(kind, "ok").Inc()
}

// RecordOutboundDial records a dial attempt made by an outbound.
func RecordOutboundDial(outbound string, err error) {
	if err != nil {
		OutboundDialsTotal.WithLabelValues(outbound, "error").Inc()
		return
	}
	OutboundDialsTotal.WithLabelValues(outbound, "ok").Inc()
}

// MarkServerStart records the current time as the process start time.
func MarkServerStart() {
	ServerStartTime.Set(float64(time.Now().Unix()))
}
