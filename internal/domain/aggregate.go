package domain

// Aggregate counts alerts by acknowledgment state and severity. Alerts with
// an unrecognized severity count toward Total (and Acknowledged/Pending) but
// toward none of the per-severity buckets.
func Aggregate(alerts []Alert) AggregateStats {
	var s AggregateStats
	s.Total = len(alerts)
	for i := range alerts {
		if alerts[i].Acknowledged {
			s.Acknowledged++
		}
		switch alerts[i].Severity {
		case SeverityHigh:
			s.HighSeverity++
		case SeverityMedium:
			s.MediumSeverity++
		case SeverityLow:
			s.LowSeverity++
		}
	}
	s.Pending = s.Total - s.Acknowledged
	return s
}
