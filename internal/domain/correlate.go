package domain

// FindAlertForZone returns the first alert in store order whose zone matches
// zoneName, ignoring case and surrounding whitespace. Store order is
// newest-first, so the most recently created alert for a zone wins even when
// an older one is still unacknowledged.
//
// A blank zone name never matches, not even an alert with a blank zone.
func FindAlertForZone(zoneName string, alerts []Alert) (Alert, bool) {
	key := normalizeZoneName(zoneName)
	if key == "" {
		return Alert{}, false
	}
	for i := range alerts {
		if normalizeZoneName(alerts[i].Zone) == key {
			return alerts[i], true
		}
	}
	return Alert{}, false
}
