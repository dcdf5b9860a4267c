// Package domain models flood alerts and the zones they are raised against.
//
// # Data Source
//
// Alerts are entered by coordinators through the alerts form and kept as a
// single JSON array under one key in a key-value store (see package
// alertstore). Zones and shelters come from static GeoJSON catalogs (see
// package catalog) and are never modified at runtime.
//
// # Conventions
//
// Store order:
//
//	Alerts are kept newest-first. The most recently created alert is index 0.
//	Every consumer (map correlation, listings, exports) uses this order as-is.
//
// Zone matching:
//
//	An alert belongs to a zone when their names are equal after trimming
//	surrounding whitespace and lower-casing: "  Kochi " matches "kochi".
//	There is no fuzzy or substring matching. When several alerts name the
//	same zone, the first in store order wins [FindAlertForZone].
//
// Severity:
//
//	Three labels, matched exactly and case-sensitively:
//
//	  High   → red    (#ff4444) rank 3
//	  Medium → orange (#ff8c00) rank 2
//	  Low    → yellow (#4caf50) rank 1
//	  other  → gray   (#666)    rank 0
//
//	Unknown labels never cause an error. They render gray and are left out of
//	the per-severity counts in [Aggregate] while still counting toward Total.
//
// Export format:
//
//	ID,Zone,Message,Severity,Time,Acknowledged
//	2,"A","m",High,t,Yes
//
//	Zone and Message are always quoted. In the legacy mode nothing inside a
//	field is escaped, so a quote or comma in a message corrupts its row;
//	[FormatAsEscapedText] doubles embedded quotes instead.
package domain
