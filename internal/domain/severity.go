package domain

// Classification is the rendering treatment for a severity label.
type Classification struct {
	// Color is the map fill token.
	Color string `json:"color"`
	// Badge is the list badge color.
	Badge string `json:"badge"`
	Rank  int    `json:"rank"`
}

var (
	classHigh    = Classification{Color: "red", Badge: "#ff4444", Rank: 3}
	classMedium  = Classification{Color: "orange", Badge: "#ff8c00", Rank: 2}
	classLow     = Classification{Color: "yellow", Badge: "#4caf50", Rank: 1}
	classUnknown = Classification{Color: "gray", Badge: "#666", Rank: 0}
)

// Classify maps a severity label to its classification. Labels are matched
// exactly; anything unrecognized (including the empty string or a different
// casing) gets the neutral gray treatment and the lowest rank.
func Classify(severity string) Classification {
	switch Severity(severity) {
	case SeverityHigh:
		return classHigh
	case SeverityMedium:
		return classMedium
	case SeverityLow:
		return classLow
	default:
		return classUnknown
	}
}
