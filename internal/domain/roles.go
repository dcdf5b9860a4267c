package domain

import "strings"

// Role is an already-resolved user role. Nothing in this module enforces
// it; the tables below only describe what each role is offered.
type Role string

const (
	RoleAdmin       Role = "Admin"
	RoleCoordinator Role = "Coordinator"
	RoleResponder   Role = "Responder"
)

// NormalizeRole maps a role string onto a known role, case-insensitively.
// Empty and unknown values resolve to Responder.
func NormalizeRole(value string) Role {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "admin":
		return RoleAdmin
	case "coordinator":
		return RoleCoordinator
	default:
		return RoleResponder
	}
}

// Action is a dashboard shortcut.
type Action struct {
	Key  string `json:"key"`
	Text string `json:"text"`
	Icon string `json:"icon"`
}

// QuickActions lists the dashboard shortcuts offered to a role.
func QuickActions(role Role) []Action {
	actions := []Action{
		{Key: "shelters", Text: "View Shelters", Icon: "🏥"},
		{Key: "alerts", Text: "Check Alerts", Icon: "📋"},
	}
	switch role {
	case RoleAdmin:
		actions = append(actions,
			Action{Key: "reports", Text: "Generate Reports", Icon: "📊"},
			Action{Key: "settings", Text: "System Settings", Icon: "⚙️"},
		)
	case RoleCoordinator:
		actions = append(actions,
			Action{Key: "create-alert", Text: "Create Alert", Icon: "🚨"},
			Action{Key: "team", Text: "Manage Team", Icon: "👥"},
		)
	}
	return actions
}

// Navigation lists the sections shown to a role. Reports are Admin-only.
func Navigation(role Role) []string {
	nav := []string{"dashboard", "map", "shelters", "alerts"}
	if role == RoleAdmin {
		nav = append(nav, "reports")
	}
	return nav
}
