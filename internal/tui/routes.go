package tui

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
)

// RouteKind selects one of the three views.
type RouteKind int

const (
	RouteList RouteKind = iota
	RouteDetail
	RouteEdit
)

// Route addresses a view; ID is set for detail and edit.
type Route struct {
	Kind RouteKind
	ID   int
}

func ListRoute() Route         { return Route{Kind: RouteList} }
func DetailRoute(id int) Route { return Route{Kind: RouteDetail, ID: id} }
func EditRoute(id int) Route   { return Route{Kind: RouteEdit, ID: id} }

// String renders the route as the web path it stands for.
func (r Route) String() string {
	switch r.Kind {
	case RouteDetail:
		return "/recipe/" + strconv.Itoa(r.ID)
	case RouteEdit:
		return "/edit/" + strconv.Itoa(r.ID)
	default:
		return "/"
	}
}

type navigateMsg struct {
	to Route
}

func navigate(to Route) tea.Cmd {
	return func() tea.Msg { return navigateMsg{to: to} }
}
