package models

import "github.com/a-h/templ"

type NavItem struct {
	Name string
	URL  string
}

type Navigation struct {
	Items []NavItem
}

type LayoutTempl struct {
	Title     string
	User      *User
	Nav       Navigation
	ActiveNav string
	Content   templ.Component
}

var MainNav = Navigation{
	Items: []NavItem{
		{Name: "Dashboard", URL: "/dashboard"},
	},
}

var OfflineNav = Navigation{
	Items: []NavItem{
		{Name: "Login", URL: "/login"},
		{Name: "Register", URL: "/register"},
	},
}
