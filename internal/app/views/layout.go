package views

import "github.com/FACorreiaa/go-ticketing/internal/app/models"

const AppName = "NRC Ticketing"

func pageTitle(data models.LayoutTempl) string {
	if data.Title == "" {
		return AppName
	}
	return data.Title
}

func navClass(item models.NavItem, active string) string {
	if item.Name == active {
		return "text-sm font-semibold text-indigo-600"
	}
	return "text-sm font-medium text-gray-600 hover:text-gray-900"
}
