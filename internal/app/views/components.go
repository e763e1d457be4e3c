package views

import (
	"github.com/Oudwins/tailwind-merge-go/pkg/twmerge"
	"github.com/a-h/templ"
)

//go:generate templ generate

type BannerType string

const (
	BannerError   BannerType = "error"
	BannerSuccess BannerType = "success"
	BannerInfo    BannerType = "info"
)

var bannerClasses = map[BannerType]string{
	BannerError:   "bg-red-100 border-red-400 text-red-700",
	BannerSuccess: "bg-green-100 border-green-400 text-green-700",
	BannerInfo:    "bg-blue-100 border-blue-400 text-blue-700",
}

type BannerProps struct {
	ID      string
	Type    BannerType
	Message string
	Class   string
}

func bannerClass(props BannerProps) string {
	return twmerge.Merge("mb-4 border px-4 py-3 rounded relative", bannerClasses[props.Type], props.Class)
}

type ButtonProps struct {
	ID    string
	Type  string
	Label string
	Class string
	Attrs templ.Attributes
}

const buttonBase = "inline-flex justify-center py-2 px-4 border border-transparent rounded-md shadow-sm text-sm font-medium text-white bg-indigo-600 hover:bg-indigo-700 focus:outline-none focus:ring-2 focus:ring-offset-2 focus:ring-indigo-500"

func buttonType(props ButtonProps) string {
	if props.Type == "" {
		return "button"
	}
	return props.Type
}

func buttonClass(props ButtonProps) string {
	return twmerge.Merge(buttonBase, props.Class)
}

type InputProps struct {
	ID    string
	Name  string
	Label string
	Type  string
	Value string
	Class string
	Attrs templ.Attributes
}

const inputBase = "mt-1 block w-full border border-gray-300 rounded-md shadow-sm py-2 px-3 focus:outline-none focus:ring-indigo-500 focus:border-indigo-500 sm:text-sm"

func inputType(props InputProps) string {
	if props.Type == "" {
		return "text"
	}
	return props.Type
}

// inputName falls back to the ID so form fields post under their element id.
func inputName(props InputProps) string {
	if props.Name == "" {
		return props.ID
	}
	return props.Name
}

func inputClass(props InputProps) string {
	return twmerge.Merge(inputBase, props.Class)
}
