package v1

import "github.com/javivarba/chatbots/internal/view"

type ActionResponse struct {
	Success   bool           `json:"success"`
	Performed bool           `json:"performed"`
	Section   string         `json:"section"`
	Version   uint64         `json:"version"`
	Elements  []view.Element `json:"elements"`
}

type FragmentsResponse struct {
	Section  string         `json:"section"`
	Version  uint64         `json:"version"`
	Elements []view.Element `json:"elements"`
}
