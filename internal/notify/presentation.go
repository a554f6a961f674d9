package notify

import "storefront/internal/models"

// Presentation describes how a severity is drawn. It has no other meaning.
type Presentation struct {
	TitleKey string `json:"titleKey"`
	Color    string `json:"color"`
	Icon     string `json:"icon"`
}

var presentations = map[models.Severity]Presentation{
	models.SeverityInfo:    {TitleKey: "dialogTitleSuccess", Color: "green-600", Icon: "ℹ"},
	models.SeverityError:   {TitleKey: "dialogTitleError", Color: "red-600", Icon: "⛔"},
	models.SeverityWarning: {TitleKey: "dialogTitleWarning", Color: "orange-600", Icon: "⚠"},
}

// unrecognized severities are drawn as a darker warning
var fallbackPresentation = Presentation{TitleKey: "dialogTitleWarning", Color: "orange-800", Icon: "⚠"}

func Present(severity models.Severity) Presentation {
	if p, ok := presentations[severity]; ok {
		return p
	}
	return fallbackPresentation
}
