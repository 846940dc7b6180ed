package types

import "time"

// Event is one inbound chat message, already disambiguated by the
// transport: structured button/list selections arrive in Text as their
// token id, a location share carries coordinates and no text, and an
// image carries a media reference plus its caption.
type Event struct {
	From      string
	Text      string
	Latitude  *float64
	Longitude *float64
	MediaRef  string
}

type DirectiveKind string

const (
	DirectiveText    DirectiveKind = "text"
	DirectiveImage   DirectiveKind = "image"
	DirectiveButtons DirectiveKind = "buttons"
	DirectiveList    DirectiveKind = "list"
)

// Directive is one outbound message the engine asks the chat collaborator
// to render. Image holds a symbolic asset key; URL construction belongs
// to the sender. Pause is a presentation hint honored by the sender
// before delivery, never a concurrency primitive.
type Directive struct {
	Kind    DirectiveKind
	Body    string
	Image   string
	Buttons []Button
	List    *ListSpec
	Pause   time.Duration
}

type Button struct {
	ID    string
	Label string
}

type ListSpec struct {
	ButtonLabel string
	Header      string
	Sections    []ListSection
}

type ListSection struct {
	Title string
	Rows  []ListRow
}

type ListRow struct {
	ID          string
	Title       string
	Description string
}

func TextDirective(body string) Directive {
	return Directive{Kind: DirectiveText, Body: body}
}

func ImageDirective(image, caption string) Directive {
	return Directive{Kind: DirectiveImage, Image: image, Body: caption}
}

func ButtonsDirective(body string, image string, buttons ...Button) Directive {
	return Directive{Kind: DirectiveButtons, Body: body, Image: image, Buttons: buttons}
}

func ListDirective(body, buttonLabel, header string, sections []ListSection) Directive {
	return Directive{Kind: DirectiveList, Body: body, List: &ListSpec{
		ButtonLabel: buttonLabel,
		Header:      header,
		Sections:    sections,
	}}
}
