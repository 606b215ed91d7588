package chat

import "fmt"

// OutboundMessage is the platform-agnostic response value: plain text, a
// card, or annotated text for mention messages.
type OutboundMessage struct {
	Text           string          `json:"text,omitempty"`
	Cards          []Card          `json:"cards,omitempty"`
	Annotations    []Annotation    `json:"annotations,omitempty"`
	ActionResponse *ActionResponse `json:"actionResponse,omitempty"`
}

type ActionResponse struct {
	Type string `json:"type"`
}

type Card struct {
	Header   *CardHeader   `json:"header,omitempty"`
	Sections []CardSection `json:"sections"`
}

type CardHeader struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
}

type CardSection struct {
	Widgets []Widget `json:"widgets"`
}

type Widget struct {
	TextParagraph *TextParagraph `json:"textParagraph,omitempty"`
	Buttons       []Button       `json:"buttons,omitempty"`
}

type TextParagraph struct {
	Text string `json:"text"`
}

type Button struct {
	TextButton TextButton `json:"textButton"`
}

type TextButton struct {
	Text    string  `json:"text"`
	OnClick OnClick `json:"onClick"`
}

type OnClick struct {
	Action ButtonAction `json:"action"`
}

type ButtonAction struct {
	ActionMethodName string `json:"actionMethodName"`
}

func Text(msg string) *OutboundMessage {
	return &OutboundMessage{Text: msg}
}

func Textf(format string, args ...any) *OutboundMessage {
	return &OutboundMessage{Text: fmt.Sprintf(format, args...)}
}

func NewCard(title, subtitle string, sections ...CardSection) *OutboundMessage {
	return &OutboundMessage{Cards: []Card{{
		Header:   &CardHeader{Title: title, Subtitle: subtitle},
		Sections: sections,
	}}}
}

func TextWidget(format string, args ...any) Widget {
	return Widget{TextParagraph: &TextParagraph{Text: fmt.Sprintf(format, args...)}}
}

func ButtonWidget(label, actionMethod string) Widget {
	return Widget{Buttons: []Button{{
		TextButton: TextButton{
			Text:    label,
			OnClick: OnClick{Action: ButtonAction{ActionMethodName: actionMethod}},
		},
	}}}
}
