package payload

import "strings"

type Kind int

const (
	KindRaw Kind = iota
	KindForm
	KindJSON
)

func (k Kind) String() string {
	switch k {
	case KindForm:
		return "form"
	case KindJSON:
		return "json"
	default:
		return "raw"
	}
}

// Payload is the decoded body of a request.
type Payload struct {
	Kind Kind
	Form Form
	JSON interface{}
	Raw  []byte
}

// Decode tries the body as a form, then as JSON, and falls back to the raw
// bytes. It never fails.
func Decode(contentType string, body []byte) Payload {
	if form := DecodeForm(contentType, body); len(form) > 0 {
		return Payload{Kind: KindForm, Form: form}
	}

	if value, ok := DecodeJSON(body); ok {
		return Payload{Kind: KindJSON, JSON: value}
	}

	return Payload{Kind: KindRaw, Raw: body}
}

func (p Payload) String() string {
	var b strings.Builder

	switch p.Kind {
	case KindForm:
		writeForm(&b, p.Form)
	case KindJSON:
		writeJSON(&b, p.JSON)
	default:
		writeBytes(&b, p.Raw)
	}

	return b.String()
}
