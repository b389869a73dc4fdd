package payload

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/url"
	"strconv"
	"strings"
)

const (
	MediaTypeURLEncoded = "application/x-www-form-urlencoded"
	MediaTypeMultipart  = "multipart/form-data"
)

// File describes an uploaded file of a multipart form.
type File struct {
	Filename    string
	Size        int64
	ContentType string
}

// Field is a form field. Exactly one of Value and File is meaningful.
type Field struct {
	Name  string
	Value string
	File  *File
}

// Form holds the fields of a form body in the order they were sent.
type Form []Field

// DecodeForm parses body according to contentType. Bodies which are not a
// form, or cannot be parsed as one, yield an empty form.
func DecodeForm(contentType string, body []byte) Form {
	mediaType, params, err := mime.ParseMediaType(contentType)

	if err != nil {
		return nil
	}

	switch mediaType {
	case MediaTypeURLEncoded:
		return parseURLEncoded(string(body))
	case MediaTypeMultipart:
		boundary := params["boundary"]

		if boundary == "" {
			return nil
		}

		form, err := parseMultipart(boundary, body)

		if err != nil {
			return nil
		}

		return form
	}

	return nil
}

func parseURLEncoded(body string) Form {
	var form Form

	for _, pair := range strings.FieldsFunc(body, func(r rune) bool { return r == '&' }) {
		key, value := pair, ""

		if i := strings.IndexByte(pair, '='); i >= 0 {
			key, value = pair[:i], pair[i+1:]
		}

		key, err := url.QueryUnescape(key)

		if err != nil {
			continue
		}

		value, err = url.QueryUnescape(value)

		if err != nil {
			continue
		}

		form = append(form, Field{Name: key, Value: value})
	}

	return form
}

func parseMultipart(boundary string, body []byte) (Form, error) {
	var form Form
	reader := multipart.NewReader(bytes.NewReader(body), boundary)

	for {
		part, err := reader.NextPart()

		if errors.Is(err, io.EOF) {
			return form, nil
		}

		if err != nil {
			return nil, err
		}

		data, err := io.ReadAll(part)

		if err != nil {
			return nil, err
		}

		field := Field{Name: part.FormName()}

		if filename := part.FileName(); filename != "" {
			field.File = &File{
				Filename:    filename,
				Size:        int64(len(data)),
				ContentType: part.Header.Get("Content-Type"),
			}
		} else {
			field.Value = string(data)
		}

		form = append(form, field)
	}
}

func writeForm(b *strings.Builder, form Form) {
	var names []string
	grouped := map[string][]Field{}

	for _, field := range form {
		if _, ok := grouped[field.Name]; !ok {
			names = append(names, field.Name)
		}

		grouped[field.Name] = append(grouped[field.Name], field)
	}

	b.WriteByte('{')

	for i, name := range names {
		if i > 0 {
			b.WriteString(", ")
		}

		writeString(b, name)
		b.WriteString(": ")

		fields := grouped[name]

		if len(fields) == 1 {
			writeField(b, fields[0])
			continue
		}

		b.WriteByte('[')

		for j, field := range fields {
			if j > 0 {
				b.WriteString(", ")
			}

			writeField(b, field)
		}

		b.WriteByte(']')
	}

	b.WriteByte('}')
}

func writeField(b *strings.Builder, field Field) {
	if field.File == nil {
		writeString(b, field.Value)
		return
	}

	b.WriteString("UploadFile(filename=")
	writeString(b, field.File.Filename)
	b.WriteString(", size=")
	b.WriteString(strconv.FormatInt(field.File.Size, 10))
	b.WriteString(", content_type=")
	writeString(b, field.File.ContentType)
	b.WriteByte(')')
}
