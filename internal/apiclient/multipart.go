package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"sort"
	"strconv"
	"strings"
)

// File is an uploaded file attached to a multipart request.
type File struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// Form is a multipart body: ordered text fields plus files.
type Form struct {
	fields [][2]string
	Files  []File
}

// NewForm creates an empty form.
func NewForm() *Form {
	return &Form{}
}

// Set appends a text field.
func (f *Form) Set(name, value string) *Form {
	f.fields = append(f.fields, [2]string{name, value})
	return f
}

// Attach appends files.
func (f *Form) Attach(files ...File) *Form {
	f.Files = append(f.Files, files...)
	return f
}

// Value returns the first value of the named text field.
func (f *Form) Value(name string) (string, bool) {
	for _, kv := range f.fields {
		if kv[0] == name {
			return kv[1], true
		}
	}
	return "", false
}

// FormFromValue flattens any JSON-encodable value into text fields. Nested
// objects and arrays are sent as their JSON text, null and empty strings are
// skipped.
func FormFromValue(v any) (*Form, error) {
	if f, ok := v.(*Form); ok {
		return f, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode form: %w", err)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("form body must be an object: %w", err)
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	form := NewForm()
	for _, k := range keys {
		raw := bytes.TrimSpace(obj[k])
		if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
			continue
		}
		if raw[0] == '"' {
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return nil, fmt.Errorf("decode field %s: %w", k, err)
			}
			if s == "" {
				continue
			}
			form.Set(k, s)
			continue
		}
		form.Set(k, string(raw))
	}
	return form, nil
}

// encode writes the form as multipart/form-data and returns the body and its
// content type.
func (f *Form) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, kv := range f.fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", err
		}
	}

	for _, file := range f.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%s; filename=%s`,
			strconv.Quote(file.Field), strconv.Quote(file.Filename)))
		ct := strings.TrimSpace(file.ContentType)
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
