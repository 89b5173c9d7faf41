// Package resource keeps a local, ordered copy of one remote collection and
// reconciles it with the results of create, update and remove calls.
package resource

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/mawahib/portal/internal/apiclient"
)

// Record is an item of a remote collection.
type Record interface {
	RecordID() string
	Validate() error
}

// Patch is a partial update body.
type Patch map[string]any

// PatchFrom converts v into a Patch, dropping its identifier.
func PatchFrom(v any) (Patch, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode patch: %w", err)
	}
	var p Patch
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("patch must be an object: %w", err)
	}
	delete(p, "_id")
	return p, nil
}

// Endpoint describes where a collection lives on the API and how its
// responses are shaped.
type Endpoint[R Record] struct {
	// Name is the singular display name used in notifications.
	Name string
	// Path is the collection path for create, and the prefix of
	// "<Path>/<id>" for update and remove.
	Path string
	// ListPath is used by Load. Defaults to Path.
	ListPath string
	// ListKey is the envelope key of the list response. A bare array is
	// accepted either way.
	ListKey string
	// ItemKey is the envelope key of create and update responses. A bare
	// record is accepted either way.
	ItemKey string
	// Multipart sends mutation bodies as multipart/form-data.
	Multipart bool
}

func (e Endpoint[R]) listPath() string {
	if e.ListPath != "" {
		return e.ListPath
	}
	return e.Path
}

func (e Endpoint[R]) itemPath(id string) string {
	return strings.TrimRight(e.Path, "/") + "/" + url.PathEscape(id)
}

func malformed(method, path string, err error) error {
	return &apiclient.Error{Kind: apiclient.KindMalformed, Method: method, Path: path, Err: err}
}

// decodeList accepts a bare array, an object carrying ListKey, or a lone
// record object, and validates every element.
func (e Endpoint[R]) decodeList(raw json.RawMessage) ([]R, error) {
	raw = bytes.TrimSpace(raw)
	items := []R{}
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		return items, nil
	case raw[0] == '[':
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
	case raw[0] == '{':
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, err
		}
		if inner, ok := envelope[e.ListKey]; ok && e.ListKey != "" {
			return e.decodeList(inner)
		}
		if _, ok := envelope["_id"]; !ok {
			return nil, fmt.Errorf("list response has no %q array", e.ListKey)
		}
		var one R
		if err := json.Unmarshal(raw, &one); err != nil {
			return nil, err
		}
		items = append(items, one)
	default:
		return nil, errors.New("list response is neither an array nor an object")
	}

	for i, item := range items {
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}
	return items, nil
}

// decodeItem accepts a bare record or an object carrying ItemKey. ok is
// false when the response carried no record at all.
func (e Endpoint[R]) decodeItem(raw json.RawMessage) (rec R, ok bool, err error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return rec, false, nil
	}
	if e.ItemKey != "" {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(raw, &envelope); err == nil {
			if inner, found := envelope[e.ItemKey]; found {
				return e.decodeItem(inner)
			}
		}
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return rec, false, err
	}
	if rec.RecordID() == "" {
		return rec, false, nil
	}
	if err := rec.Validate(); err != nil {
		return rec, false, err
	}
	return rec, true, nil
}

// merge overlays p onto rec.
func merge[R Record](rec R, p Patch) (R, error) {
	base, err := json.Marshal(rec)
	if err != nil {
		return rec, err
	}
	var fields map[string]any
	if err := json.Unmarshal(base, &fields); err != nil {
		return rec, err
	}
	for k, v := range p {
		fields[k] = v
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return rec, err
	}
	var out R
	if err := json.Unmarshal(data, &out); err != nil {
		return rec, err
	}
	return out, nil
}
