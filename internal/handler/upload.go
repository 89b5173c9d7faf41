package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mawahib/portal/internal/apiclient"
	"github.com/mawahib/portal/internal/response"
)

// readBody returns the request body as JSON plus the upload in fileField.
// Multipart text fields become JSON strings. On failure the response has
// already been written.
func readBody(c *gin.Context, fileField string, maxBytes int64) (json.RawMessage, []apiclient.File, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)

	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			failBody(c, err)
			return nil, nil, false
		}
		if len(bytes.TrimSpace(body)) == 0 || !json.Valid(body) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
			return nil, nil, false
		}
		return body, nil, true
	}

	if err := c.Request.ParseMultipartForm(maxBytes); err != nil {
		failBody(c, err)
		return nil, nil, false
	}
	form := c.Request.MultipartForm

	values := make(map[string]string, len(form.Value))
	for name, v := range form.Value {
		if len(v) > 0 && name != fileField {
			values[name] = v[0]
		}
	}
	body, err := json.Marshal(values)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return nil, nil, false
	}

	var files []apiclient.File
	if headers := form.File[fileField]; fileField != "" && len(headers) > 0 {
		fh := headers[0]
		f, err := fh.Open()
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
			return nil, nil, false
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			failBody(c, err)
			return nil, nil, false
		}
		files = append(files, apiclient.File{
			Field:       fileField,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return body, files, true
}

func failBody(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		return
	}
	response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
}
