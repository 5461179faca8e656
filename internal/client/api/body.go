package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"sort"

	"github.com/medml/medcli/internal/common"
)

// Body is a request body. The set of variants is closed: JSONBody and
// MultipartBody.
type Body interface {
	isBody()
}

// JSONBody is encoded with encoding/json.
type JSONBody struct {
	Value any
}

// FilePart is one file of a multipart body.
type FilePart struct {
	Field    string
	Filename string
	Content  []byte
}

// MultipartBody is a form with text fields and files.
type MultipartBody struct {
	Fields map[string]string
	Files  []FilePart
}

func (JSONBody) isBody()      {}
func (MultipartBody) isBody() {}

// encodeBody serializes b and returns the matching Content-Type.
func encodeBody(b Body) (io.Reader, string, error) {
	switch body := b.(type) {
	case nil:
		return nil, common.ContentTypeJSON, nil
	case JSONBody:
		buf, err := json.Marshal(body.Value)
		if err != nil {
			return nil, "", fmt.Errorf("encode json body: %w", err)
		}
		return bytes.NewReader(buf), common.ContentTypeJSON, nil
	case MultipartBody:
		return encodeMultipart(body)
	default:
		return nil, "", fmt.Errorf("unsupported body type %T", b)
	}
}

func encodeMultipart(body MultipartBody) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	// stable field order keeps request bodies reproducible
	keys := make([]string, 0, len(body.Fields))
	for k := range body.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, body.Fields[k]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", k, err)
		}
	}

	for _, f := range body.Files {
		part, err := w.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("create form file %s: %w", f.Field, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, "", fmt.Errorf("write form file %s: %w", f.Field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
