package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/medml/medcli/internal/client/models"
)

// UploadImage posts an image for prediction. The patient is identified by
// PatientID when set; otherwise the legacy demographic fields are sent and
// phone only when non-empty.
func (c *Client) UploadImage(ctx context.Context, img models.ImageFile, ref models.PatientRef) (*models.Transaction, error) {
	fields := map[string]string{}
	if ref.HasID() {
		fields["patient_id"] = strconv.FormatInt(ref.PatientID, 10)
	} else {
		fields["patient_name"] = ref.Name
		fields["age"] = strconv.Itoa(ref.Age)
		fields["gender"] = ref.Gender
		fields["mrn"] = ref.MRN
		if ref.Phone != "" {
			fields["phone"] = ref.Phone
		}
	}

	body := MultipartBody{
		Fields: fields,
		Files:  []FilePart{{Field: "image", Filename: img.Name, Content: img.Content}},
	}

	var out models.Transaction
	if err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/api/v1/upload/", Body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetHistory(ctx context.Context, q models.PageQuery) (*models.Page[models.Transaction], error) {
	var out models.Page[models.Transaction]
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/api/v1/history/", Query: q.Params()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	var out models.Transaction
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/api/v1/history/" + url.PathEscape(id) + "/"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
