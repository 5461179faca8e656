package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/medml/medcli/internal/client/models"
)

func (c *Client) ListPatients(ctx context.Context, q models.PatientQuery) (*models.Page[models.Patient], error) {
	var out models.Page[models.Patient]
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/api/v1/patients/", Query: q.Params()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetPatient(ctx context.Context, id int64) (*models.Patient, error) {
	var out models.Patient
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: fmt.Sprintf("/api/v1/patients/%d/", id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePatient(ctx context.Context, in models.PatientInput) (*models.Patient, error) {
	var out models.Patient
	if err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/api/v1/patients/", Body: JSONBody{Value: in}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePatient changes the fields set in upd and returns the stored record.
func (c *Client) UpdatePatient(ctx context.Context, id int64, upd models.PatientUpdate) (*models.Patient, error) {
	var out models.Patient
	req := Request{Method: http.MethodPatch, Path: fmt.Sprintf("/api/v1/patients/%d/", id), Body: JSONBody{Value: upd}}
	if err := c.Do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPatientTransactions lists the predictions made for one patient.
func (c *Client) GetPatientTransactions(ctx context.Context, id int64, q models.PageQuery) (*models.Page[models.Transaction], error) {
	var out models.Page[models.Transaction]
	path := fmt.Sprintf("/api/v1/patients/%d/transactions/", id)
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: q.Params()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
