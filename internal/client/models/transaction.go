package models

import "time"

// PatientSummary is the patient snapshot embedded in a prediction.
type PatientSummary struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	MRN      string `json:"mrn"`
	Phone    string `json:"phone"`
	Age      int    `json:"age"`
	Gender   string `json:"gender"`
}

// Transaction is one image prediction.
type Transaction struct {
	ID       string `json:"id"`
	ImageURL string `json:"image_url"`

	Diagnosis    string  `json:"diagnosis"`
	Confidence   float64 `json:"confidence"`
	ModelVersion string  `json:"model_version"`

	// ProcessingTime is the model inference time in seconds.
	ProcessingTime float64 `json:"processing_time"`
	// TotalProcessingTime is only set on the upload response.
	TotalProcessingTime float64 `json:"total_processing_time,omitempty"`

	Patient     *int64          `json:"patient"`
	PatientData *PatientSummary `json:"patient_data"`
	UploadedAt  time.Time       `json:"uploaded_at"`
}

// ImageFile is an image to upload.
type ImageFile struct {
	Name    string
	Content []byte
}
