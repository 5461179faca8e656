package models

// MetricsSummary holds the dashboard headline numbers.
type MetricsSummary struct {
	TotalPatients    int     `json:"total_patients"`
	TotalPredictions int     `json:"total_predictions"`
	TodayPredictions int     `json:"today_predictions"`
	AvgConfidence    float64 `json:"avg_confidence"`
	Date             string  `json:"date"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type DailySeries struct {
	Series []DailyCount `json:"series"`
}

type DiagnosisCount struct {
	Diagnosis string `json:"diagnosis"`
	Count     int    `json:"count"`
}

type DiagnosisDistribution struct {
	Distribution []DiagnosisCount `json:"distribution"`
}

// ReportSummary is the date-ranged report. Dates are YYYY-MM-DD.
type ReportSummary struct {
	StartDate        string           `json:"start_date"`
	EndDate          string           `json:"end_date"`
	TotalPatients    int              `json:"total_patients"`
	TotalPredictions int              `json:"total_predictions"`
	AvgConfidence    float64          `json:"avg_confidence"`
	ByDiagnosis      []DiagnosisCount `json:"by_diagnosis"`
}
