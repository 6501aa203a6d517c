package models

// StudentRow is the roster projection returned by GET /admin/students.
// career, section and status arrive as free text and are classified
// client-side for display and grouping only.
type StudentRow struct {
	ID               int64  `json:"id"`
	DNI              string `json:"dni"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	Corte            string `json:"corte"`
	Section          string `json:"section"`
	Modality         string `json:"modality,omitempty"`
	Career           string `json:"career"`
	TitulationType   string `json:"titulationType"`
	Status           string `json:"status"`
	IncidentCount    int    `json:"incidentCount"`
	ObservationCount int    `json:"observationCount"`
}

// StudentDetail is the per-student superset returned by GET /admin/students/{id}.
type StudentDetail struct {
	StudentRow
	Incidents    []Incident    `json:"incidents"`
	Observations []Observation `json:"observations"`
}

// Incident is a logged event in the student's graduation process. Read-only here.
type Incident struct {
	ID              int64  `json:"id"`
	Stage           string `json:"stage"`
	Date            string `json:"date"`
	Reason          string `json:"reason"`
	Action          string `json:"action"`
	CreatedAt       string `json:"createdAt"`
	CreatedByUserID *int64 `json:"createdByUserId,omitempty"`
}

// Observation is a free-text staff note on the student's record. Read-only here.
type Observation struct {
	ID           int64  `json:"id"`
	Author       string `json:"author"`
	Text         string `json:"text"`
	CreatedAt    string `json:"createdAt"`
	AuthorUserID *int64 `json:"authorUserId,omitempty"`
}

// ImportBatchResult summarises one spreadsheet upload. By the time the
// console receives it the import already happened server-side; failedRows
// is reporting, not something to retry.
type ImportBatchResult struct {
	BatchID      int64  `json:"batchId"`
	Status       string `json:"status"`
	FileName     string `json:"fileName"`
	TotalRows    int    `json:"totalRows"`
	InsertedRows int    `json:"insertedRows"`
	UpdatedRows  int    `json:"updatedRows"`
	FailedRows   int    `json:"failedRows"`
}
