package model

// PatientRecord is one summary row of the patient directory, as returned by
// the CDN patient-list endpoint.
type PatientRecord struct {
	RefID     string `json:"ref_id"`
	Name      string `json:"name"`
	PatientID string `json:"patient_id"`
	Samples   int    `json:"samples"`
	Date      string `json:"date"`
}

// PatientDetail is the full record fetched when a row is selected. Images
// arrive base64-encoded on the wire and are held decoded here; Notes is the
// pre-joined comment block.
type PatientDetail struct {
	PatientID   string   `json:"patient_id"`
	Name        string   `json:"name"`
	Sex         string   `json:"sex"`
	DateOfBirth string   `json:"date_of_birth"`
	Notes       string   `json:"notes"`
	Images      [][]byte `json:"-"`
}

// Searchable directory columns. The search step matches a substring against
// exactly one of these.
const (
	ColumnRefID     = "Reference ID"
	ColumnName      = "Name"
	ColumnPatientID = "Patient ID"
	ColumnSamples   = "Samples"
	ColumnDate      = "Date"
)
