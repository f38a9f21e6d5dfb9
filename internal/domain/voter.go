package domain

import "time"

type Address struct {
	Street  string `json:"street"`
	ZipCode string `json:"zip_code"`
}

type Voter struct {
	VoterNumber    string       `json:"voter_number"`
	VoterName      string       `json:"voter_name"`
	FatherName     string       `json:"father_name"`
	Gender         string       `json:"gender"`
	DateOfBirth    string       `json:"date_of_birth"`
	Address        Address      `json:"address"`
	FaceImage      string       `json:"face_image,omitempty"`
	Location       LocationPath `json:"location"`
	IDDocumentPath string       `json:"id_document_path,omitempty"`
	RegisteredBy   string       `json:"registered_by,omitempty"`
	Timestamp      time.Time    `json:"timestamp"`
}
