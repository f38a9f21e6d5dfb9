package domain

import (
	"fmt"
	"strings"
)

type RegistrationStage int

const (
	StageUploadID RegistrationStage = iota
	StagePersonalInfo
	StageAddress
	StageFaceCapture
)

var stageNames = map[RegistrationStage]string{
	StageUploadID:     "upload_id",
	StagePersonalInfo: "personal_info",
	StageAddress:      "address",
	StageFaceCapture:  "face_capture",
}

func (s RegistrationStage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

func ParseRegistrationStage(name string) (RegistrationStage, error) {
	for stage, n := range stageNames {
		if n == name {
			return stage, nil
		}
	}
	return 0, NewValidationError("stage", "unknown registration stage")
}

type ImageSource string

const (
	ImageSourceUpload ImageSource = "upload"
	ImageSourceCamera ImageSource = "camera"
)

// RegistrationDraft is the in-progress voter registration form. Images are
// base64 strings, optionally prefixed with a data URL header.
type RegistrationDraft struct {
	IDImage         string       `json:"id_image"`
	IDImageSource   ImageSource  `json:"id_image_source"`
	VoterName       string       `json:"voter_name"`
	FatherName      string       `json:"father_name"`
	VoterNumber     string       `json:"voter_number"`
	DateOfBirth     string       `json:"date_of_birth"`
	Gender          string       `json:"gender"`
	Location        LocationPath `json:"location"`
	Street          string       `json:"street"`
	ZipCode         string       `json:"zip_code"`
	FaceImage       string       `json:"face_image"`
	FaceImageSource ImageSource  `json:"face_image_source"`
}

func ValidateStage(stage RegistrationStage, d *RegistrationDraft) error {
	switch stage {
	case StageUploadID:
		if strings.TrimSpace(d.IDImage) == "" {
			return NewValidationError("id_image", "an ID document image is required")
		}
		if d.IDImageSource != ImageSourceUpload && d.IDImageSource != ImageSourceCamera {
			return NewValidationError("id_image_source", "must be 'upload' or 'camera'")
		}
	case StagePersonalInfo:
		required := []struct{ field, value string }{
			{"voter_name", d.VoterName},
			{"father_name", d.FatherName},
			{"voter_number", d.VoterNumber},
			{"date_of_birth", d.DateOfBirth},
			{"gender", d.Gender},
		}
		for _, r := range required {
			if strings.TrimSpace(r.value) == "" {
				return NewValidationError(r.field, "is required")
			}
		}
		if strings.Contains(d.VoterNumber, "/") {
			return NewValidationError("voter_number", "must not contain '/'")
		}
	case StageAddress:
		if err := d.Location.Validate(); err != nil {
			return err
		}
		if strings.TrimSpace(d.Street) == "" {
			return NewValidationError("street", "is required")
		}
		if strings.TrimSpace(d.ZipCode) == "" {
			return NewValidationError("zip_code", "is required")
		}
	case StageFaceCapture:
		if strings.TrimSpace(d.FaceImage) == "" {
			return NewValidationError("face_image", "a face capture is required")
		}
		if d.FaceImageSource != ImageSourceCamera {
			return NewValidationError("face_image_source", "face must be captured with the camera")
		}
	default:
		return NewValidationError("stage", "unknown registration stage")
	}
	return nil
}

// RegistrationWizard walks a draft through the ordered registration stages.
// Moving forward requires the current stage to validate; moving back never does.
type RegistrationWizard struct {
	draft *RegistrationDraft
	stage RegistrationStage
	ready bool
}

func NewRegistrationWizard(draft *RegistrationDraft) *RegistrationWizard {
	return &RegistrationWizard{draft: draft, stage: StageUploadID}
}

func (w *RegistrationWizard) Stage() RegistrationStage {
	return w.stage
}

// Ready reports whether the final stage validated and the draft may be submitted.
func (w *RegistrationWizard) Ready() bool {
	return w.ready
}

func (w *RegistrationWizard) Next() error {
	if err := ValidateStage(w.stage, w.draft); err != nil {
		return err
	}
	if w.stage == StageFaceCapture {
		w.ready = true
		return nil
	}
	w.stage++
	return nil
}

func (w *RegistrationWizard) Back() bool {
	w.ready = false
	if w.stage == StageUploadID {
		return false
	}
	w.stage--
	return true
}

// AdvanceThrough validates every stage up to and including target.
func (w *RegistrationWizard) AdvanceThrough(target RegistrationStage) error {
	for {
		current := w.stage
		if err := w.Next(); err != nil {
			return fmt.Errorf("%s: %w", current, err)
		}
		if current >= target {
			return nil
		}
	}
}
