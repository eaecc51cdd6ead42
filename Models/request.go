package Models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// PatientDoctorRequest is a patient's ask to be connected to a doctor. The
// composite unique index enforces at most one request per pair; a repeat
// create surfaces as a duplicate-key error, not a silent second row.
type PatientDoctorRequest struct {
	gorm.Model
	PatientID       uint       `gorm:"not null;uniqueIndex:idx_request_pair" json:"patient_id"`
	DoctorID        uint       `gorm:"not null;uniqueIndex:idx_request_pair" json:"doctor_id"`
	Message         string     `json:"message"`
	Status          string     `gorm:"size:16;not null;default:pending;check:status IN ('pending','approved','rejected')" json:"status"`
	RejectionReason string     `json:"rejection_reason"`
	RespondedAt     *time.Time `json:"responded_at" gorm:"default:null"`
}

// PatientDoctorRelationship is the durable link created only by request
// approval. The unique pair index is what makes a retried approval idempotent.
type PatientDoctorRelationship struct {
	gorm.Model
	PatientID uint `gorm:"not null;uniqueIndex:idx_relationship_pair" json:"patient_id"`
	DoctorID  uint `gorm:"not null;uniqueIndex:idx_relationship_pair" json:"doctor_id"`
}

func RelationshipExists(db *gorm.DB, patientID, doctorID uint) (bool, error) {
	var count int64
	err := db.Model(&PatientDoctorRelationship{}).
		Where("patient_id = ? AND doctor_id = ?", patientID, doctorID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
