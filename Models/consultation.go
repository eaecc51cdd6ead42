package Models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ConsultationActive    = "active"
	ConsultationCompleted = "completed"
	ConsultationArchived  = "archived"
)

const (
	PriorityLow       = "low"
	PriorityMedium    = "medium"
	PriorityHigh      = "high"
	PriorityEmergency = "emergency"
)

// AIConsultation is a patient's AI chat analysis session: the derived
// symptoms, vitals and images plus a priority classification.
type AIConsultation struct {
	gorm.Model
	PatientID uint   `gorm:"not null;index" json:"patient_id"`
	Symptoms  string `gorm:"type:text" json:"symptoms"`
	Vitals    string `gorm:"type:text" json:"vitals"`
	Images    string `gorm:"type:text" json:"images"`
	Priority  string `gorm:"size:16;not null;default:low;check:priority IN ('low','medium','high','emergency')" json:"priority"`
	Status    string `gorm:"size:16;not null;default:active;check:status IN ('active','completed','archived')" json:"status"`
}

const (
	ReportSent      = "sent"
	ReportReviewed  = "reviewed"
	ReportResponded = "responded"
)

// ConsultationReport is a patient-initiated snapshot of a consultation sent
// to a specific doctor. Status only moves forward: sent -> reviewed ->
// responded.
type ConsultationReport struct {
	gorm.Model
	ConsultationID uint       `gorm:"not null;index" json:"consultation_id"`
	PatientID      uint       `gorm:"not null;index" json:"patient_id"`
	DoctorID       uint       `gorm:"not null;index" json:"doctor_id"`
	Summary        string     `gorm:"type:text" json:"summary"`
	Status         string     `gorm:"size:16;not null;default:sent;check:status IN ('sent','reviewed','responded')" json:"status"`
	DoctorResponse string     `gorm:"type:text" json:"doctor_response"`
	RespondedAt    *time.Time `json:"responded_at" gorm:"default:null"`
}
