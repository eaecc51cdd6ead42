package Controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Chidinma123456/AvaBuddie/Models"

	"github.com/gin-gonic/gin"
)

// connect seeds an approved patient-doctor relationship directly.
func connect(t *testing.T, patientID, doctorID uint) {
	t.Helper()
	relationship := Models.PatientDoctorRelationship{PatientID: patientID, DoctorID: doctorID}
	if err := Models.DB.Create(&relationship).Error; err != nil {
		t.Fatalf("failed to seed relationship: %v", err)
	}
}

func createConsultation(t *testing.T, as Models.Profile) Models.AIConsultation {
	t.Helper()
	w := call(t, CreateConsultation, as, gin.H{
		"symptoms": "persistent cough, mild fever",
		"priority": Models.PriorityMedium,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("CreateConsultation status = %d, body = %s", w.Code, w.Body.String())
	}
	var consultation Models.AIConsultation
	if err := json.Unmarshal(w.Body.Bytes(), &consultation); err != nil {
		t.Fatalf("failed to decode consultation: %v", err)
	}
	return consultation
}

func TestSendReportRequiresRelationship(t *testing.T) {
	setupTestDB(t)
	patient := newPatient(t, "amara")
	_, doctor := newDoctor(t, "okafor")
	consultation := createConsultation(t, patient)

	// Unconnected doctor refuses the report.
	w := call(t, SendReport, patient, gin.H{
		"consultation_id": consultation.ID,
		"doctor_id":       doctor.ID,
		"summary":         "Cough, two weeks",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("unconnected SendReport status = %d, want %d", w.Code, http.StatusForbidden)
	}

	var reports int64
	Models.DB.Model(&Models.ConsultationReport{}).Count(&reports)
	if reports != 0 {
		t.Errorf("report rows = %d, want 0", reports)
	}
}

func TestSendReportNotifiesDoctor(t *testing.T) {
	setupTestDB(t)
	patient := newPatient(t, "amara")
	doctorProfile, doctor := newDoctor(t, "okafor")
	connect(t, patient.ID, doctor.ID)
	consultation := createConsultation(t, patient)

	w := call(t, SendReport, patient, gin.H{
		"consultation_id": consultation.ID,
		"doctor_id":       doctor.ID,
		"summary":         "Cough, two weeks",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("SendReport status = %d, body = %s", w.Code, w.Body.String())
	}

	var report Models.ConsultationReport
	if err := Models.DB.Where("doctor_id = ?", doctor.ID).First(&report).Error; err != nil {
		t.Fatalf("report not created: %v", err)
	}
	if report.Status != Models.ReportSent {
		t.Errorf("report status = %q, want %q", report.Status, Models.ReportSent)
	}
	if report.PatientID != patient.ID || report.ConsultationID != consultation.ID {
		t.Errorf("report = %+v", report)
	}

	var notifications []Models.Notification
	if err := Models.DB.Where("profile_id = ? AND type = ?",
		doctorProfile.ID, Models.NotificationReportReceived).Find(&notifications).Error; err != nil {
		t.Fatalf("failed to query notifications: %v", err)
	}
	if len(notifications) != 1 {
		t.Errorf("report_received notifications = %d, want 1", len(notifications))
	}
}

func TestReportReviewAndRespondFlow(t *testing.T) {
	setupTestDB(t)
	patient := newPatient(t, "amara")
	doctorProfile, doctor := newDoctor(t, "okafor")
	connect(t, patient.ID, doctor.ID)
	consultation := createConsultation(t, patient)

	call(t, SendReport, patient, gin.H{
		"consultation_id": consultation.ID,
		"doctor_id":       doctor.ID,
		"summary":         "Cough, two weeks",
	})
	var report Models.ConsultationReport
	if err := Models.DB.Where("doctor_id = ?", doctor.ID).First(&report).Error; err != nil {
		t.Fatalf("report not created: %v", err)
	}

	if w := call(t, ReviewReport, doctorProfile, gin.H{"report_id": report.ID}); w.Code != http.StatusOK {
		t.Fatalf("ReviewReport status = %d, body = %s", w.Code, w.Body.String())
	}
	if err := Models.DB.First(&report, report.ID).Error; err != nil {
		t.Fatalf("failed to reload report: %v", err)
	}
	if report.Status != Models.ReportReviewed {
		t.Errorf("report status = %q, want %q", report.Status, Models.ReportReviewed)
	}

	w := call(t, RespondReport, doctorProfile, gin.H{
		"report_id": report.ID,
		"response":  "Please book an in-person visit this week.",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("RespondReport status = %d, body = %s", w.Code, w.Body.String())
	}
	if err := Models.DB.First(&report, report.ID).Error; err != nil {
		t.Fatalf("failed to reload report: %v", err)
	}
	if report.Status != Models.ReportResponded {
		t.Errorf("report status = %q, want %q", report.Status, Models.ReportResponded)
	}
	if report.DoctorResponse == "" || report.RespondedAt == nil {
		t.Errorf("response not recorded: %+v", report)
	}

	// The patient hears about the response.
	var notified int64
	Models.DB.Model(&Models.Notification{}).
		Where("profile_id = ? AND read = ?", patient.ID, false).Count(&notified)
	if notified != 1 {
		t.Errorf("patient unread notifications = %d, want 1", notified)
	}
}

func TestReportOwnershipEnforced(t *testing.T) {
	setupTestDB(t)
	patient := newPatient(t, "amara")
	_, doctor := newDoctor(t, "okafor")
	otherDoctorProfile, _ := newDoctor(t, "eze")
	connect(t, patient.ID, doctor.ID)
	consultation := createConsultation(t, patient)

	call(t, SendReport, patient, gin.H{
		"consultation_id": consultation.ID,
		"doctor_id":       doctor.ID,
	})
	var report Models.ConsultationReport
	if err := Models.DB.Where("doctor_id = ?", doctor.ID).First(&report).Error; err != nil {
		t.Fatalf("report not created: %v", err)
	}

	if w := call(t, ReviewReport, otherDoctorProfile, gin.H{"report_id": report.ID}); w.Code != http.StatusForbidden {
		t.Fatalf("foreign ReviewReport status = %d, want %d", w.Code, http.StatusForbidden)
	}
}
