package Controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Chidinma123456/AvaBuddie/Models"

	"github.com/gin-gonic/gin"
)

func TestFetchDoctorsListsOnlyVerified(t *testing.T) {
	setupTestDB(t)
	patient := newPatient(t, "amara")
	_, verified := newDoctor(t, "okafor")

	_, unverified := newDoctor(t, "eze")
	if err := Models.DB.Model(&unverified).Update("is_verified", false).Error; err != nil {
		t.Fatalf("failed to unverify doctor: %v", err)
	}

	w := call(t, FetchDoctors, patient, gin.H{})
	if w.Code != http.StatusOK {
		t.Fatalf("FetchDoctors status = %d, body = %s", w.Code, w.Body.String())
	}
	var doctors []Models.Doctor
	if err := json.Unmarshal(w.Body.Bytes(), &doctors); err != nil {
		t.Fatalf("failed to decode doctors: %v", err)
	}
	if len(doctors) != 1 || doctors[0].ID != verified.ID {
		t.Errorf("directory = %+v, want only doctor %d", doctors, verified.ID)
	}
	if doctors[0].Profile.FullName != "okafor" {
		t.Errorf("profile not preloaded: %+v", doctors[0])
	}
}

func TestVerifyDoctorNotifies(t *testing.T) {
	setupTestDB(t)
	operator := newPatient(t, "worker")
	if err := Models.DB.Model(&Models.Profile{}).Where("id = ?", operator.ID).
		Update("role", Models.RoleHealthWorker).Error; err != nil {
		t.Fatalf("failed to promote operator: %v", err)
	}

	doctorProfile, doctor := newDoctor(t, "okafor")
	if err := Models.DB.Model(&doctor).Update("is_verified", false).Error; err != nil {
		t.Fatalf("failed to unverify doctor: %v", err)
	}

	if w := call(t, VerifyDoctor, operator, gin.H{"doctor_id": doctor.ID}); w.Code != http.StatusOK {
		t.Fatalf("VerifyDoctor status = %d, body = %s", w.Code, w.Body.String())
	}

	if err := Models.DB.First(&doctor, doctor.ID).Error; err != nil {
		t.Fatalf("failed to reload doctor: %v", err)
	}
	if !doctor.IsVerified {
		t.Error("doctor not verified")
	}

	var notified int64
	Models.DB.Model(&Models.Notification{}).
		Where("profile_id = ? AND read = ?", doctorProfile.ID, false).Count(&notified)
	if notified != 1 {
		t.Errorf("doctor unread notifications = %d, want 1", notified)
	}
}

func TestVerifyDoctorRollsBackWhenNotificationFails(t *testing.T) {
	setupTestDB(t)
	operator := newPatient(t, "worker")
	if err := Models.DB.Model(&Models.Profile{}).Where("id = ?", operator.ID).
		Update("role", Models.RoleHealthWorker).Error; err != nil {
		t.Fatalf("failed to promote operator: %v", err)
	}

	doctorProfile, doctor := newDoctor(t, "okafor")
	if err := Models.DB.Model(&doctor).Update("is_verified", false).Error; err != nil {
		t.Fatalf("failed to unverify doctor: %v", err)
	}

	// With the addressee profile gone the notification insert fails and the
	// whole verification must roll back.
	if err := Models.DB.Unscoped().Delete(&Models.Profile{}, doctorProfile.ID).Error; err != nil {
		t.Fatalf("failed to remove doctor profile: %v", err)
	}

	if w := call(t, VerifyDoctor, operator, gin.H{"doctor_id": doctor.ID}); w.Code != http.StatusBadRequest {
		t.Fatalf("VerifyDoctor status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	if err := Models.DB.First(&doctor, doctor.ID).Error; err != nil {
		t.Fatalf("failed to reload doctor: %v", err)
	}
	if doctor.IsVerified {
		t.Error("verification flag survived a rolled-back transaction")
	}
}

func TestUpdateDoctorCredentialsDropsVerification(t *testing.T) {
	setupTestDB(t)
	doctorProfile, doctor := newDoctor(t, "okafor")

	w := call(t, UpdateDoctorCredentials, doctorProfile, gin.H{
		"license_number":      "MD-9999",
		"specialties":         "cardiology",
		"years_of_experience": 12,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("UpdateDoctorCredentials status = %d, body = %s", w.Code, w.Body.String())
	}

	if err := Models.DB.First(&doctor, doctor.ID).Error; err != nil {
		t.Fatalf("failed to reload doctor: %v", err)
	}
	if doctor.LicenseNumber != "MD-9999" || doctor.Specialties != "cardiology" {
		t.Errorf("credentials not updated: %+v", doctor)
	}
	if doctor.IsVerified {
		t.Error("credential edit kept the verified flag")
	}
}
