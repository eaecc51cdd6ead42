package Controllers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/Chidinma123456/AvaBuddie/Models"

	"github.com/gin-gonic/gin"
)

func TestRegisterCreatesUserAndProfile(t *testing.T) {
	setupTestDB(t)
	t.Setenv("API_SECRET", "test-secret")

	w := call(t, Register, Models.Profile{}, gin.H{
		"email":     "Amara@Example.com",
		"password":  "secret123",
		"full_name": "Amara Obi",
		"role":      Models.RolePatient,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Register status = %d, body = %s", w.Code, w.Body.String())
	}

	// Email is normalized at save time.
	var user Models.User
	if err := Models.DB.Where("email = ?", "amara@example.com").First(&user).Error; err != nil {
		t.Fatalf("registered user not found: %v", err)
	}
	if user.Password == "secret123" {
		t.Error("password stored in plaintext")
	}

	profile, err := Models.GetProfileByUserID(user.ID)
	if err != nil {
		t.Fatalf("profile not created: %v", err)
	}
	if profile.Role != Models.RolePatient || profile.FullName != "Amara Obi" {
		t.Errorf("profile = %+v", profile)
	}
}

func TestRegisterDoctorGetsUnverifiedRecord(t *testing.T) {
	setupTestDB(t)

	w := call(t, Register, Models.Profile{}, gin.H{
		"email":     "okafor@example.com",
		"password":  "secret123",
		"full_name": "Dr. Okafor",
		"role":      Models.RoleDoctor,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Register status = %d, body = %s", w.Code, w.Body.String())
	}

	var user Models.User
	if err := Models.DB.Where("email = ?", "okafor@example.com").First(&user).Error; err != nil {
		t.Fatalf("registered user not found: %v", err)
	}
	profile, err := Models.GetProfileByUserID(user.ID)
	if err != nil {
		t.Fatalf("profile not created: %v", err)
	}
	doctor, err := Models.GetDoctorByProfileID(profile.ID)
	if err != nil {
		t.Fatalf("doctor record not created: %v", err)
	}
	if doctor.IsVerified {
		t.Error("freshly registered doctor is verified")
	}
	if doctor.LicenseNumber != "PENDING-VERIFICATION" {
		t.Errorf("license = %q", doctor.LicenseNumber)
	}
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	setupTestDB(t)

	w := call(t, Register, Models.Profile{}, gin.H{
		"email":    "x@example.com",
		"password": "secret123",
		"role":     "admin",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Register status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	var users int64
	Models.DB.Model(&Models.User{}).Count(&users)
	if users != 0 {
		t.Errorf("users created = %d, want 0", users)
	}
}

func TestLoginReturnsTokenAndRole(t *testing.T) {
	setupTestDB(t)
	t.Setenv("API_SECRET", "test-secret")

	if w := call(t, Register, Models.Profile{}, gin.H{
		"email":    "amara@example.com",
		"password": "secret123",
	}); w.Code != http.StatusOK {
		t.Fatalf("Register status = %d", w.Code)
	}

	w := call(t, Login, Models.Profile{}, gin.H{
		"email":    "amara@example.com",
		"password": "secret123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Login status = %d, body = %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, `"jwt"`) || !strings.Contains(body, `"role":"patient"`) {
		t.Errorf("login body = %s", body)
	}

	// Wrong password is refused without leaking which part failed.
	w = call(t, Login, Models.Profile{}, gin.H{
		"email":    "amara@example.com",
		"password": "wrong",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("wrong-password Login status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestDeleteUserPurgesOwnedRows(t *testing.T) {
	setupTestDB(t)
	chat := newOfflineChatController(t)
	patient := newPatient(t, "amara")
	_, doctor := newDoctor(t, "okafor")

	if w := call(t, CreateRequest, patient, gin.H{"doctor_id": doctor.ID}); w.Code != http.StatusOK {
		t.Fatalf("CreateRequest status = %d", w.Code)
	}
	session := createSession(t, chat, patient, "Chat")
	message := Models.ChatMessage{ChatSessionID: session.ID, Sender: Models.SenderUser, Text: "hello"}
	if err := Models.AppendChatMessage(Models.DB, &message); err != nil {
		t.Fatalf("AppendChatMessage: %v", err)
	}
	createConsultation(t, patient)
	seedNotification(t, patient.ID, false)

	if w := call(t, DeleteUser, patient, gin.H{}); w.Code != http.StatusOK {
		t.Fatalf("DeleteUser status = %d, body = %s", w.Code, w.Body.String())
	}

	remaining := func(model interface{}, query string, args ...interface{}) int64 {
		var count int64
		Models.DB.Unscoped().Model(model).Where(query, args...).Count(&count)
		return count
	}
	if n := remaining(&Models.User{}, "id = ?", patient.UserID); n != 0 {
		t.Errorf("user rows = %d, want 0", n)
	}
	if n := remaining(&Models.Profile{}, "id = ?", patient.ID); n != 0 {
		t.Errorf("profile rows = %d, want 0", n)
	}
	if n := remaining(&Models.ChatSession{}, "patient_id = ?", patient.ID); n != 0 {
		t.Errorf("chat session rows = %d, want 0", n)
	}
	if n := remaining(&Models.ChatMessage{}, "chat_session_id = ?", session.ID); n != 0 {
		t.Errorf("chat message rows = %d, want 0", n)
	}
	if n := remaining(&Models.Notification{}, "profile_id = ?", patient.ID); n != 0 {
		t.Errorf("notification rows = %d, want 0", n)
	}
	if n := remaining(&Models.PatientDoctorRequest{}, "patient_id = ?", patient.ID); n != 0 {
		t.Errorf("request rows = %d, want 0", n)
	}
	if n := remaining(&Models.AIConsultation{}, "patient_id = ?", patient.ID); n != 0 {
		t.Errorf("consultation rows = %d, want 0", n)
	}

	// The doctor's own account and inbox are untouched.
	if n := remaining(&Models.Doctor{}, "id = ?", doctor.ID); n != 1 {
		t.Errorf("doctor rows = %d, want 1", n)
	}
}

func TestLoginRefusesFrozenUser(t *testing.T) {
	setupTestDB(t)
	t.Setenv("API_SECRET", "test-secret")

	call(t, Register, Models.Profile{}, gin.H{
		"email":    "amara@example.com",
		"password": "secret123",
	})
	if err := Models.DB.Model(&Models.User{}).Where("email = ?", "amara@example.com").
		Update("is_frozen", true).Error; err != nil {
		t.Fatalf("failed to freeze user: %v", err)
	}

	w := call(t, Login, Models.Profile{}, gin.H{
		"email":    "amara@example.com",
		"password": "secret123",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("frozen Login status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}
