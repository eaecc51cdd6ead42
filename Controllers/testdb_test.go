package Controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Chidinma123456/AvaBuddie/Models"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	Models.Migrate(db)
	Models.DB = db
}

// newPatient seeds a user with a patient profile.
func newPatient(t *testing.T, name string) Models.Profile {
	t.Helper()
	user := Models.User{Email: name + "@example.com", Password: "x"}
	if err := Models.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	profile := Models.Profile{UserID: user.ID, Role: Models.RolePatient, FullName: name}
	if err := Models.DB.Create(&profile).Error; err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}
	return profile
}

// newDoctor seeds a user with a doctor profile and a verified doctor record.
func newDoctor(t *testing.T, name string) (Models.Profile, Models.Doctor) {
	t.Helper()
	user := Models.User{Email: name + "@example.com", Password: "x"}
	if err := Models.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	profile := Models.Profile{UserID: user.ID, Role: Models.RoleDoctor, FullName: name}
	if err := Models.DB.Create(&profile).Error; err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}
	doctor := Models.Doctor{ProfileID: profile.ID, LicenseNumber: "MD-1234", IsVerified: true}
	if err := Models.DB.Create(&doctor).Error; err != nil {
		t.Fatalf("failed to create doctor: %v", err)
	}
	return profile, doctor
}

// call invokes a handler as the given profile with a JSON body and returns
// the recorder.
func call(t *testing.T, handler gin.HandlerFunc, as Models.Profile, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBuffer(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("profile", as)

	handler(c)
	return w
}
