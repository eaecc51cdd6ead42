package Controllers

import (
	"log"
	"net/http"
	"time"

	"github.com/Chidinma123456/AvaBuddie/Models"
	"github.com/Chidinma123456/AvaBuddie/Utils/Token"

	"github.com/gin-gonic/gin"
)

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// Register creates the auth user and its profile in one transaction. Doctor
// signups also get an unverified doctor record with placeholder credentials,
// to be corrected later by an operator.
func Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := input.Role
	if role == "" {
		role = Models.RolePatient
	}
	if role != Models.RolePatient && role != Models.RoleHealthWorker && role != Models.RoleDoctor {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	tx := Models.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	user := Models.User{}
	user.Email = input.Email
	user.Password = input.Password

	if _, err := user.SaveUser(tx); err != nil {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile := Models.Profile{
		UserID:   user.ID,
		Role:     role,
		FullName: input.FullName,
	}
	if err := tx.Create(&profile).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if role == Models.RoleDoctor {
		doctor := Models.Doctor{
			ProfileID:     profile.ID,
			LicenseNumber: "PENDING-VERIFICATION",
			IsVerified:    false,
		}
		if err := tx.Create(&doctor).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": "validated"})
}

func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uid, token, err := Models.LoginCheck(input.Email, input.Password)

	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email or password is incorrect."})
		return
	}

	user, _ := Models.GetUserByID(uid)

	if user.IsFrozen {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User Frozen"})
		return
	}

	profile, err := Models.GetProfileByUserID(uid)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Login Successful", "jwt": token, "role": profile.Role})
}

func CurrentUser(c *gin.Context) {
	profile, err := currentProfile(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := Models.GetUserByID(profile.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var output struct {
		ID        uint   `json:"ID"`
		Email     string `json:"email"`
		ProfileID uint   `json:"profile_id"`
		Role      string `json:"role"`
		FullName  string `json:"full_name"`
	}
	output.ID = user.ID
	output.Email = user.Email
	output.ProfileID = profile.ID
	output.Role = profile.Role
	output.FullName = profile.FullName
	c.JSON(http.StatusOK, gin.H{"message": "success", "data": output})
}

// UpdateProfile edits the caller's own medical metadata.
func UpdateProfile(c *gin.Context) {
	var input struct {
		FullName         string `json:"full_name"`
		Phone            string `json:"phone"`
		DateOfBirth      string `json:"date_of_birth"`
		Allergies        string `json:"allergies"`
		Medications      string `json:"medications"`
		EmergencyContact string `json:"emergency_contact"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	profile, err := currentProfile(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	profile.FullName = input.FullName
	profile.Phone = input.Phone
	profile.DateOfBirth = input.DateOfBirth
	profile.Allergies = input.Allergies
	profile.Medications = input.Medications
	profile.EmergencyContact = input.EmergencyContact

	if err := Models.DB.Save(&profile).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

func SaveFCM(c *gin.Context) {
	var input struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user_id, err := Token.ExtractTokenID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	deviceToken := Models.DeviceToken{UserID: user_id, Value: input.Token}
	if err := Models.DB.Save(&deviceToken).Error; err != nil {
		log.Println(err)
	}
	c.JSON(http.StatusOK, nil)
}

func Logout(c *gin.Context) {
	token, err := Token.ExtractJWT(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	claims := token.Claims
	_ = claims
	c.JSON(http.StatusOK, gin.H{"message": "Logged Out", "exp": time.Now()})
}

// DeleteUser removes the account and every row the profile owns: chat
// sessions and messages, notifications, requests, relationships,
// consultations and reports, all in one transaction.
func DeleteUser(c *gin.Context) {
	profile, err := currentProfile(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	tx := Models.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	purge := func(model interface{}, query string, args ...interface{}) bool {
		if err := tx.Unscoped().Where(query, args...).Delete(model).Error; err != nil {
			log.Println(err)
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete account data"})
			return false
		}
		return true
	}

	var sessionIDs []uint
	if err := tx.Model(&Models.ChatSession{}).
		Where("patient_id = ?", profile.ID).Select("id").Find(&sessionIDs).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete account data"})
		return
	}
	if len(sessionIDs) > 0 {
		if !purge(&Models.ChatMessage{}, "chat_session_id IN ?", sessionIDs) {
			return
		}
	}
	if !purge(&Models.ChatSession{}, "patient_id = ?", profile.ID) ||
		!purge(&Models.Notification{}, "profile_id = ?", profile.ID) ||
		!purge(&Models.PatientDoctorRequest{}, "patient_id = ?", profile.ID) ||
		!purge(&Models.PatientDoctorRelationship{}, "patient_id = ?", profile.ID) ||
		!purge(&Models.ConsultationReport{}, "patient_id = ?", profile.ID) ||
		!purge(&Models.AIConsultation{}, "patient_id = ?", profile.ID) {
		return
	}

	// A doctor account also owns its side of the workflow rows.
	var doctor Models.Doctor
	if err := tx.Where("profile_id = ?", profile.ID).First(&doctor).Error; err == nil {
		if !purge(&Models.PatientDoctorRequest{}, "doctor_id = ?", doctor.ID) ||
			!purge(&Models.PatientDoctorRelationship{}, "doctor_id = ?", doctor.ID) ||
			!purge(&Models.ConsultationReport{}, "doctor_id = ?", doctor.ID) ||
			!purge(&Models.Doctor{}, "id = ?", doctor.ID) {
			return
		}
	}

	if !purge(&Models.DeviceToken{}, "user_id = ?", profile.UserID) ||
		!purge(&Models.Profile{}, "id = ?", profile.ID) ||
		!purge(&Models.User{}, "id = ?", profile.UserID) {
		return
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account Deleted Successfully"})
}
