package Controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/Chidinma123456/AvaBuddie/Models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// FetchDoctors lists the verified doctor directory with profile info joined.
func FetchDoctors(c *gin.Context) {
	var doctors []Models.Doctor
	if err := Models.DB.Model(&Models.Doctor{}).Where("is_verified = ?", true).
		Preload("Profile").Find(&doctors).Error; err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, doctors)
}

func FetchDoctor(c *gin.Context) {
	var input struct {
		ID uint `json:"id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var doctor Models.Doctor
	if err := Models.DB.Preload("Profile").First(&doctor, input.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Doctor not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve doctor"})
		}
		return
	}
	c.JSON(http.StatusOK, doctor)
}

// UpdateDoctorCredentials lets a doctor correct their own placeholder
// credentials. Editing credentials drops the verified flag until an operator
// confirms them again.
func UpdateDoctorCredentials(c *gin.Context) {
	var input struct {
		LicenseNumber     string  `json:"license_number"`
		Specialties       string  `json:"specialties"`
		YearsOfExperience int     `json:"years_of_experience"`
		ConsultationFee   float64 `json:"consultation_fee"`
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

	doctor, err := Models.GetDoctorByProfileID(profile.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	doctor.LicenseNumber = input.LicenseNumber
	doctor.Specialties = input.Specialties
	doctor.YearsOfExperience = input.YearsOfExperience
	doctor.ConsultationFee = input.ConsultationFee
	doctor.IsVerified = false

	if err := Models.DB.Save(&doctor).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Credentials updated, pending verification"})
}

// VerifyDoctor is the operator action confirming a doctor's credentials.
func VerifyDoctor(c *gin.Context) {
	var input struct {
		DoctorID uint `json:"doctor_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx := Models.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var doctor Models.Doctor
	if err := tx.First(&doctor, input.DoctorID).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusNotFound, gin.H{"error": "Doctor not found"})
		return
	}

	if err := tx.Model(&doctor).Update("is_verified", true).Error; err != nil {
		log.Println(err)
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notification, err := Models.CreateNotification(tx, doctor.ProfileID, Models.NotificationSystem,
		"Credentials Verified", "Your doctor credentials have been verified. Patients can now find you in the directory.", "")
	if err != nil {
		log.Println(err)
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	notifyProfile(notification)
	c.JSON(http.StatusOK, gin.H{"message": "Doctor verified"})
}
