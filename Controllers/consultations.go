package Controllers

import (
	"errors"
	"net/http"

	"github.com/Chidinma123456/AvaBuddie/Models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// consultationForCaller loads a consultation and checks the caller owns it.
func consultationForCaller(c *gin.Context, consultationID uint) (Models.AIConsultation, error) {
	profile, err := currentProfile(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return Models.AIConsultation{}, err
	}

	var consultation Models.AIConsultation
	if err := Models.DB.First(&consultation, consultationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Consultation not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve consultation"})
		}
		return Models.AIConsultation{}, err
	}

	if consultation.PatientID != profile.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Consultation belongs to another patient"})
		return Models.AIConsultation{}, errNotOwner
	}
	return consultation, nil
}

func CreateConsultation(c *gin.Context) {
	var input struct {
		Symptoms string `json:"symptoms"`
		Vitals   string `json:"vitals"`
		Images   string `json:"images"`
		Priority string `json:"priority"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := currentProfile(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	if input.Priority == "" {
		input.Priority = Models.PriorityLow
	}

	consultation := Models.AIConsultation{
		PatientID: profile.ID,
		Symptoms:  input.Symptoms,
		Vitals:    input.Vitals,
		Images:    input.Images,
		Priority:  input.Priority,
		Status:    Models.ConsultationActive,
	}
	if err := Models.DB.Create(&consultation).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, consultation)
}

func FetchMyConsultations(c *gin.Context) {
	profile, err := currentProfile(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var consultations []Models.AIConsultation
	if err := Models.DB.Model(&Models.AIConsultation{}).
		Where("patient_id = ?", profile.ID).
		Order("created_at DESC").Find(&consultations).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, consultations)
}

func FetchConsultation(c *gin.Context) {
	var input struct {
		ConsultationID uint `json:"consultation_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	consultation, err := consultationForCaller(c, input.ConsultationID)
	if err != nil {
		return
	}
	c.JSON(http.StatusOK, consultation)
}

// UpdateConsultation refreshes the derived analysis fields of an active
// consultation.
func UpdateConsultation(c *gin.Context) {
	var input struct {
		ConsultationID uint   `json:"consultation_id" binding:"required"`
		Symptoms       string `json:"symptoms"`
		Vitals         string `json:"vitals"`
		Images         string `json:"images"`
		Priority       string `json:"priority"`
		Status         string `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	consultation, err := consultationForCaller(c, input.ConsultationID)
	if err != nil {
		return
	}

	if input.Symptoms != "" {
		consultation.Symptoms = input.Symptoms
	}
	if input.Vitals != "" {
		consultation.Vitals = input.Vitals
	}
	if input.Images != "" {
		consultation.Images = input.Images
	}
	if input.Priority != "" {
		consultation.Priority = input.Priority
	}
	if input.Status != "" {
		consultation.Status = input.Status
	}

	if err := Models.DB.Save(&consultation).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, consultation)
}

func ArchiveConsultation(c *gin.Context) {
	var input struct {
		ConsultationID uint `json:"consultation_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	consultation, err := consultationForCaller(c, input.ConsultationID)
	if err != nil {
		return
	}

	if err := Models.DB.Model(&consultation).Update("status", Models.ConsultationArchived).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Archived Successfully"})
}
