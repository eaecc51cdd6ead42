package Controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Chidinma123456/AvaBuddie/Models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateRequest files a patient's connection request to a doctor. At most
// one request exists per (patient, doctor) pair; the unique index rejects a
// repeat and the caller sees it as "already requested". The doctor's
// notification is written in the same transaction.
func CreateRequest(c *gin.Context) {
	var input struct {
		DoctorID uint   `json:"doctor_id" binding:"required"`
		Message  string `json:"message"`
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
	if profile.Role != Models.RolePatient {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only patients can request a doctor"})
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
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Doctor not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve doctor"})
		}
		return
	}

	request := Models.PatientDoctorRequest{
		PatientID: profile.ID,
		DoctorID:  doctor.ID,
		Message:   input.Message,
		Status:    Models.RequestPending,
	}
	if err := tx.Create(&request).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "You have already requested this doctor"})
			return
		}
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notification, err := Models.CreateNotification(tx, doctor.ProfileID, Models.NotificationDoctorRequest,
		"New Patient Request",
		fmt.Sprintf("%s has requested to connect with you", profile.FullName),
		marshalPayload(map[string]interface{}{
			"request_id": request.ID,
			"patient_id": profile.ID,
			"message":    input.Message,
		}))
	if err != nil {
		tx.Rollback()
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	notifyProfile(notification)
	c.JSON(http.StatusOK, gin.H{"message": "Requested Successfully", "request_id": request.ID})
}

// requestForDoctor loads the request and checks the calling doctor owns it.
func requestForDoctor(tx *gorm.DB, c *gin.Context, requestID uint) (Models.PatientDoctorRequest, Models.Doctor, error) {
	profile, err := currentProfile(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return Models.PatientDoctorRequest{}, Models.Doctor{}, err
	}

	var doctor Models.Doctor
	if err := tx.Where("profile_id = ?", profile.ID).First(&doctor).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only doctors can respond to requests"})
		return Models.PatientDoctorRequest{}, Models.Doctor{}, err
	}

	var request Models.PatientDoctorRequest
	if err := tx.First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve request"})
		}
		return Models.PatientDoctorRequest{}, Models.Doctor{}, err
	}

	if request.DoctorID != doctor.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Request is addressed to another doctor"})
		return Models.PatientDoctorRequest{}, Models.Doctor{}, errNotOwner
	}

	return request, doctor, nil
}

// ApproveRequest moves a pending request to approved and creates the durable
// relationship. A retried approval finds the request already approved and
// still guarantees the relationship row exists; the pair's unique index is
// what makes that idempotent, not client-side guarding.
func ApproveRequest(c *gin.Context) {
	var input struct {
		RequestID uint `json:"request_id" binding:"required"`
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

	request, doctor, err := requestForDoctor(tx, c, input.RequestID)
	if err != nil {
		tx.Rollback()
		return
	}

	if request.Status == Models.RequestRejected {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": "Request was already rejected"})
		return
	}

	alreadyApproved := request.Status == Models.RequestApproved
	if !alreadyApproved {
		now := time.Now()
		request.Status = Models.RequestApproved
		request.RespondedAt = &now
		if err := tx.Save(&request).Error; err != nil {
			log.Println(err)
			tx.Rollback()
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	relationship := Models.PatientDoctorRelationship{
		PatientID: request.PatientID,
		DoctorID:  request.DoctorID,
	}
	if err := tx.Where("patient_id = ? AND doctor_id = ?", request.PatientID, request.DoctorID).
		FirstOrCreate(&relationship).Error; err != nil {
		log.Println(err)
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create relationship"})
		return
	}

	var notification Models.Notification
	if !alreadyApproved {
		doctorName := doctor.Profile.FullName
		if doctorName == "" {
			var doctorProfile Models.Profile
			if err := tx.First(&doctorProfile, doctor.ProfileID).Error; err == nil {
				doctorName = doctorProfile.FullName
			}
		}
		notification, err = Models.CreateNotification(tx, request.PatientID, Models.NotificationSystem,
			"Request Approved",
			fmt.Sprintf("Dr. %s has accepted your request", doctorName),
			marshalPayload(map[string]interface{}{"request_id": request.ID, "doctor_id": doctor.ID}))
		if err != nil {
			log.Println(err)
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

	if !alreadyApproved {
		notifyProfile(notification)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request Approved Successfully"})
}

// RejectRequest is terminal: the status flips to rejected, the optional
// reason lands in the patient's notification payload, and no relationship is
// ever created.
func RejectRequest(c *gin.Context) {
	var input struct {
		RequestID uint   `json:"request_id" binding:"required"`
		Reason    string `json:"reason"`
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

	request, doctor, err := requestForDoctor(tx, c, input.RequestID)
	if err != nil {
		tx.Rollback()
		return
	}

	if request.Status != Models.RequestPending {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": "Request was already responded to"})
		return
	}

	now := time.Now()
	request.Status = Models.RequestRejected
	request.RejectionReason = input.Reason
	request.RespondedAt = &now
	if err := tx.Save(&request).Error; err != nil {
		log.Println(err)
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notification, err := Models.CreateNotification(tx, request.PatientID, Models.NotificationSystem,
		"Request Declined",
		"Your doctor request was declined",
		marshalPayload(map[string]interface{}{
			"request_id": request.ID,
			"doctor_id":  doctor.ID,
			"reason":     input.Reason,
		}))
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
	c.JSON(http.StatusOK, gin.H{"message": "Rejected Successfully"})
}

// FetchDoctorRequests lists the calling doctor's pending inbox.
func FetchDoctorRequests(c *gin.Context) {
	profile, err := currentProfile(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	doctor, err := Models.GetDoctorByProfileID(profile.ID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	var requests []Models.PatientDoctorRequest
	if err := Models.DB.Model(&Models.PatientDoctorRequest{}).
		Where("doctor_id = ? AND status = ?", doctor.ID, Models.RequestPending).
		Order("created_at DESC").Find(&requests).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, requests)
}

// FetchMyRequests lists the calling patient's requests with their statuses.
func FetchMyRequests(c *gin.Context) {
	profile, err := currentProfile(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var requests []Models.PatientDoctorRequest
	if err := Models.DB.Model(&Models.PatientDoctorRequest{}).
		Where("patient_id = ?", profile.ID).
		Order("created_at DESC").Find(&requests).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, requests)
}

// FetchMyDoctors lists the doctors related to the calling patient.
func FetchMyDoctors(c *gin.Context) {
	profile, err := currentProfile(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var doctorIDs []uint
	if err := Models.DB.Model(&Models.PatientDoctorRelationship{}).
		Where("patient_id = ?", profile.ID).Select("doctor_id").Find(&doctorIDs).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var doctors []Models.Doctor
	if len(doctorIDs) > 0 {
		if err := Models.DB.Preload("Profile").Find(&doctors, doctorIDs).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, doctors)
}

// FetchMyPatients lists the patients related to the calling doctor.
func FetchMyPatients(c *gin.Context) {
	profile, err := currentProfile(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	doctor, err := Models.GetDoctorByProfileID(profile.ID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	var patientIDs []uint
	if err := Models.DB.Model(&Models.PatientDoctorRelationship{}).
		Where("doctor_id = ?", doctor.ID).Select("patient_id").Find(&patientIDs).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var patients []Models.Profile
	if len(patientIDs) > 0 {
		if err := Models.DB.Find(&patients, patientIDs).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, patients)
}
