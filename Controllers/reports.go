package Controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Chidinma123456/AvaBuddie/Models"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SendReport snapshots a consultation and sends it to one of the patient's
// own doctors. The report_received notification is written in the same
// transaction.
func SendReport(c *gin.Context) {
	var input struct {
		ConsultationID uint   `json:"consultation_id" binding:"required"`
		DoctorID       uint   `json:"doctor_id" binding:"required"`
		Summary        string `json:"summary"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	consultation, err := consultationForCaller(c, input.ConsultationID)
	if err != nil {
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

	related, err := Models.RelationshipExists(tx, consultation.PatientID, doctor.ID)
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !related {
		tx.Rollback()
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not connected to this doctor"})
		return
	}

	report := Models.ConsultationReport{
		ConsultationID: consultation.ID,
		PatientID:      consultation.PatientID,
		DoctorID:       doctor.ID,
		Summary:        input.Summary,
		Status:         Models.ReportSent,
	}
	if err := tx.Create(&report).Error; err != nil {
		log.Println(err)
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notification, err := Models.CreateNotification(tx, doctor.ProfileID, Models.NotificationReportReceived,
		"Consultation Report Received",
		"A patient has sent you an AI consultation report",
		marshalPayload(map[string]interface{}{
			"report_id":  report.ID,
			"patient_id": consultation.PatientID,
			"priority":   consultation.Priority,
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
	c.JSON(http.StatusOK, gin.H{"message": "Report Sent Successfully", "report_id": report.ID})
}

// reportForDoctor loads a report and checks the calling doctor owns it.
func reportForDoctor(c *gin.Context, reportID uint) (Models.ConsultationReport, Models.Doctor, error) {
	profile, err := currentProfile(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return Models.ConsultationReport{}, Models.Doctor{}, err
	}

	doctor, err := Models.GetDoctorByProfileID(profile.ID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return Models.ConsultationReport{}, Models.Doctor{}, err
	}

	var report Models.ConsultationReport
	if err := Models.DB.First(&report, reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve report"})
		}
		return Models.ConsultationReport{}, Models.Doctor{}, err
	}

	if report.DoctorID != doctor.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Report is addressed to another doctor"})
		return Models.ConsultationReport{}, Models.Doctor{}, errNotOwner
	}
	return report, doctor, nil
}

func FetchDoctorReports(c *gin.Context) {
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

	var reports []Models.ConsultationReport
	if err := Models.DB.Model(&Models.ConsultationReport{}).
		Where("doctor_id = ?", doctor.ID).
		Order("created_at DESC").Find(&reports).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reports)
}

func FetchMyReports(c *gin.Context) {
	profile, err := currentProfile(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var reports []Models.ConsultationReport
	if err := Models.DB.Model(&Models.ConsultationReport{}).
		Where("patient_id = ?", profile.ID).
		Order("created_at DESC").Find(&reports).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reports)
}

// ReviewReport marks a sent report as seen by the doctor.
func ReviewReport(c *gin.Context) {
	var input struct {
		ReportID uint `json:"report_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, _, err := reportForDoctor(c, input.ReportID)
	if err != nil {
		return
	}

	if report.Status != Models.ReportSent {
		c.JSON(http.StatusOK, gin.H{"message": "Already reviewed"})
		return
	}

	if err := Models.DB.Model(&report).Update("status", Models.ReportReviewed).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Marked Successfully"})
}

// RespondReport records the doctor's free-text response and notifies the
// patient.
func RespondReport(c *gin.Context) {
	var input struct {
		ReportID uint   `json:"report_id" binding:"required"`
		Response string `json:"response" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, doctor, err := reportForDoctor(c, input.ReportID)
	if err != nil {
		return
	}

	tx := Models.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	now := time.Now()
	report.Status = Models.ReportResponded
	report.DoctorResponse = input.Response
	report.RespondedAt = &now
	if err := tx.Save(&report).Error; err != nil {
		log.Println(err)
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notification, err := Models.CreateNotification(tx, report.PatientID, Models.NotificationSystem,
		"Doctor Responded to Your Report",
		"Your consultation report has a response",
		marshalPayload(map[string]interface{}{"report_id": report.ID, "doctor_id": doctor.ID}))
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
	c.JSON(http.StatusOK, gin.H{"message": "Response Sent Successfully"})
}

// ExportReportsExcel downloads the calling doctor's received reports as a
// spreadsheet.
func ExportReportsExcel(c *gin.Context) {
	var input struct {
		DateFrom string `json:"date_from"`
		DateTo   string `json:"date_to"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, err)
		return
	}

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

	var reports []Models.ConsultationReport
	query := Models.DB.Model(&Models.ConsultationReport{}).Where("doctor_id = ?", doctor.ID)
	if input.DateFrom != "" && input.DateTo != "" {
		query = query.Where("DATE(created_at) BETWEEN ? AND ?", input.DateFrom, input.DateTo)
	}
	if err := query.Order("created_at ASC").Find(&reports).Error; err != nil {
		c.JSON(http.StatusBadRequest, err)
		return
	}

	headers := map[string]string{
		"A1": "Date",
		"B1": "Patient",
		"C1": "Summary",
		"D1": "Status",
		"E1": "Responded At",
	}
	file := excelize.NewFile()
	sheet := "Reports"
	file.NewSheet(sheet)
	file.DeleteSheet("Sheet1")
	for k, v := range headers {
		file.SetCellValue(sheet, k, v)
	}

	for i := 0; i < len(reports); i++ {
		appendReportRow(sheet, file, i, reports)
	}
	var filename string = fmt.Sprintf("./Reports.xlsx")
	if err := file.SaveAs(filename); err != nil {
		log.Println(err)
	}
	c.File(filename)
}

func appendReportRow(sheet string, file *excelize.File, index int, rows []Models.ConsultationReport) {
	rowCount := index + 2

	var patientName string
	var patient Models.Profile
	if err := Models.DB.First(&patient, rows[index].PatientID).Error; err == nil {
		patientName = patient.FullName
	}

	respondedAt := ""
	if rows[index].RespondedAt != nil {
		respondedAt = rows[index].RespondedAt.Format("2006-01-02 15:04")
	}

	file.SetCellValue(sheet, fmt.Sprintf("A%v", rowCount), rows[index].CreatedAt.Format("2006-01-02"))
	file.SetCellValue(sheet, fmt.Sprintf("B%v", rowCount), patientName)
	file.SetCellValue(sheet, fmt.Sprintf("C%v", rowCount), rows[index].Summary)
	file.SetCellValue(sheet, fmt.Sprintf("D%v", rowCount), rows[index].Status)
	file.SetCellValue(sheet, fmt.Sprintf("E%v", rowCount), respondedAt)
}
