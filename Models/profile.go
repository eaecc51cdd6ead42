package Models

import (
	"errors"

	"gorm.io/gorm"
)

const (
	RolePatient      = "patient"
	RoleHealthWorker = "health_worker"
	RoleDoctor       = "doctor"
)

// Profile extends an auth user with the medical-facing identity. Exactly one
// profile exists per user; it is created during registration.
type Profile struct {
	gorm.Model
	UserID           uint   `gorm:"not null;uniqueIndex" json:"user_id"`
	Role             string `gorm:"size:32;not null;default:patient;check:role IN ('patient','health_worker','doctor')" json:"role"`
	FullName         string `json:"full_name"`
	Phone            string `json:"phone"`
	DateOfBirth      string `json:"date_of_birth"`
	Allergies        string `json:"allergies"`
	Medications      string `json:"medications"`
	EmergencyContact string `json:"emergency_contact"`
}

// Doctor extends a profile whose role is doctor with credential attributes.
// Provisioned automatically at doctor signup, unverified with placeholder
// credentials until corrected by an operator.
type Doctor struct {
	gorm.Model
	ProfileID         uint    `gorm:"not null;uniqueIndex" json:"profile_id"`
	Profile           Profile `gorm:"constraint:OnDelete:CASCADE;" json:"profile"`
	LicenseNumber     string  `json:"license_number"`
	Specialties       string  `json:"specialties"`
	YearsOfExperience int     `json:"years_of_experience"`
	ConsultationFee   float64 `json:"consultation_fee"`
	IsVerified        bool    `json:"is_verified"`
}

func GetProfileByUserID(uid uint) (Profile, error) {
	var profile Profile
	if err := DB.Where("user_id = ?", uid).First(&profile).Error; err != nil {
		return profile, errors.New("Profile not found")
	}
	return profile, nil
}

func GetDoctorByProfileID(profileID uint) (Doctor, error) {
	var doctor Doctor
	if err := DB.Where("profile_id = ?", profileID).First(&doctor).Error; err != nil {
		return doctor, errors.New("Doctor not found")
	}
	return doctor, nil
}

// ProfileExists reports whether a profile row exists. Notification dispatch
// validates its addressee with this before inserting.
func ProfileExists(db *gorm.DB, id uint) (bool, error) {
	var count int64
	err := db.Model(&Profile{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
