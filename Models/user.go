package Models

import (
	"errors"
	"html"
	"strings"

	"github.com/Chidinma123456/AvaBuddie/Utils/Token"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email    string        `gorm:"size:255;not null;unique" json:"email"`
	Password string        `gorm:"size:255;not null;" json:"password"`
	Tokens   []DeviceToken `gorm:"foreignKey:UserID"`
	IsFrozen bool          `json:"is_frozen"`
	Profile  Profile       `gorm:"constraint:OnDelete:CASCADE;" json:"profile"`
}

type DeviceToken struct {
	gorm.Model
	UserID uint
	Value  string `json:"value" gorm:"unique"`
}

func GetUserByID(uid uint) (User, error) {
	var user User

	if err := DB.First(&user, uid).Error; err != nil {
		return user, errors.New("User not found")
	}

	user.PrepareGive()

	return user, nil
}

// GetProfileFCMs returns the device tokens registered by the user owning the
// given profile.
func GetProfileFCMs(profileID uint) ([]string, error) {
	var profile Profile
	if err := DB.First(&profile, profileID).Error; err != nil {
		return nil, errors.New("Profile not found")
	}

	var fcms []string
	if err := DB.Model(&DeviceToken{}).Where("user_id = ?", profile.UserID).Select("value").Find(&fcms).Error; err != nil {
		return []string{}, errors.New("No FCMS found")
	}

	return fcms, nil
}

func (user *User) ChangeState() {
	user.IsFrozen = !user.IsFrozen
}

func (user *User) PrepareGive() {
	user.Password = ""
}

func VerifyPassword(password, hashedPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func LoginCheck(email string, password string) (uint, string, error) {

	var err error

	user := User{}

	err = DB.Model(User{}).Where("email = ?", email).Take(&user).Error

	if err != nil {
		return 0, "", err
	}

	err = VerifyPassword(password, user.Password)

	if err != nil && err == bcrypt.ErrMismatchedHashAndPassword {
		return 0, "", err
	}

	token, err := Token.GenerateToken(user.ID)

	if err != nil {
		return 0, "", err
	}

	return user.ID, token, nil
}

func (user *User) SaveUser(db *gorm.DB) (*User, error) {

	if err := user.BeforeSave(); err != nil {
		return &User{}, err
	}

	if err := db.Create(&user).Error; err != nil {
		return &User{}, err
	}

	return user, nil
}

func (user *User) BeforeSave() error {

	//turn password into hash
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)

	user.Email = html.EscapeString(strings.TrimSpace(strings.ToLower(user.Email)))

	return nil
}
