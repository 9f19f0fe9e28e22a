package form

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/vantoan19/CodeToGive-backend/internal/protodef/model"
)

const (
	ErrAccountLengthMsg  = "account must be at least 6 characters"
	ErrPasswordLengthMsg = "password must be at least 6 characters"
)

// ProfileAllowedFields 用户可自行修改的资料字段。
var ProfileAllowedFields = []string{
	"email", "firstName", "lastName", "dateOfBirth", "phoneNumber", "address", "profileDescription", "badges",
}

type RegisterForm struct {
	Account     string            `json:"account"`
	Password    string            `json:"password"`
	AccountType model.AccountType `json:"accountType"`
	Email       string            `json:"email"`
	FirstName   string            `json:"firstName"`
	LastName    string            `json:"lastName"`
	DateOfBirth *time.Time        `json:"dateOfBirth"`
	PhoneNumber string            `json:"phoneNumber"`
	Address     string            `json:"address"`
}

func (f *RegisterForm) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.Account, validation.Required, validation.Length(6, 64).Error(ErrAccountLengthMsg)),
		validation.Field(&f.Password, validation.Required, validation.Length(6, 128).Error(ErrPasswordLengthMsg)),
		validation.Field(&f.AccountType, validation.In(model.AccountTypeStudent, model.AccountTypeAdmin)),
		validation.Field(&f.Email, is.EmailFormat),
		validation.Field(&f.FirstName, validation.Length(0, 64)),
		validation.Field(&f.LastName, validation.Length(0, 64)),
		validation.Field(&f.PhoneNumber, validation.Length(0, 32)),
	)
}

// ToUserDo 表单转用户，密码需要调用方另行哈希。
func (f *RegisterForm) ToUserDo() *model.UserDo {
	accountType := f.AccountType
	if accountType == "" {
		accountType = model.AccountTypeStudent
	}
	return &model.UserDo{
		Account:            strings.TrimSpace(f.Account),
		AccountType:        accountType,
		Email:              strings.ToLower(strings.TrimSpace(f.Email)),
		FirstName:          strings.TrimSpace(f.FirstName),
		LastName:           strings.TrimSpace(f.LastName),
		DateOfBirth:        f.DateOfBirth,
		PhoneNumber:        f.PhoneNumber,
		Address:            f.Address,
		ProfileDescription: model.DefaultProfileDescription,
		Badges:             []string{},
		Classes:            []string{},
		TakenQuizzes:       []model.TakenQuizDo{},
	}
}

type LoginForm struct {
	Account  string `json:"account"`
	Password string `json:"password"`
}

func (f *LoginForm) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.Account, validation.Required),
		validation.Field(&f.Password, validation.Required),
	)
}

// ProfileUpdateForm PATCH /api/me 的请求体，字段为空表示不修改。
type ProfileUpdateForm struct {
	Email              *string    `json:"email"`
	FirstName          *string    `json:"firstName"`
	LastName           *string    `json:"lastName"`
	DateOfBirth        *time.Time `json:"dateOfBirth"`
	PhoneNumber        *string    `json:"phoneNumber"`
	Address            *string    `json:"address"`
	ProfileDescription *string    `json:"profileDescription"`
	Badges             []string   `json:"badges"`
}

func (f *ProfileUpdateForm) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.Email, is.EmailFormat),
		validation.Field(&f.FirstName, validation.Length(0, 64)),
		validation.Field(&f.LastName, validation.Length(0, 64)),
		validation.Field(&f.PhoneNumber, validation.Length(0, 32)),
		validation.Field(&f.ProfileDescription, validation.Length(0, 500)),
	)
}

func (f *ProfileUpdateForm) ApplyTo(u *model.UserDo) {
	if f.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*f.Email))
	}
	if f.FirstName != nil {
		u.FirstName = strings.TrimSpace(*f.FirstName)
	}
	if f.LastName != nil {
		u.LastName = strings.TrimSpace(*f.LastName)
	}
	if f.DateOfBirth != nil {
		u.DateOfBirth = f.DateOfBirth
	}
	if f.PhoneNumber != nil {
		u.PhoneNumber = *f.PhoneNumber
	}
	if f.Address != nil {
		u.Address = *f.Address
	}
	if f.ProfileDescription != nil {
		u.ProfileDescription = *f.ProfileDescription
	}
	if f.Badges != nil {
		u.Badges = f.Badges
	}
}
