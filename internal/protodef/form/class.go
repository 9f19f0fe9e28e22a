package form

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/vantoan19/CodeToGive-backend/internal/protodef/model"
)

// ClassAllowedFields 班级可修改字段，classId 不可修改。
var ClassAllowedFields = []string{"className"}

type ClassCreateForm struct {
	ClassID   string `json:"classId"`
	ClassName string `json:"className"`
}

func (f *ClassCreateForm) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.ClassID, validation.Required, validation.Length(1, 64)),
		validation.Field(&f.ClassName, validation.Required, validation.Length(1, 100)),
	)
}

func (f *ClassCreateForm) ToClassDo() *model.ClassDo {
	return &model.ClassDo{
		ClassID:     strings.TrimSpace(f.ClassID),
		ClassName:   strings.TrimSpace(f.ClassName),
		StudentList: []string{},
		QuizList:    []model.QuizRefDo{},
	}
}

type ClassUpdateForm struct {
	ClassName *string `json:"className"`
}

func (f *ClassUpdateForm) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.ClassName, validation.NilOrNotEmpty, validation.Length(1, 100)),
	)
}

func (f *ClassUpdateForm) ApplyTo(c *model.ClassDo) {
	if f.ClassName != nil {
		c.ClassName = strings.TrimSpace(*f.ClassName)
	}
}
