package form

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/vantoan19/CodeToGive-backend/internal/protodef/model"
)

// QuizAllowedFields 测验可修改字段，quizId 与 quizType 不可修改。
var QuizAllowedFields = []string{
	"quizName", "author", "maxPoint", "numberOfAttempt", "maxTime", "dueDate",
	"bigQuestion", "bigAnswer", "taskDescription",
}

// QuestionAllowedFields 题目可修改字段。
var QuestionAllowedFields = []string{"question", "answer", "questionDesc", "options"}

// QuizCreateForm 创建测验，Classes 为目标班级的 classId。
type QuizCreateForm struct {
	QuizID          string             `json:"quizId"`
	QuizName        string             `json:"quizName"`
	Author          string             `json:"author"`
	MaxPoint        float64            `json:"maxPoint"`
	NumberOfAttempt int                `json:"numberOfAttempt"`
	MaxTime         int                `json:"maxTime"`
	DueDate         *time.Time         `json:"dueDate"`
	Classes         []string           `json:"classes"`
	BigQuestion     string             `json:"bigQuestion"`
	BigAnswer       string             `json:"bigAnswer"`
	ScribblyType    model.ScribblyType `json:"scribblyType"`
	TaskDescription []string           `json:"taskDescription"`
	GroupSize       int                `json:"groupSize"`
}

func (f *QuizCreateForm) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.QuizID, validation.Required, validation.Length(1, 64)),
		validation.Field(&f.QuizName, validation.Required, validation.Length(1, 200)),
		validation.Field(&f.MaxPoint, validation.Min(0.0)),
		validation.Field(&f.NumberOfAttempt, validation.Min(0)),
		validation.Field(&f.MaxTime, validation.Min(0)),
		validation.Field(&f.Classes, validation.Required),
		validation.Field(&f.ScribblyType, validation.In(model.ScribblyTypeIndividual, model.ScribblyTypeGroup)),
		validation.Field(&f.GroupSize, validation.Min(0)),
	)
}

// ToQuizDo 表单转测验，非 Scribbly 忽略 Scribbly 字段，非 PicQuiz 忽略大题字段。
func (f *QuizCreateForm) ToQuizDo(quizType model.QuizType) *model.QuizDo {
	q := &model.QuizDo{
		QuizID:          strings.TrimSpace(f.QuizID),
		QuizType:        quizType,
		QuizName:        f.QuizName,
		Author:          f.Author,
		MaxPoint:        f.MaxPoint,
		NumberOfAttempt: f.NumberOfAttempt,
		MaxTime:         f.MaxTime,
		DueDate:         f.DueDate,
		Classes:         []string{},
		StudentWorks:    []string{},
	}
	switch quizType {
	case model.QuizTypeQuiz:
		q.Questions = []model.QuestionRefDo{}
	case model.QuizTypePicQuiz:
		q.Questions = []model.QuestionRefDo{}
		q.BigQuestion = f.BigQuestion
		q.BigAnswer = f.BigAnswer
	case model.QuizTypeScribbly:
		q.ScribblyType = f.ScribblyType
		if q.ScribblyType == "" {
			q.ScribblyType = model.ScribblyTypeIndividual
		}
		q.TaskDescription = f.TaskDescription
		q.GroupSize = f.GroupSize
	}
	return q
}

// QuizUpdateForm PATCH 测验，字段为空表示不修改。
type QuizUpdateForm struct {
	QuizName        *string    `json:"quizName"`
	Author          *string    `json:"author"`
	MaxPoint        *float64   `json:"maxPoint"`
	NumberOfAttempt *int       `json:"numberOfAttempt"`
	MaxTime         *int       `json:"maxTime"`
	DueDate         *time.Time `json:"dueDate"`
	BigQuestion     *string    `json:"bigQuestion"`
	BigAnswer       *string    `json:"bigAnswer"`
	TaskDescription []string   `json:"taskDescription"`
}

func (f *QuizUpdateForm) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.QuizName, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&f.MaxPoint, validation.Min(0.0)),
		validation.Field(&f.NumberOfAttempt, validation.Min(0)),
		validation.Field(&f.MaxTime, validation.Min(0)),
	)
}

func (f *QuizUpdateForm) ApplyTo(q *model.QuizDo) {
	if f.QuizName != nil {
		q.QuizName = *f.QuizName
	}
	if f.Author != nil {
		q.Author = *f.Author
	}
	if f.MaxPoint != nil {
		q.MaxPoint = *f.MaxPoint
	}
	if f.NumberOfAttempt != nil {
		q.NumberOfAttempt = *f.NumberOfAttempt
	}
	if f.MaxTime != nil {
		q.MaxTime = *f.MaxTime
	}
	if f.DueDate != nil {
		q.DueDate = f.DueDate
	}
	if q.QuizType == model.QuizTypePicQuiz {
		if f.BigQuestion != nil {
			q.BigQuestion = *f.BigQuestion
		}
		if f.BigAnswer != nil {
			q.BigAnswer = *f.BigAnswer
		}
	}
	if q.QuizType == model.QuizTypeScribbly && f.TaskDescription != nil {
		q.TaskDescription = f.TaskDescription
	}
}

type QuestionForm struct {
	QuestionType model.QuestionType `json:"questionType" form:"questionType"`
	Question     string             `json:"question" form:"question"`
	Answer       string             `json:"answer" form:"answer"`
	QuestionDesc string             `json:"questionDesc" form:"questionDesc"`
	Options      []string           `json:"options" form:"options"`
}

func (f *QuestionForm) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.QuestionType, validation.Required,
			validation.In(model.QuestionTypeMultipleChoice, model.QuestionTypeFillInBlank)),
		validation.Field(&f.Question, validation.Required),
		validation.Field(&f.Answer, validation.Required),
		validation.Field(&f.Options, validation.When(f.QuestionType == model.QuestionTypeMultipleChoice,
			validation.Required, validation.Length(2, 10))),
	)
}

func (f *QuestionForm) ToQuestionDo() *model.QuestionDo {
	q := &model.QuestionDo{
		QuestionType: f.QuestionType,
		Question:     f.Question,
		Answer:       f.Answer,
		QuestionDesc: f.QuestionDesc,
	}
	if f.QuestionType == model.QuestionTypeMultipleChoice {
		q.Options = f.Options
	}
	return q
}

type QuestionUpdateForm struct {
	Question     *string  `json:"question" form:"question"`
	Answer       *string  `json:"answer" form:"answer"`
	QuestionDesc *string  `json:"questionDesc" form:"questionDesc"`
	Options      []string `json:"options" form:"options"`
}

func (f *QuestionUpdateForm) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.Question, validation.NilOrNotEmpty),
		validation.Field(&f.Answer, validation.NilOrNotEmpty),
	)
}

func (f *QuestionUpdateForm) ApplyTo(q *model.QuestionDo) {
	if f.Question != nil {
		q.Question = *f.Question
	}
	if f.Answer != nil {
		q.Answer = *f.Answer
	}
	if f.QuestionDesc != nil {
		q.QuestionDesc = *f.QuestionDesc
	}
	if f.Options != nil && q.QuestionType == model.QuestionTypeMultipleChoice {
		q.Options = f.Options
	}
}

// SubmitForm 提交作品，Scribbly 另附图片文件。
type SubmitForm struct {
	Answer    []string   `json:"answer" form:"answer"`
	Score     float64    `json:"score" form:"score"`
	Duration  int        `json:"duration" form:"duration"`
	TakenDate *time.Time `json:"takenDate" form:"takenDate"`
}

func (f *SubmitForm) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.Score, validation.Min(0.0)),
		validation.Field(&f.Duration, validation.Min(0)),
	)
}
