package model

import (
	"time"
)

type QuizType string

const (
	QuizTypeQuiz     QuizType = "Quiz"
	QuizTypePicQuiz  QuizType = "PicQuiz"
	QuizTypeScribbly QuizType = "Scribbly"
)

func (t QuizType) Valid() bool {
	switch t {
	case QuizTypeQuiz, QuizTypePicQuiz, QuizTypeScribbly:
		return true
	}
	return false
}

// HasQuestions Quiz 与 PicQuiz 由题目组成，Scribbly 没有题目。
func (t QuizType) HasQuestions() bool {
	return t == QuizTypeQuiz || t == QuizTypePicQuiz
}

// Slug 路由中使用的类型名。
func (t QuizType) Slug() string {
	switch t {
	case QuizTypeQuiz:
		return "quiz"
	case QuizTypePicQuiz:
		return "pic-quiz"
	case QuizTypeScribbly:
		return "scribbly"
	}
	return ""
}

// ParseQuizTypeSlug 路由类型名转测验类型。
func ParseQuizTypeSlug(slug string) (QuizType, bool) {
	switch slug {
	case "quiz":
		return QuizTypeQuiz, true
	case "pic-quiz":
		return QuizTypePicQuiz, true
	case "scribbly":
		return QuizTypeScribbly, true
	}
	return "", false
}

type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "MultipleChoiceQuestion"
	QuestionTypeFillInBlank    QuestionType = "FillInBlankQuestion"
)

func (t QuestionType) Valid() bool {
	return t == QuestionTypeMultipleChoice || t == QuestionTypeFillInBlank
}

type ScribblyType string

const (
	ScribblyTypeIndividual ScribblyType = "individual"
	ScribblyTypeGroup      ScribblyType = "group"
)

func (t ScribblyType) Valid() bool {
	return t == ScribblyTypeIndividual || t == ScribblyTypeGroup
}

type ReactKind string

const (
	ReactLove ReactKind = "loveReact"
	ReactHaha ReactKind = "hahaReact"
	ReactWow  ReactKind = "wowReact"
)

func (k ReactKind) Valid() bool {
	switch k {
	case ReactLove, ReactHaha, ReactWow:
		return true
	}
	return false
}

// WorkStatus 由进度计数推导，不落库。
type WorkStatus string

const (
	WorkStatusFree       WorkStatus = "free"
	WorkStatusInProgress WorkStatus = "in-progress"
	WorkStatusComplete   WorkStatus = "complete"
)

// QuestionRefDo 测验中对题目的引用。
type QuestionRefDo struct {
	QuestionID   string       `json:"question" bson:"question"`
	QuestionType QuestionType `json:"questionType" bson:"questionType"`
}

// QuizDo 测验，按 QuizType 区分 Quiz/PicQuiz/Scribbly 三种。
type QuizDo struct {
	ID              string          `json:"id" bson:"_id"`
	QuizID          string          `json:"quizId" bson:"quizId"`
	QuizType        QuizType        `json:"quizType" bson:"quizType"`
	QuizName        string          `json:"quizName" bson:"quizName"`
	Author          string          `json:"author" bson:"author"`
	CreatedDate     time.Time       `json:"createdDate" bson:"createdDate"`
	MaxPoint        float64         `json:"maxPoint" bson:"maxPoint"`
	NumberOfAttempt int             `json:"numberOfAttempt" bson:"numberOfAttempt"`
	MaxTime         int             `json:"maxTime" bson:"maxTime"`
	DueDate         *time.Time      `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
	Classes         []string        `json:"classes" bson:"classes"`
	Questions       []QuestionRefDo `json:"questions,omitempty" bson:"questions,omitempty"`
	StudentWorks    []string        `json:"studentWorks" bson:"studentWorks"`

	// PicQuiz
	BigQuestion      string `json:"bigQuestion,omitempty" bson:"bigQuestion,omitempty"`
	BigAnswer        string `json:"bigAnswer,omitempty" bson:"bigAnswer,omitempty"`
	BigQuestionImage string `json:"-" bson:"bigQuestionImage,omitempty"`

	// Scribbly
	ScribblyType    ScribblyType `json:"scribblyType,omitempty" bson:"scribblyType,omitempty"`
	TaskDescription []string     `json:"taskDescription,omitempty" bson:"taskDescription,omitempty"`
	GroupSize       int          `json:"groupSize,omitempty" bson:"groupSize,omitempty"`

	CreatedTime time.Time `json:"createdTime" bson:"createdTime"`
	UpdatedTime time.Time `json:"updatedTime" bson:"updatedTime"`
}

// IsGroup 是否为小组 Scribbly。
func (q QuizDo) IsGroup() bool {
	return q.QuizType == QuizTypeScribbly && q.ScribblyType == ScribblyTypeGroup
}

// HasQuestion 题目是否属于该测验。
func (q QuizDo) HasQuestion(questionID string) bool {
	for _, ref := range q.Questions {
		if ref.QuestionID == questionID {
			return true
		}
	}
	return false
}

// QuestionDo 题目，按 QuestionType 区分选择题与填空题。
type QuestionDo struct {
	ID            string       `json:"id" bson:"_id"`
	QuestionType  QuestionType `json:"questionType" bson:"questionType"`
	Question      string       `json:"question" bson:"question"`
	Answer        string       `json:"answer" bson:"answer"`
	QuestionDesc  string       `json:"questionDesc,omitempty" bson:"questionDesc,omitempty"`
	QuestionImage string       `json:"-" bson:"questionImage,omitempty"`
	// Options 仅选择题有。
	Options     []string  `json:"options,omitempty" bson:"options,omitempty"`
	CreatedTime time.Time `json:"createdTime" bson:"createdTime"`
	UpdatedTime time.Time `json:"updatedTime" bson:"updatedTime"`
}

// StudentWorkDo 学生提交的作品。小组 Scribbly 每组一份，Author 为组员列表。
type StudentWorkDo struct {
	ID             string     `json:"id" bson:"_id"`
	QuizID         string     `json:"quiz" bson:"quiz"`
	QuizType       QuizType   `json:"quizType" bson:"quizType"`
	Group          bool       `json:"group" bson:"group"`
	Author         []string   `json:"author" bson:"author"`
	Answer         []string   `json:"answer" bson:"answer"`
	Score          float64    `json:"score" bson:"score"`
	TeacherComment string     `json:"teacherComment,omitempty" bson:"teacherComment,omitempty"`
	TakenDate      *time.Time `json:"takenDate,omitempty" bson:"takenDate,omitempty"`
	Duration       int        `json:"duration" bson:"duration"`
	TryCount       int        `json:"tryCount" bson:"tryCount"`
	// StudentWork 作品图片引用，小组作品为共同绘制的画布。
	StudentWork string `json:"-" bson:"studentWork,omitempty"`
	// CurTaskDesc 已提交的组员数，即当前进行到第几步。
	CurTaskDesc int `json:"curTaskDesc" bson:"curTaskDesc"`
	// Submitted 已提交过的组员，保证每人只计数一次。
	Submitted   []string  `json:"submitted,omitempty" bson:"submitted,omitempty"`
	LoveReact   []string  `json:"loveReact" bson:"loveReact"`
	HahaReact   []string  `json:"hahaReact" bson:"hahaReact"`
	WowReact    []string  `json:"wowReact" bson:"wowReact"`
	CreatedTime time.Time `json:"createdTime" bson:"createdTime"`
	UpdatedTime time.Time `json:"updatedTime" bson:"updatedTime"`
}

// HasAuthor 用户是否为作者之一。
func (w StudentWorkDo) HasAuthor(userID string) bool {
	for _, a := range w.Author {
		if a == userID {
			return true
		}
	}
	return false
}

// Complete 个人作品提交即完成；小组作品在所有组员提交后完成。
func (w StudentWorkDo) Complete() bool {
	if !w.Group {
		return true
	}
	return w.CurTaskDesc >= len(w.Author)
}

func (w StudentWorkDo) Status() WorkStatus {
	switch {
	case w.Complete():
		return WorkStatusComplete
	case w.CurTaskDesc == 0:
		return WorkStatusFree
	default:
		return WorkStatusInProgress
	}
}

// Reactions 返回某类表情的用户集合，kind 非法时返回 nil。
func (w *StudentWorkDo) Reactions(kind ReactKind) *[]string {
	switch kind {
	case ReactLove:
		return &w.LoveReact
	case ReactHaha:
		return &w.HahaReact
	case ReactWow:
		return &w.WowReact
	}
	return nil
}
