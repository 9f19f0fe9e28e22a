package model

import (
	"encoding/json"
	"time"
)

/*
	db_model.go: 规定账号、班级等数据存储的格式。
*/

type AccountType string

const (
	AccountTypeStudent AccountType = "student"
	AccountTypeAdmin   AccountType = "admin"
)

func (t AccountType) Valid() bool {
	return t == AccountTypeStudent || t == AccountTypeAdmin
}

// DefaultProfileDescription 新用户的默认简介。
const DefaultProfileDescription = "Hello world! :D"

// TakenQuizDo 用户已完成的测验记录，每个测验最多一条。
type TakenQuizDo struct {
	QuizID   string    `json:"quiz" bson:"quiz"`
	QuizType QuizType  `json:"quizType" bson:"quizType"`
	TakenAt  time.Time `json:"takenAt" bson:"takenAt"`
	Score    float64   `json:"score" bson:"score"`
}

// UserDo 用户账号信息。
type UserDo struct {
	// 用户ID，作为数据库唯一标识。
	ID string `json:"id" bson:"_id"`
	// Account 登录名，全局唯一。
	Account     string      `json:"account" bson:"account"`
	AccountType AccountType `json:"accountType" bson:"accountType"`
	Email       string      `json:"email,omitempty" bson:"email,omitempty"`
	FirstName   string      `json:"firstName" bson:"firstName"`
	LastName    string      `json:"lastName" bson:"lastName"`
	DateOfBirth *time.Time  `json:"dateOfBirth,omitempty" bson:"dateOfBirth,omitempty"`
	PhoneNumber string      `json:"phoneNumber,omitempty" bson:"phoneNumber,omitempty"`
	Address     string      `json:"address,omitempty" bson:"address,omitempty"`
	// ProfileDescription 个人简介。
	ProfileDescription string `json:"profileDescription" bson:"profileDescription"`
	// Password bcrypt 哈希，不对外输出。
	Password string `json:"-" bson:"password"`
	// Avatar/CoverPhoto 为图片资源引用，对外只输出拼接后的URL。
	Avatar      string   `json:"-" bson:"avatar,omitempty"`
	CoverPhoto  string   `json:"-" bson:"coverPhoto,omitempty"`
	Stars       float64  `json:"stars" bson:"stars"`
	GoldenCrown int      `json:"goldenCrown" bson:"goldenCrown"`
	SilverCrown int      `json:"silverCrown" bson:"silverCrown"`
	BronzeCrown int      `json:"bronzeCrown" bson:"bronzeCrown"`
	Badges      []string `json:"badges" bson:"badges"`
	// Classes 所在班级的ID集合，与 ClassDo.StudentList 互为反向引用。
	Classes      []string      `json:"classes" bson:"classes"`
	TakenQuizzes []TakenQuizDo `json:"takenQuizzes" bson:"takenQuizzes"`
	CreatedTime  time.Time     `json:"createdTime" bson:"createdTime"`
	UpdatedTime  time.Time     `json:"updatedTime" bson:"updatedTime"`
}

func (u UserDo) IsAdmin() bool {
	return u.AccountType == AccountTypeAdmin
}

// HasTaken 用户是否已有该测验的完成记录。
func (u UserDo) HasTaken(quizID string) bool {
	for _, t := range u.TakenQuizzes {
		if t.QuizID == quizID {
			return true
		}
	}
	return false
}

func (u UserDo) Map() FlattenMap {
	val, _ := json.Marshal(&u)
	res := make(map[string]interface{})
	_ = json.Unmarshal(val, &res)
	return res
}

// AccountTokenDo 已登录用户的信息，一个用户可以同时持有多个token。
type AccountTokenDo struct {
	ID        string `json:"id" bson:"_id"`
	AccountId string `json:"accountId" bson:"accountId"`
	// Token 本次登录使用的token。
	Token          string    `json:"token" bson:"token"`
	LastModifyTime time.Time `json:"lastModifyTime" bson:"lastModifyTime"`
}

// QuizRefDo 班级中对测验的引用，记录测验类型用于按类型筛选。
type QuizRefDo struct {
	QuizID   string   `json:"quiz" bson:"quiz"`
	QuizType QuizType `json:"quizType" bson:"quizType"`
}

// ClassDo 班级信息。
type ClassDo struct {
	ID          string      `json:"id" bson:"_id"`
	ClassID     string      `json:"classId" bson:"classId"`
	ClassName   string      `json:"className" bson:"className"`
	StudentList []string    `json:"studentList" bson:"studentList"`
	QuizList    []QuizRefDo `json:"quizList" bson:"quizList"`
	CreatedTime time.Time   `json:"createdTime" bson:"createdTime"`
	UpdatedTime time.Time   `json:"updatedTime" bson:"updatedTime"`
}

// HasQuiz 班级是否引用了该测验。
func (c ClassDo) HasQuiz(quizID string) bool {
	for _, ref := range c.QuizList {
		if ref.QuizID == quizID {
			return true
		}
	}
	return false
}

// AssetDo 直接存在数据库中的图片。
type AssetDo struct {
	ID          string    `json:"id" bson:"_id"`
	ContentType string    `json:"contentType" bson:"contentType"`
	Data        []byte    `json:"-" bson:"data"`
	CreatedTime time.Time `json:"createdTime" bson:"createdTime"`
}

// TaskResultDo 定时任务的记录: 双向引用一致性检查
type TaskResultDo struct {
	ID         string     `json:"id" bson:"_id"`
	CreateAt   time.Time  `json:"create_at" bson:"create_at"`
	UpdateAt   time.Time  `json:"update_at" bson:"update_at"`
	Subject    string     `json:"subject" bson:"subject"`
	Action     string     `json:"action" bson:"action"`
	Result     string     `json:"result" bson:"result"`
	Status     TaskStatus `json:"status" bson:"status"`
	SubjectID  string     `json:"subject_id" bson:"subject_id"`
	RetryCount int        `json:"retry_count" bson:"retry_count"`
}

const (
	DefaultTaskRetryCountMax = 5
)

type TaskStatus string

const (
	TaskStatusRunning = TaskStatus("running")
	TaskStatusSuccess = TaskStatus("success")
	TaskStatusFailed  = TaskStatus("failed")
)

// ActionRecordDo 全局操作流水。
type ActionRecordDo struct {
	Msg     string    `json:"msg" bson:"msg"`
	User    string    `json:"user" bson:"user"`
	Time    time.Time `json:"time" bson:"time"`
	Method  string    `json:"method" bson:"method"`
	Subject string    `json:"subject" bson:"subject"`
	Status  int       `json:"status" bson:"status"`
}
