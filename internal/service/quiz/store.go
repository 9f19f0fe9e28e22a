package quiz

import (
	"github.com/qiniu/x/xlog"

	"github.com/vantoan19/CodeToGive-backend/internal/protodef/model"
)

// 以下接口的 Select/Update/Delete 在文档不存在时返回 errors.ErrNotFound，
// Insert 在唯一键冲突时返回 errors.ErrDuplicate，并为文档分配 ID。
// ListXxxByIDs 按 ids 的顺序返回，已不存在的文档跳过。

type UserStore interface {
	SelectUser(xl *xlog.Logger, id string) (*model.UserDo, error)
	SelectUserByAccount(xl *xlog.Logger, account string) (*model.UserDo, error)
	ListUsersByIDs(xl *xlog.Logger, ids []string) ([]model.UserDo, error)
	ListUsers(xl *xlog.Logger) ([]model.UserDo, error)
	InsertUser(xl *xlog.Logger, user *model.UserDo) error
	UpdateUser(xl *xlog.Logger, user *model.UserDo) error
	DeleteUser(xl *xlog.Logger, id string) error
}

type ClassStore interface {
	SelectClass(xl *xlog.Logger, id string) (*model.ClassDo, error)
	SelectClassByClassID(xl *xlog.Logger, classID string) (*model.ClassDo, error)
	ListClasses(xl *xlog.Logger) ([]model.ClassDo, error)
	InsertClass(xl *xlog.Logger, class *model.ClassDo) error
	UpdateClass(xl *xlog.Logger, class *model.ClassDo) error
	DeleteClass(xl *xlog.Logger, id string) error
}

type QuizStore interface {
	SelectQuiz(xl *xlog.Logger, id string) (*model.QuizDo, error)
	SelectQuizByQuizID(xl *xlog.Logger, quizID string) (*model.QuizDo, error)
	ListQuizzes(xl *xlog.Logger) ([]model.QuizDo, error)
	InsertQuiz(xl *xlog.Logger, quiz *model.QuizDo) error
	UpdateQuiz(xl *xlog.Logger, quiz *model.QuizDo) error
	DeleteQuiz(xl *xlog.Logger, id string) error
}

type QuestionStore interface {
	SelectQuestion(xl *xlog.Logger, id string) (*model.QuestionDo, error)
	ListQuestionsByIDs(xl *xlog.Logger, ids []string) ([]model.QuestionDo, error)
	InsertQuestion(xl *xlog.Logger, question *model.QuestionDo) error
	UpdateQuestion(xl *xlog.Logger, question *model.QuestionDo) error
	DeleteQuestion(xl *xlog.Logger, id string) error
}

type WorkStore interface {
	SelectWork(xl *xlog.Logger, id string) (*model.StudentWorkDo, error)
	ListWorksByIDs(xl *xlog.Logger, ids []string) ([]model.StudentWorkDo, error)
	InsertWork(xl *xlog.Logger, work *model.StudentWorkDo) error
	UpdateWork(xl *xlog.Logger, work *model.StudentWorkDo) error
	DeleteWork(xl *xlog.Logger, id string) error
}

// Store 所有文档的存取。
type Store interface {
	UserStore
	ClassStore
	QuizStore
	QuestionStore
	WorkStore
}

// AssetStore 保存处理后的图片，返回可存入文档的引用。
type AssetStore interface {
	PutAsset(xl *xlog.Logger, contentType string, data []byte) (ref string, err error)
}

// ImageProcessor 把上传的图片缩放到指定宽度并转为PNG。
type ImageProcessor interface {
	Normalize(data []byte, width int) ([]byte, error)
}

const (
	// ImageWidth 测验、题目与作品图片的宽度。
	ImageWidth = 1000
	// AvatarWidth 头像宽度。
	AvatarWidth = 250
	// CoverPhotoWidth 封面宽度。
	CoverPhotoWidth = 1000
)
