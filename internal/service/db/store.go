package db

import (
	"github.com/qiniu/x/xlog"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/mgo.v2"

	"github.com/vantoan19/CodeToGive-backend/internal/common/utils"
	qdao "github.com/vantoan19/CodeToGive-backend/internal/service/dao"
)

// MongoStore 组合各表的存取：账号、token、班级走 mgo，测验、题目、作品走 mongo-driver。
type MongoStore struct {
	*AccountService
	*ClassService
	*qdao.QuizDaoService
	*qdao.QuestionDaoService
	*qdao.StudentWorkDaoService

	Assets  *AssetService
	Tasks   *TaskService
	Actions *ActionService

	session *mgo.Session
	client  *mongo.Client
}

func NewMongoStore(conf utils.MongoConfig, xl *xlog.Logger) (*MongoStore, error) {
	if xl == nil {
		xl = xlog.New("quiz-cube-store")
	}
	session, err := NewSession(conf)
	if err != nil {
		xl.Errorf("failed to create mongo session, error %v", err)
		return nil, err
	}
	client, err := qdao.NewClient(&conf)
	if err != nil {
		session.Close()
		xl.Errorf("failed to create mongo client, error %v", err)
		return nil, err
	}
	s := &MongoStore{session: session, client: client}
	if s.AccountService, err = NewAccountService(session, conf.Database, nil); err != nil {
		return nil, err
	}
	if s.ClassService, err = NewClassService(session, conf.Database, nil); err != nil {
		return nil, err
	}
	if s.QuizDaoService, err = qdao.NewQuizDaoService(client, conf.Database); err != nil {
		xl.Errorf("failed to ensure quizId index, error %v", err)
		return nil, err
	}
	s.QuestionDaoService = qdao.NewQuestionDaoService(client, conf.Database)
	s.StudentWorkDaoService = qdao.NewStudentWorkDaoService(client, conf.Database)
	s.Assets = NewAssetService(session, conf.Database, nil)
	s.Tasks = NewTaskService(session, conf.Database, nil)
	s.Actions = NewActionService(session, conf.Database, nil)
	return s, nil
}
