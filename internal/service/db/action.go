package db

import (
	"github.com/qiniu/x/xlog"
	"gopkg.in/mgo.v2"

	"github.com/vantoan19/CodeToGive-backend/internal/protodef/model"
	"github.com/vantoan19/CodeToGive-backend/internal/service/db/dao"
)

// ActionService 保存全局操作流水。
type ActionService struct {
	actionColl *mgo.Collection
	xl         *xlog.Logger
}

func NewActionService(session *mgo.Session, database string, xl *xlog.Logger) *ActionService {
	if xl == nil {
		xl = xlog.New("middleware.ActionManager")
	}
	return &ActionService{actionColl: session.DB(database).C(dao.ActionCollection), xl: xl}
}

func (s *ActionService) SaveAction(xl *xlog.Logger, record *model.ActionRecordDo) {
	if err := s.actionColl.Insert(record); err != nil {
		logger(xl, s.xl).Errorf("failed save action %v, error %v", record, err)
	}
}
