package db

import (
	"github.com/qiniu/x/xlog"
	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"

	"github.com/vantoan19/CodeToGive-backend/internal/protodef/model"
	"github.com/vantoan19/CodeToGive-backend/internal/service/db/dao"
)

// ClassService 班级的存取。
type ClassService struct {
	classColl *mgo.Collection
	xl        *xlog.Logger
}

func NewClassService(session *mgo.Session, database string, xl *xlog.Logger) (*ClassService, error) {
	if xl == nil {
		xl = xlog.New("quiz-cube-class-db")
	}
	classColl := session.DB(database).C(dao.CollectionClass)
	if err := classColl.EnsureIndex(mgo.Index{Key: []string{"classId"}, Unique: true}); err != nil {
		xl.Errorf("failed to ensure classId index, error %v", err)
		return nil, err
	}
	return &ClassService{classColl: classColl, xl: xl}, nil
}

func (s *ClassService) SelectClass(xl *xlog.Logger, id string) (*model.ClassDo, error) {
	return s.selectClass(xl, bson.M{"_id": id}, id)
}

// SelectClassByClassID 使用班级编号查找。
func (s *ClassService) SelectClassByClassID(xl *xlog.Logger, classID string) (*model.ClassDo, error) {
	return s.selectClass(xl, bson.M{"classId": classID}, classID)
}

func (s *ClassService) selectClass(xl *xlog.Logger, filter bson.M, key string) (*model.ClassDo, error) {
	xl = logger(xl, s.xl)
	class := model.ClassDo{}
	if err := s.classColl.Find(filter).One(&class); err != nil {
		if err != mgo.ErrNotFound {
			xl.Errorf("failed to get class %s, error %v", key, err)
		}
		return nil, translate(err, "class", key)
	}
	return &class, nil
}

func (s *ClassService) ListClasses(xl *xlog.Logger) ([]model.ClassDo, error) {
	results := make([]model.ClassDo, 0)
	if err := s.classColl.Find(nil).Sort("classId").All(&results); err != nil {
		logger(xl, s.xl).Errorf("failed to list classes, error %v", err)
		return nil, translate(err, "class", "list")
	}
	return results, nil
}

func (s *ClassService) InsertClass(xl *xlog.Logger, class *model.ClassDo) error {
	xl = logger(xl, s.xl)
	stamp(&class.ID, &class.CreatedTime, &class.UpdatedTime)
	if err := s.classColl.Insert(class); err != nil {
		xl.Errorf("failed to insert class %s, error %v", class.ClassID, err)
		return translate(err, "class", class.ClassID)
	}
	return nil
}

func (s *ClassService) UpdateClass(xl *xlog.Logger, class *model.ClassDo) error {
	xl = logger(xl, s.xl)
	if err := s.classColl.UpdateId(class.ID, class); err != nil {
		xl.Errorf("failed to update class %s, error %v", class.ID, err)
		return translate(err, "class", class.ID)
	}
	return nil
}

func (s *ClassService) DeleteClass(xl *xlog.Logger, id string) error {
	xl = logger(xl, s.xl)
	if err := s.classColl.RemoveId(id); err != nil {
		xl.Errorf("failed to remove class %s, error %v", id, err)
		return translate(err, "class", id)
	}
	return nil
}
