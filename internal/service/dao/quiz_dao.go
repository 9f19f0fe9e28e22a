package dao

import (
	"github.com/qiniu/x/xlog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vantoan19/CodeToGive-backend/internal/protodef/model"
	"github.com/vantoan19/CodeToGive-backend/internal/service/db/dao"
)

type QuizDaoService struct {
	baseDao
}

func NewQuizDaoService(client *mongo.Client, database string) (*QuizDaoService, error) {
	q := &QuizDaoService{baseDao{
		kind:       "quiz",
		collection: client.Database(database).Collection(dao.CollectionQuiz),
		logger:     xlog.New("quiz dao service"),
	}}
	if err := q.ensureUniqueIndex("quizId"); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *QuizDaoService) SelectQuiz(xl *xlog.Logger, id string) (*model.QuizDo, error) {
	result := model.QuizDo{}
	if err := q.findOne(xl, primitive.M{"_id": id}, id, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (q *QuizDaoService) SelectQuizByQuizID(xl *xlog.Logger, quizID string) (*model.QuizDo, error) {
	result := model.QuizDo{}
	if err := q.findOne(xl, primitive.M{"quizId": quizID}, quizID, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (q *QuizDaoService) ListQuizzes(xl *xlog.Logger) ([]model.QuizDo, error) {
	results := make([]model.QuizDo, 0, 10)
	err := q.findMany(xl, primitive.M{}, func(cursor *mongo.Cursor) error {
		tmp := model.QuizDo{}
		if err := cursor.Decode(&tmp); err != nil {
			return err
		}
		results = append(results, tmp)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (q *QuizDaoService) InsertQuiz(xl *xlog.Logger, quiz *model.QuizDo) error {
	stamp(&quiz.ID, &quiz.CreatedTime, &quiz.UpdatedTime)
	return q.insert(xl, quiz, quiz.QuizID)
}

func (q *QuizDaoService) UpdateQuiz(xl *xlog.Logger, quiz *model.QuizDo) error {
	return q.replace(xl, quiz.ID, quiz)
}

func (q *QuizDaoService) DeleteQuiz(xl *xlog.Logger, id string) error {
	return q.delete(xl, id)
}

type QuestionDaoService struct {
	baseDao
}

func NewQuestionDaoService(client *mongo.Client, database string) *QuestionDaoService {
	return &QuestionDaoService{baseDao{
		kind:       "question",
		collection: client.Database(database).Collection(dao.CollectionQuestion),
		logger:     xlog.New("question dao service"),
	}}
}

func (q *QuestionDaoService) SelectQuestion(xl *xlog.Logger, id string) (*model.QuestionDo, error) {
	result := model.QuestionDo{}
	if err := q.findOne(xl, primitive.M{"_id": id}, id, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (q *QuestionDaoService) ListQuestionsByIDs(xl *xlog.Logger, ids []string) ([]model.QuestionDo, error) {
	found := make(map[string]model.QuestionDo, len(ids))
	if len(ids) > 0 {
		err := q.findMany(xl, byIDs(ids), func(cursor *mongo.Cursor) error {
			tmp := model.QuestionDo{}
			if err := cursor.Decode(&tmp); err != nil {
				return err
			}
			found[tmp.ID] = tmp
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	results := make([]model.QuestionDo, 0, len(found))
	for _, id := range ids {
		if v, ok := found[id]; ok {
			results = append(results, v)
		}
	}
	return results, nil
}

func (q *QuestionDaoService) InsertQuestion(xl *xlog.Logger, question *model.QuestionDo) error {
	stamp(&question.ID, &question.CreatedTime, &question.UpdatedTime)
	return q.insert(xl, question, question.ID)
}

func (q *QuestionDaoService) UpdateQuestion(xl *xlog.Logger, question *model.QuestionDo) error {
	return q.replace(xl, question.ID, question)
}

func (q *QuestionDaoService) DeleteQuestion(xl *xlog.Logger, id string) error {
	return q.delete(xl, id)
}

type StudentWorkDaoService struct {
	baseDao
}

func NewStudentWorkDaoService(client *mongo.Client, database string) *StudentWorkDaoService {
	return &StudentWorkDaoService{baseDao{
		kind:       "student work",
		collection: client.Database(database).Collection(dao.CollectionStudentWork),
		logger:     xlog.New("student work dao service"),
	}}
}

func (s *StudentWorkDaoService) SelectWork(xl *xlog.Logger, id string) (*model.StudentWorkDo, error) {
	result := model.StudentWorkDo{}
	if err := s.findOne(xl, primitive.M{"_id": id}, id, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *StudentWorkDaoService) ListWorksByIDs(xl *xlog.Logger, ids []string) ([]model.StudentWorkDo, error) {
	found := make(map[string]model.StudentWorkDo, len(ids))
	if len(ids) > 0 {
		err := s.findMany(xl, byIDs(ids), func(cursor *mongo.Cursor) error {
			tmp := model.StudentWorkDo{}
			if err := cursor.Decode(&tmp); err != nil {
				return err
			}
			found[tmp.ID] = tmp
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	results := make([]model.StudentWorkDo, 0, len(found))
	for _, id := range ids {
		if v, ok := found[id]; ok {
			results = append(results, v)
		}
	}
	return results, nil
}

func (s *StudentWorkDaoService) InsertWork(xl *xlog.Logger, work *model.StudentWorkDo) error {
	stamp(&work.ID, &work.CreatedTime, &work.UpdatedTime)
	return s.insert(xl, work, work.ID)
}

func (s *StudentWorkDaoService) UpdateWork(xl *xlog.Logger, work *model.StudentWorkDo) error {
	return s.replace(xl, work.ID, work)
}

func (s *StudentWorkDaoService) DeleteWork(xl *xlog.Logger, id string) error {
	return s.delete(xl, id)
}
