// Package inmem 内存版文档存储，用于 store.type = "memory" 与测试。
// 存取都做深拷贝，调用方修改返回值不会影响已保存的文档。
package inmem

import (
	"sync"
	"time"

	"github.com/qiniu/x/xlog"
	"gopkg.in/mgo.v2/bson"

	serrors "github.com/vantoan19/CodeToGive-backend/internal/protodef/errors"
	"github.com/vantoan19/CodeToGive-backend/internal/protodef/model"
)

type Store struct {
	mu        sync.RWMutex
	users     map[string]*model.UserDo
	classes   map[string]*model.ClassDo
	quizzes   map[string]*model.QuizDo
	questions map[string]*model.QuestionDo
	works     map[string]*model.StudentWorkDo
	assets    map[string]*model.AssetDo
	tokens    map[string]*model.AccountTokenDo
}

func NewStore() *Store {
	return &Store{
		users:     make(map[string]*model.UserDo),
		classes:   make(map[string]*model.ClassDo),
		quizzes:   make(map[string]*model.QuizDo),
		questions: make(map[string]*model.QuestionDo),
		works:     make(map[string]*model.StudentWorkDo),
		assets:    make(map[string]*model.AssetDo),
		tokens:    make(map[string]*model.AccountTokenDo),
	}
}

func newID() string {
	return bson.NewObjectId().Hex()
}

func stamp(id *string, created, updated *time.Time) {
	now := time.Now()
	if *id == "" {
		*id = newID()
	}
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

func notFound(kind, id string) error {
	return serrors.NotFound("%s %s not found", kind, id)
}

func duplicate(kind, key string) error {
	return serrors.New(serrors.ServerErrorDuplicate, "%s %s already exists", kind, key)
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneUser(u *model.UserDo) *model.UserDo {
	c := *u
	c.DateOfBirth = cloneTime(u.DateOfBirth)
	c.Badges = cloneStrings(u.Badges)
	c.Classes = cloneStrings(u.Classes)
	if u.TakenQuizzes != nil {
		c.TakenQuizzes = append(make([]model.TakenQuizDo, 0, len(u.TakenQuizzes)), u.TakenQuizzes...)
	}
	return &c
}

func cloneClass(cl *model.ClassDo) *model.ClassDo {
	c := *cl
	c.StudentList = cloneStrings(cl.StudentList)
	if cl.QuizList != nil {
		c.QuizList = append(make([]model.QuizRefDo, 0, len(cl.QuizList)), cl.QuizList...)
	}
	return &c
}

func cloneQuiz(q *model.QuizDo) *model.QuizDo {
	c := *q
	c.DueDate = cloneTime(q.DueDate)
	c.Classes = cloneStrings(q.Classes)
	c.StudentWorks = cloneStrings(q.StudentWorks)
	c.TaskDescription = cloneStrings(q.TaskDescription)
	if q.Questions != nil {
		c.Questions = append(make([]model.QuestionRefDo, 0, len(q.Questions)), q.Questions...)
	}
	return &c
}

func cloneQuestion(q *model.QuestionDo) *model.QuestionDo {
	c := *q
	c.Options = cloneStrings(q.Options)
	return &c
}

func cloneWork(w *model.StudentWorkDo) *model.StudentWorkDo {
	c := *w
	c.TakenDate = cloneTime(w.TakenDate)
	c.Author = cloneStrings(w.Author)
	c.Answer = cloneStrings(w.Answer)
	c.Submitted = cloneStrings(w.Submitted)
	c.LoveReact = cloneStrings(w.LoveReact)
	c.HahaReact = cloneStrings(w.HahaReact)
	c.WowReact = cloneStrings(w.WowReact)
	return &c
}

// users

func (s *Store) SelectUser(xl *xlog.Logger, id string) (*model.UserDo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, notFound("user", id)
	}
	return cloneUser(u), nil
}

func (s *Store) SelectUserByAccount(xl *xlog.Logger, account string) (*model.UserDo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Account == account {
			return cloneUser(u), nil
		}
	}
	return nil, notFound("account", account)
}

func (s *Store) ListUsersByIDs(xl *xlog.Logger, ids []string) ([]model.UserDo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]model.UserDo, 0, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			res = append(res, *cloneUser(u))
		}
	}
	return res, nil
}

func (s *Store) ListUsers(xl *xlog.Logger) ([]model.UserDo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]model.UserDo, 0, len(s.users))
	for _, u := range s.users {
		res = append(res, *cloneUser(u))
	}
	return res, nil
}

func (s *Store) userConflict(u *model.UserDo) error {
	for id, other := range s.users {
		if id == u.ID {
			continue
		}
		if other.Account == u.Account {
			return duplicate("account", u.Account)
		}
		if u.Email != "" && other.Email == u.Email {
			return duplicate("email", u.Email)
		}
	}
	return nil
}

func (s *Store) InsertUser(xl *xlog.Logger, user *model.UserDo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp(&user.ID, &user.CreatedTime, &user.UpdatedTime)
	if _, ok := s.users[user.ID]; ok {
		return duplicate("user", user.ID)
	}
	if err := s.userConflict(user); err != nil {
		return err
	}
	s.users[user.ID] = cloneUser(user)
	return nil
}

func (s *Store) UpdateUser(xl *xlog.Logger, user *model.UserDo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return notFound("user", user.ID)
	}
	if err := s.userConflict(user); err != nil {
		return err
	}
	s.users[user.ID] = cloneUser(user)
	return nil
}

func (s *Store) DeleteUser(xl *xlog.Logger, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return notFound("user", id)
	}
	delete(s.users, id)
	return nil
}

// classes

func (s *Store) SelectClass(xl *xlog.Logger, id string) (*model.ClassDo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.classes[id]
	if !ok {
		return nil, notFound("class", id)
	}
	return cloneClass(c), nil
}

func (s *Store) SelectClassByClassID(xl *xlog.Logger, classID string) (*model.ClassDo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.classes {
		if c.ClassID == classID {
			return cloneClass(c), nil
		}
	}
	return nil, notFound("class", classID)
}

func (s *Store) ListClasses(xl *xlog.Logger) ([]model.ClassDo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]model.ClassDo, 0, len(s.classes))
	for _, c := range s.classes {
		res = append(res, *cloneClass(c))
	}
	return res, nil
}

func (s *Store) InsertClass(xl *xlog.Logger, class *model.ClassDo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp(&class.ID, &class.CreatedTime, &class.UpdatedTime)
	for _, c := range s.classes {
		if c.ID == class.ID || c.ClassID == class.ClassID {
			return duplicate("class", class.ClassID)
		}
	}
	s.classes[class.ID] = cloneClass(class)
	return nil
}

func (s *Store) UpdateClass(xl *xlog.Logger, class *model.ClassDo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.classes[class.ID]; !ok {
		return notFound("class", class.ID)
	}
	s.classes[class.ID] = cloneClass(class)
	return nil
}

func (s *Store) DeleteClass(xl *xlog.Logger, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.classes[id]; !ok {
		return notFound("class", id)
	}
	delete(s.classes, id)
	return nil
}

// quizzes

func (s *Store) SelectQuiz(xl *xlog.Logger, id string) (*model.QuizDo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quizzes[id]
	if !ok {
		return nil, notFound("quiz", id)
	}
	return cloneQuiz(q), nil
}

func (s *Store) SelectQuizByQuizID(xl *xlog.Logger, quizID string) (*model.QuizDo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, q := range s.quizzes {
		if q.QuizID == quizID {
			return cloneQuiz(q), nil
		}
	}
	return nil, notFound("quiz", quizID)
}

func (s *Store) ListQuizzes(xl *xlog.Logger) ([]model.QuizDo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]model.QuizDo, 0, len(s.quizzes))
	for _, q := range s.quizzes {
		res = append(res, *cloneQuiz(q))
	}
	return res, nil
}

func (s *Store) InsertQuiz(xl *xlog.Logger, quiz *model.QuizDo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp(&quiz.ID, &quiz.CreatedTime, &quiz.UpdatedTime)
	for _, q := range s.quizzes {
		if q.ID == quiz.ID || q.QuizID == quiz.QuizID {
			return duplicate("quiz", quiz.QuizID)
		}
	}
	s.quizzes[quiz.ID] = cloneQuiz(quiz)
	return nil
}

func (s *Store) UpdateQuiz(xl *xlog.Logger, quiz *model.QuizDo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[quiz.ID]; !ok {
		return notFound("quiz", quiz.ID)
	}
	s.quizzes[quiz.ID] = cloneQuiz(quiz)
	return nil
}

func (s *Store) DeleteQuiz(xl *xlog.Logger, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[id]; !ok {
		return notFound("quiz", id)
	}
	delete(s.quizzes, id)
	return nil
}

// questions

func (s *Store) SelectQuestion(xl *xlog.Logger, id string) (*model.QuestionDo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[id]
	if !ok {
		return nil, notFound("question", id)
	}
	return cloneQuestion(q), nil
}

func (s *Store) ListQuestionsByIDs(xl *xlog.Logger, ids []string) ([]model.QuestionDo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]model.QuestionDo, 0, len(ids))
	for _, id := range ids {
		if q, ok := s.questions[id]; ok {
			res = append(res, *cloneQuestion(q))
		}
	}
	return res, nil
}

func (s *Store) InsertQuestion(xl *xlog.Logger, question *model.QuestionDo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp(&question.ID, &question.CreatedTime, &question.UpdatedTime)
	if _, ok := s.questions[question.ID]; ok {
		return duplicate("question", question.ID)
	}
	s.questions[question.ID] = cloneQuestion(question)
	return nil
}

func (s *Store) UpdateQuestion(xl *xlog.Logger, question *model.QuestionDo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[question.ID]; !ok {
		return notFound("question", question.ID)
	}
	s.questions[question.ID] = cloneQuestion(question)
	return nil
}

func (s *Store) DeleteQuestion(xl *xlog.Logger, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[id]; !ok {
		return notFound("question", id)
	}
	delete(s.questions, id)
	return nil
}

// student works

func (s *Store) SelectWork(xl *xlog.Logger, id string) (*model.StudentWorkDo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.works[id]
	if !ok {
		return nil, notFound("student work", id)
	}
	return cloneWork(w), nil
}

func (s *Store) ListWorksByIDs(xl *xlog.Logger, ids []string) ([]model.StudentWorkDo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]model.StudentWorkDo, 0, len(ids))
	for _, id := range ids {
		if w, ok := s.works[id]; ok {
			res = append(res, *cloneWork(w))
		}
	}
	return res, nil
}

func (s *Store) InsertWork(xl *xlog.Logger, work *model.StudentWorkDo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp(&work.ID, &work.CreatedTime, &work.UpdatedTime)
	if _, ok := s.works[work.ID]; ok {
		return duplicate("student work", work.ID)
	}
	s.works[work.ID] = cloneWork(work)
	return nil
}

func (s *Store) UpdateWork(xl *xlog.Logger, work *model.StudentWorkDo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.works[work.ID]; !ok {
		return notFound("student work", work.ID)
	}
	s.works[work.ID] = cloneWork(work)
	return nil
}

func (s *Store) DeleteWork(xl *xlog.Logger, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.works[id]; !ok {
		return notFound("student work", id)
	}
	delete(s.works, id)
	return nil
}

// assets

func (s *Store) PutAsset(xl *xlog.Logger, contentType string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	asset := &model.AssetDo{
		ID:          newID(),
		ContentType: contentType,
		Data:        append([]byte(nil), data...),
		CreatedTime: time.Now(),
	}
	s.assets[asset.ID] = asset
	return asset.ID, nil
}

func (s *Store) GetAsset(xl *xlog.Logger, ref string) (*model.AssetDo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assets[ref]
	if !ok {
		return nil, notFound("asset", ref)
	}
	c := *a
	c.Data = append([]byte(nil), a.Data...)
	return &c, nil
}

// tokens

func (s *Store) InsertToken(xl *xlog.Logger, token *model.AccountTokenDo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token.ID == "" {
		token.ID = newID()
	}
	if _, ok := s.tokens[token.Token]; ok {
		return duplicate("token", token.ID)
	}
	c := *token
	s.tokens[token.Token] = &c
	return nil
}

func (s *Store) SelectToken(xl *xlog.Logger, token string) (*model.AccountTokenDo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tokens[token]
	if !ok {
		return nil, notFound("token", "")
	}
	c := *t
	return &c, nil
}

func (s *Store) DeleteToken(xl *xlog.Logger, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[token]; !ok {
		return notFound("token", "")
	}
	delete(s.tokens, token)
	return nil
}

func (s *Store) DeleteTokensOfAccount(xl *xlog.Logger, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, t := range s.tokens {
		if t.AccountId == accountID {
			delete(s.tokens, k)
		}
	}
	return nil
}
