package quiz

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/qiniu/x/xlog"

	"github.com/vantoan19/CodeToGive-backend/internal/protodef/model"
	"github.com/vantoan19/CodeToGive-backend/internal/service/inmem"
)

type fakeImages struct{}

func (fakeImages) Normalize(data []byte, width int) ([]byte, error) {
	if string(data) == "broken" {
		return nil, errors.New("cannot decode")
	}
	return append([]byte(fmt.Sprintf("png%d:", width)), data...), nil
}

type fixture struct {
	store      *inmem.Store
	relations  *Relations
	coord      *Coordinator
	classifier *Classifier
}

func newFixture() *fixture {
	store := inmem.NewStore()
	return newFixtureWithStore(store, store)
}

func newFixtureWithStore(store Store, assets *inmem.Store) *fixture {
	xl := xlog.New("quiz-test")
	rel := NewRelations(store, xl)
	return &fixture{
		store:      assets,
		relations:  rel,
		coord:      NewCoordinator(store, rel, fakeImages{}, assets, xl).WithRand(rand.New(rand.NewSource(1))),
		classifier: NewClassifier(store, model.URLs{Domain: "http://quiz.test/"}, xl),
	}
}

func (f *fixture) user(t *testing.T, account string) *model.UserDo {
	t.Helper()
	u := &model.UserDo{Account: account, AccountType: model.AccountTypeStudent}
	if err := f.store.InsertUser(nil, u); err != nil {
		t.Fatalf("insert user %s: %v", account, err)
	}
	return u
}

func (f *fixture) users(t *testing.T, n int) []*model.UserDo {
	t.Helper()
	res := make([]*model.UserDo, n)
	for i := range res {
		res[i] = f.user(t, fmt.Sprintf("student%02d", i))
	}
	return res
}

func (f *fixture) class(t *testing.T, classID string, students ...*model.UserDo) *model.ClassDo {
	t.Helper()
	c, err := f.coord.CreateClass(nil, &model.ClassDo{ClassID: classID, ClassName: classID})
	if err != nil {
		t.Fatalf("create class %s: %v", classID, err)
	}
	for _, s := range students {
		if c, err = f.coord.AddStudent(nil, classID, s.Account); err != nil {
			t.Fatalf("add %s to %s: %v", s.Account, classID, err)
		}
	}
	return c
}

func (f *fixture) quiz(t *testing.T, q *model.QuizDo, classIDs ...string) *model.QuizDo {
	t.Helper()
	if q.QuizType == "" {
		q.QuizType = model.QuizTypeQuiz
	}
	created, err := f.coord.CreateQuiz(nil, q, classIDs)
	if err != nil {
		t.Fatalf("create quiz %s: %v", q.QuizID, err)
	}
	return created
}

func (f *fixture) reloadUser(t *testing.T, id string) *model.UserDo {
	t.Helper()
	u, err := f.store.SelectUser(nil, id)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func (f *fixture) reloadClass(t *testing.T, id string) *model.ClassDo {
	t.Helper()
	c, err := f.store.SelectClass(nil, id)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func (f *fixture) reloadQuiz(t *testing.T, id string) *model.QuizDo {
	t.Helper()
	q, err := f.store.SelectQuiz(nil, id)
	if err != nil {
		t.Fatal(err)
	}
	return q
}

func quizIDs(views []model.QuizView) []string {
	res := make([]string, 0, len(views))
	for _, v := range views {
		res = append(res, v.QuizID)
	}
	return res
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int)
	for _, s := range a {
		seen[s]++
	}
	for _, s := range b {
		seen[s]--
		if seen[s] < 0 {
			return false
		}
	}
	return true
}
