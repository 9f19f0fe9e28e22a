package quiz

import (
	"fmt"

	"github.com/qiniu/x/xlog"

	"github.com/vantoan19/CodeToGive-backend/internal/common/utils"
)

// Inconsistency 一条缺失的反向引用。
type Inconsistency struct {
	Kind   string `json:"kind"`
	From   string `json:"from"`
	To     string `json:"to"`
	Detail string `json:"detail"`
}

func (i Inconsistency) String() string {
	return fmt.Sprintf("%s: %s -> %s (%s)", i.Kind, i.From, i.To, i.Detail)
}

// CheckReciprocity 检查 User<->Class、Quiz<->Class 是否互相引用，只报告不修复。
// 指向已删除文档的引用也会报告。
func (r *Relations) CheckReciprocity(xl *xlog.Logger) ([]Inconsistency, error) {
	xl = r.logger(xl)
	users, err := r.store.ListUsers(xl)
	if err != nil {
		return nil, err
	}
	classes, err := r.store.ListClasses(xl)
	if err != nil {
		return nil, err
	}
	quizzes, err := r.store.ListQuizzes(xl)
	if err != nil {
		return nil, err
	}

	userByID := make(map[string]int, len(users))
	for i := range users {
		userByID[users[i].ID] = i
	}
	classByID := make(map[string]int, len(classes))
	for i := range classes {
		classByID[classes[i].ID] = i
	}
	quizByID := make(map[string]int, len(quizzes))
	for i := range quizzes {
		quizByID[quizzes[i].ID] = i
	}

	res := make([]Inconsistency, 0)
	report := func(kind, from, to, detail string) {
		i := Inconsistency{Kind: kind, From: from, To: to, Detail: detail}
		xl.Warnf("inconsistent link %s", i)
		res = append(res, i)
	}

	for _, u := range users {
		for _, classID := range u.Classes {
			ci, ok := classByID[classID]
			if !ok {
				report("user-class", u.ID, classID, "class missing")
				continue
			}
			if !utils.ContainsString(classes[ci].StudentList, u.ID) {
				report("user-class", u.ID, classID, "class does not list student")
			}
		}
	}
	for _, q := range quizzes {
		for _, classID := range q.Classes {
			ci, ok := classByID[classID]
			if !ok {
				report("quiz-class", q.ID, classID, "class missing")
				continue
			}
			if !classes[ci].HasQuiz(q.ID) {
				report("quiz-class", q.ID, classID, "class does not list quiz")
			}
		}
	}
	for _, c := range classes {
		for _, userID := range c.StudentList {
			ui, ok := userByID[userID]
			if !ok {
				report("class-user", c.ID, userID, "user missing")
				continue
			}
			if !utils.ContainsString(users[ui].Classes, c.ID) {
				report("class-user", c.ID, userID, "user does not list class")
			}
		}
		for _, ref := range c.QuizList {
			qi, ok := quizByID[ref.QuizID]
			if !ok {
				report("class-quiz", c.ID, ref.QuizID, "quiz missing")
				continue
			}
			if !utils.ContainsString(quizzes[qi].Classes, c.ID) {
				report("class-quiz", c.ID, ref.QuizID, "quiz does not list class")
			}
		}
	}
	return res, nil
}
