package quiz

import (
	"github.com/pkg/errors"
	"github.com/qiniu/x/xlog"

	"github.com/vantoan19/CodeToGive-backend/internal/common/utils"
	"github.com/vantoan19/CodeToGive-backend/internal/protodef/model"
)

// Classifier 按用户把某类测验分为待完成与已完成。
type Classifier struct {
	store Store
	urls  model.URLs
	xl    *xlog.Logger
}

func NewClassifier(store Store, urls model.URLs, xl *xlog.Logger) *Classifier {
	if xl == nil {
		xl = xlog.New("quiz-classifier")
	}
	return &Classifier{store: store, urls: urls, xl: xl}
}

// Classify 收集用户所在班级中指定类型的测验并判定完成状态。
// 已删除的班级或测验直接跳过。小组 Scribbly 需要用户已提交且小组全部完成才算完成。
func (c *Classifier) Classify(xl *xlog.Logger, userID string, quizType model.QuizType) (*model.ClassificationResponse, error) {
	if xl == nil {
		xl = c.xl
	}
	res := &model.ClassificationResponse{
		ToDo:     []model.QuizView{},
		Finished: []model.QuizView{},
	}
	user, err := c.store.SelectUser(xl, userID)
	if err != nil {
		return nil, errors.Wrapf(err, "classify: user %s", userID)
	}

	quizzes, err := c.candidates(xl, user, quizType)
	if err != nil {
		return nil, err
	}
	for i := range quizzes {
		quiz := &quizzes[i]
		view, err := c.View(xl, user, quiz)
		if err != nil {
			return nil, err
		}
		if view.IsTaken {
			res.Finished = append(res.Finished, *view)
		} else {
			res.ToDo = append(res.ToDo, *view)
		}
	}
	return res, nil
}

func (c *Classifier) candidates(xl *xlog.Logger, user *model.UserDo, quizType model.QuizType) ([]model.QuizDo, error) {
	seen := make(map[string]bool)
	res := make([]model.QuizDo, 0)
	for _, classID := range user.Classes {
		class, err := c.store.SelectClass(xl, classID)
		if err != nil {
			if isNotFound(err) {
				xl.Infof("user %s references missing class %s, skipped", user.ID, classID)
				continue
			}
			return nil, err
		}
		for _, ref := range class.QuizList {
			if ref.QuizType != quizType || seen[ref.QuizID] {
				continue
			}
			seen[ref.QuizID] = true
			quiz, err := c.store.SelectQuiz(xl, ref.QuizID)
			if err != nil {
				if isNotFound(err) {
					xl.Infof("class %s references missing quiz %s, skipped", class.ID, ref.QuizID)
					continue
				}
				return nil, err
			}
			res = append(res, *quiz)
		}
	}
	return res, nil
}

// View 组装某个用户看到的测验，包括完成状态、题目与作品。
func (c *Classifier) View(xl *xlog.Logger, user *model.UserDo, quiz *model.QuizDo) (*model.QuizView, error) {
	if xl == nil {
		xl = c.xl
	}
	view := &model.QuizView{QuizDo: *quiz}
	if quiz.QuizType == model.QuizTypePicQuiz && quiz.BigQuestionImage != "" {
		view.BigQuestionImageURL = c.urls.QuizImage(quiz.QuizType, quiz.QuizID)
	}
	works, err := c.store.ListWorksByIDs(xl, quiz.StudentWorks)
	if err != nil {
		return nil, errors.Wrapf(err, "works of quiz %s", quiz.ID)
	}
	authors, err := c.authors(xl, works)
	if err != nil {
		return nil, err
	}

	taken := user.HasTaken(quiz.ID)
	if quiz.IsGroup() {
		var mine *model.StudentWorkDo
		for i := range works {
			if works[i].HasAuthor(user.ID) {
				mine = &works[i]
				break
			}
		}
		view.IsTaken = taken && mine != nil && mine.Complete()
		if mine != nil {
			wv := c.workView(user.ID, mine, authors, view.IsTaken)
			view.MyWork = &wv
		}
	} else {
		view.IsTaken = taken
		// 多次作答时取最后一次。
		for i := len(works) - 1; i >= 0; i-- {
			if works[i].HasAuthor(user.ID) {
				wv := c.workView(user.ID, &works[i], authors, view.IsTaken)
				view.MyWork = &wv
				break
			}
		}
	}
	// 答案只给管理员和已完成的用户。
	withAnswer := user.IsAdmin() || view.IsTaken
	if !withAnswer {
		view.BigAnswer = ""
	}
	if quiz.QuizType.HasQuestions() {
		questions, err := c.questions(xl, quiz, withAnswer)
		if err != nil {
			return nil, err
		}
		view.QuestionList = questions
	}
	if !view.IsTaken || quiz.QuizType != model.QuizTypeScribbly {
		return view, nil
	}

	view.ClassmateWork = make([]model.WorkView, 0)
	for i := range works {
		w := &works[i]
		if w.HasAuthor(user.ID) || len(w.Author) == 0 || !w.Complete() {
			continue
		}
		view.ClassmateWork = append(view.ClassmateWork, c.workView(user.ID, w, authors, true))
	}
	return view, nil
}

func (c *Classifier) questions(xl *xlog.Logger, quiz *model.QuizDo, withAnswer bool) ([]model.QuestionView, error) {
	ids := make([]string, 0, len(quiz.Questions))
	for _, ref := range quiz.Questions {
		ids = append(ids, ref.QuestionID)
	}
	questions, err := c.store.ListQuestionsByIDs(xl, ids)
	if err != nil {
		return nil, errors.Wrapf(err, "questions of quiz %s", quiz.ID)
	}
	res := make([]model.QuestionView, 0, len(questions))
	for i := range questions {
		qv := c.QuestionView(quiz.QuizType, quiz.QuizID, &questions[i])
		if !withAnswer {
			qv.Answer = ""
		}
		res = append(res, qv)
	}
	return res, nil
}

// QuestionView 题目视图，图片替换为URL。
func (c *Classifier) QuestionView(quizType model.QuizType, quizID string, q *model.QuestionDo) model.QuestionView {
	qv := model.QuestionView{
		ID:                q.ID,
		QuestionType:      q.QuestionType,
		Question:          q.Question,
		Answer:            q.Answer,
		QuestionDesc:      q.QuestionDesc,
		Options:           q.Options,
		UpdateQuestionURL: c.urls.UpdateQuestion(quizType, quizID, q.ID),
	}
	if q.QuestionImage != "" {
		qv.QuestionImageURL = c.urls.QuestionImage(q.ID)
	}
	return qv
}

// WorkView 单个作品对 viewerID 的视图，包括点赞信息。
func (c *Classifier) WorkView(xl *xlog.Logger, viewerID string, w *model.StudentWorkDo) (*model.WorkView, error) {
	if xl == nil {
		xl = c.xl
	}
	authors, err := c.authors(xl, []model.StudentWorkDo{*w})
	if err != nil {
		return nil, err
	}
	wv := c.workView(viewerID, w, authors, true)
	return &wv, nil
}

func (c *Classifier) authors(xl *xlog.Logger, works []model.StudentWorkDo) (map[string]model.UserDo, error) {
	ids := make([]string, 0)
	seen := make(map[string]bool)
	for _, w := range works {
		for _, a := range w.Author {
			if !seen[a] {
				seen[a] = true
				ids = append(ids, a)
			}
		}
	}
	users, err := c.store.ListUsersByIDs(xl, ids)
	if err != nil {
		return nil, errors.Wrap(err, "work authors")
	}
	res := make(map[string]model.UserDo, len(users))
	for _, u := range users {
		res[u.ID] = u
	}
	return res, nil
}

// workView reactions 为 true 时填充点赞信息。
func (c *Classifier) workView(viewerID string, w *model.StudentWorkDo, authors map[string]model.UserDo, reactions bool) model.WorkView {
	wv := model.WorkView{
		ID:          w.ID,
		Authors:     make([]model.AuthorView, 0, len(w.Author)),
		Answer:      w.Answer,
		Score:       w.Score,
		TryCount:    w.TryCount,
		TakenDate:   w.TakenDate,
		Status:      w.Status(),
		CurTaskDesc: w.CurTaskDesc,
	}
	for _, id := range w.Author {
		u, ok := authors[id]
		if !ok {
			// 作者账号已删除。
			wv.Authors = append(wv.Authors, model.AuthorView{ID: id})
			continue
		}
		av := model.AuthorView{ID: u.ID, Account: u.Account, FirstName: u.FirstName, LastName: u.LastName}
		if u.Avatar != "" {
			av.AvatarURL = c.urls.Avatar(u.Account)
		}
		wv.Authors = append(wv.Authors, av)
	}
	if w.StudentWork != "" {
		wv.ImageURL = c.urls.WorkImage(w.ID)
	}
	if !reactions || w.QuizType != model.QuizTypeScribbly {
		return wv
	}
	wv.IsLoveVoted = utils.ContainsString(w.LoveReact, viewerID)
	wv.IsHahaVoted = utils.ContainsString(w.HahaReact, viewerID)
	wv.IsWowVoted = utils.ContainsString(w.WowReact, viewerID)
	wv.LoveCount = len(w.LoveReact)
	wv.HahaCount = len(w.HahaReact)
	wv.WowCount = len(w.WowReact)
	wv.LoveReactURL = c.urls.React(model.ReactLove, w.ID)
	wv.HahaReactURL = c.urls.React(model.ReactHaha, w.ID)
	wv.WowReactURL = c.urls.React(model.ReactWow, w.ID)
	return wv
}
