package quiz

import (
	"time"

	"github.com/pkg/errors"
	"github.com/qiniu/x/xlog"

	"github.com/vantoan19/CodeToGive-backend/internal/common/utils"
	"github.com/vantoan19/CodeToGive-backend/internal/protodef/model"
)

// Relations 维护 User<->Class、Quiz<->Class 的双向引用，以及 Quiz->StudentWork、User->TakenQuiz。
// 每个操作在提交时重新读取两端文档，先写 user/quiz 一端再写 class 一端；
// 第二次写入失败时返回错误，不重试。
type Relations struct {
	store Store
	locks *lockSet
	xl    *xlog.Logger
}

func NewRelations(store Store, xl *xlog.Logger) *Relations {
	if xl == nil {
		xl = xlog.New("quiz-relations")
	}
	return &Relations{
		store: store,
		locks: newLockSet(),
		xl:    xl,
	}
}

func (r *Relations) logger(xl *xlog.Logger) *xlog.Logger {
	if xl == nil {
		return r.xl
	}
	return xl
}

// LinkStudentToClass 学生加入班级。重复加入不产生重复引用。
func (r *Relations) LinkStudentToClass(xl *xlog.Logger, userID, classID string) error {
	xl = r.logger(xl)
	unlock := r.locks.Lock(userKey(userID), classKey(classID))
	defer unlock()

	user, class, err := r.loadUserClass(xl, userID, classID)
	if err != nil {
		return err
	}
	var userChanged, classChanged bool
	user.Classes, userChanged = utils.AddString(user.Classes, class.ID)
	class.StudentList, classChanged = utils.AddString(class.StudentList, user.ID)
	return r.saveUserClass(xl, user, userChanged, class, classChanged)
}

// UnlinkStudentFromClass 学生退出班级。
func (r *Relations) UnlinkStudentFromClass(xl *xlog.Logger, userID, classID string) error {
	xl = r.logger(xl)
	unlock := r.locks.Lock(userKey(userID), classKey(classID))
	defer unlock()

	user, class, err := r.loadUserClass(xl, userID, classID)
	if err != nil {
		return err
	}
	var userChanged, classChanged bool
	user.Classes, userChanged = utils.RemoveString(user.Classes, class.ID)
	class.StudentList, classChanged = utils.RemoveString(class.StudentList, user.ID)
	return r.saveUserClass(xl, user, userChanged, class, classChanged)
}

// LinkQuizToClass 测验加入班级，班级一侧记录测验类型。
func (r *Relations) LinkQuizToClass(xl *xlog.Logger, quizID, classID string) error {
	xl = r.logger(xl)
	unlock := r.locks.Lock(quizKey(quizID), classKey(classID))
	defer unlock()

	quiz, class, err := r.loadQuizClass(xl, quizID, classID)
	if err != nil {
		return err
	}
	var quizChanged, classChanged bool
	quiz.Classes, quizChanged = utils.AddString(quiz.Classes, class.ID)
	if !class.HasQuiz(quiz.ID) {
		class.QuizList = append(class.QuizList, model.QuizRefDo{QuizID: quiz.ID, QuizType: quiz.QuizType})
		classChanged = true
	}
	return r.saveQuizClass(xl, quiz, quizChanged, class, classChanged)
}

// UnlinkQuizFromClass 测验移出班级。
func (r *Relations) UnlinkQuizFromClass(xl *xlog.Logger, quizID, classID string) error {
	xl = r.logger(xl)
	unlock := r.locks.Lock(quizKey(quizID), classKey(classID))
	defer unlock()

	quiz, class, err := r.loadQuizClass(xl, quizID, classID)
	if err != nil {
		return err
	}
	var quizChanged, classChanged bool
	quiz.Classes, quizChanged = utils.RemoveString(quiz.Classes, class.ID)
	refs := class.QuizList[:0]
	for _, ref := range class.QuizList {
		if ref.QuizID == quiz.ID {
			classChanged = true
			continue
		}
		refs = append(refs, ref)
	}
	class.QuizList = refs
	return r.saveQuizClass(xl, quiz, quizChanged, class, classChanged)
}

// AttachStudentWork 作品挂到测验上，只追加。
func (r *Relations) AttachStudentWork(xl *xlog.Logger, workID, quizID string) error {
	xl = r.logger(xl)
	unlock := r.locks.Lock(quizKey(quizID))
	defer unlock()

	quiz, err := r.store.SelectQuiz(xl, quizID)
	if err != nil {
		return errors.Wrapf(err, "attach work %s: quiz %s", workID, quizID)
	}
	works, changed := utils.AddString(quiz.StudentWorks, workID)
	if !changed {
		return nil
	}
	quiz.StudentWorks = works
	quiz.UpdatedTime = time.Now()
	if err = r.store.UpdateQuiz(xl, quiz); err != nil {
		xl.Errorf("failed to attach work %s to quiz %s, error %v", workID, quizID, err)
		return errors.Wrapf(err, "attach work %s", workID)
	}
	return nil
}

// RecordQuizTaken 记录用户完成测验，同一测验只记录一次，返回本次是否新增了记录。
func (r *Relations) RecordQuizTaken(xl *xlog.Logger, userID string, quiz *model.QuizDo, score float64) (bool, error) {
	xl = r.logger(xl)
	unlock := r.locks.Lock(userKey(userID))
	defer unlock()

	user, err := r.store.SelectUser(xl, userID)
	if err != nil {
		return false, errors.Wrapf(err, "record taken quiz: user %s", userID)
	}
	if user.HasTaken(quiz.ID) {
		return false, nil
	}
	user.TakenQuizzes = append(user.TakenQuizzes, model.TakenQuizDo{
		QuizID:   quiz.ID,
		QuizType: quiz.QuizType,
		TakenAt:  time.Now(),
		Score:    score,
	})
	user.UpdatedTime = time.Now()
	if err = r.store.UpdateUser(xl, user); err != nil {
		xl.Errorf("failed to record quiz %s taken by %s, error %v", quiz.ID, userID, err)
		return false, errors.Wrapf(err, "record taken quiz %s", quiz.ID)
	}
	return true, nil
}

// AwardStars 给用户加星星。
func (r *Relations) AwardStars(xl *xlog.Logger, userID string, stars float64) error {
	xl = r.logger(xl)
	if stars == 0 {
		return nil
	}
	unlock := r.locks.Lock(userKey(userID))
	defer unlock()

	user, err := r.store.SelectUser(xl, userID)
	if err != nil {
		return err
	}
	user.Stars += stars
	user.UpdatedTime = time.Now()
	return r.store.UpdateUser(xl, user)
}

// DetachUser 用户从所有班级中移除，用于删除账号。
func (r *Relations) DetachUser(xl *xlog.Logger, userID string) error {
	xl = r.logger(xl)
	user, err := r.store.SelectUser(xl, userID)
	if err != nil {
		return err
	}
	classes := append([]string(nil), user.Classes...)
	for _, classID := range classes {
		if err = r.UnlinkStudentFromClass(xl, userID, classID); err != nil {
			if isNotFound(err) {
				// 班级已不存在，只清理用户一侧。
				if err = r.dropDanglingClass(xl, userID, classID); err != nil {
					return err
				}
				continue
			}
			return err
		}
	}
	return nil
}

func (r *Relations) dropDanglingClass(xl *xlog.Logger, userID, classID string) error {
	unlock := r.locks.Lock(userKey(userID))
	defer unlock()
	user, err := r.store.SelectUser(xl, userID)
	if err != nil {
		return err
	}
	var changed bool
	user.Classes, changed = utils.RemoveString(user.Classes, classID)
	if !changed {
		return nil
	}
	return r.store.UpdateUser(xl, user)
}

func (r *Relations) loadUserClass(xl *xlog.Logger, userID, classID string) (*model.UserDo, *model.ClassDo, error) {
	user, err := r.store.SelectUser(xl, userID)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "user %s", userID)
	}
	class, err := r.store.SelectClass(xl, classID)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "class %s", classID)
	}
	return user, class, nil
}

func (r *Relations) loadQuizClass(xl *xlog.Logger, quizID, classID string) (*model.QuizDo, *model.ClassDo, error) {
	quiz, err := r.store.SelectQuiz(xl, quizID)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "quiz %s", quizID)
	}
	class, err := r.store.SelectClass(xl, classID)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "class %s", classID)
	}
	return quiz, class, nil
}

func (r *Relations) saveUserClass(xl *xlog.Logger, user *model.UserDo, userChanged bool, class *model.ClassDo, classChanged bool) error {
	now := time.Now()
	if userChanged {
		user.UpdatedTime = now
		if err := r.store.UpdateUser(xl, user); err != nil {
			xl.Errorf("failed to update user %s classes, error %v", user.ID, err)
			return errors.Wrapf(err, "update user %s", user.ID)
		}
	}
	if classChanged {
		class.UpdatedTime = now
		if err := r.store.UpdateClass(xl, class); err != nil {
			xl.Errorf("user %s saved but class %s student list failed, error %v", user.ID, class.ID, err)
			return errors.Wrapf(err, "update class %s after user %s", class.ID, user.ID)
		}
	}
	return nil
}

func (r *Relations) saveQuizClass(xl *xlog.Logger, quiz *model.QuizDo, quizChanged bool, class *model.ClassDo, classChanged bool) error {
	now := time.Now()
	if quizChanged {
		quiz.UpdatedTime = now
		if err := r.store.UpdateQuiz(xl, quiz); err != nil {
			xl.Errorf("failed to update quiz %s classes, error %v", quiz.ID, err)
			return errors.Wrapf(err, "update quiz %s", quiz.ID)
		}
	}
	if classChanged {
		class.UpdatedTime = now
		if err := r.store.UpdateClass(xl, class); err != nil {
			xl.Errorf("quiz %s saved but class %s quiz list failed, error %v", quiz.ID, class.ID, err)
			return errors.Wrapf(err, "update class %s after quiz %s", class.ID, quiz.ID)
		}
	}
	return nil
}
