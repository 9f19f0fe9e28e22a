package quiz

import (
	"time"

	"github.com/pkg/errors"
	"github.com/qiniu/x/xlog"

	"github.com/vantoan19/CodeToGive-backend/internal/common/utils"
	serrors "github.com/vantoan19/CodeToGive-backend/internal/protodef/errors"
	"github.com/vantoan19/CodeToGive-backend/internal/protodef/model"
)

// CreateClass 新建班级，classId 重复时返回 ErrDuplicate。
func (c *Coordinator) CreateClass(xl *xlog.Logger, class *model.ClassDo) (*model.ClassDo, error) {
	xl = c.logger(xl)
	if class.StudentList == nil {
		class.StudentList = []string{}
	}
	if class.QuizList == nil {
		class.QuizList = []model.QuizRefDo{}
	}
	if err := c.store.InsertClass(xl, class); err != nil {
		return nil, err
	}
	xl.Infof("class %s created", class.ClassID)
	return class, nil
}

func (c *Coordinator) GetClass(xl *xlog.Logger, classID string) (*model.ClassDo, error) {
	return c.store.SelectClassByClassID(c.logger(xl), classID)
}

// ClassStudents 班级学生，已删除的账号跳过。
func (c *Coordinator) ClassStudents(xl *xlog.Logger, class *model.ClassDo) ([]model.UserDo, error) {
	return c.store.ListUsersByIDs(c.logger(xl), class.StudentList)
}

// ClassQuizzes 班级的全部测验，已删除的测验跳过。
func (c *Coordinator) ClassQuizzes(xl *xlog.Logger, classID string) ([]model.QuizDo, error) {
	xl = c.logger(xl)
	class, err := c.store.SelectClassByClassID(xl, classID)
	if err != nil {
		return nil, err
	}
	res := make([]model.QuizDo, 0, len(class.QuizList))
	for _, ref := range class.QuizList {
		quiz, err := c.store.SelectQuiz(xl, ref.QuizID)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return nil, err
		}
		res = append(res, *quiz)
	}
	return res, nil
}

// UpdateClass 修改班级名称，classId 不可修改。
func (c *Coordinator) UpdateClass(xl *xlog.Logger, classID string, upd ClassUpdater) (*model.ClassDo, error) {
	xl = c.logger(xl)
	class, err := c.store.SelectClassByClassID(xl, classID)
	if err != nil {
		return nil, err
	}
	unlock := c.locks.Lock(classKey(class.ID))
	defer unlock()
	if class, err = c.store.SelectClass(xl, class.ID); err != nil {
		return nil, err
	}
	upd.ApplyTo(class)
	class.ClassID = classID
	class.UpdatedTime = time.Now()
	if err = c.store.UpdateClass(xl, class); err != nil {
		return nil, err
	}
	return class, nil
}

// DeleteClass 所有学生与测验移出班级后删除班级。
// 不再属于任何班级的测验连同题目、作品一起删除，仍属于其他班级的测验保留。
func (c *Coordinator) DeleteClass(xl *xlog.Logger, classID string) error {
	xl = c.logger(xl)
	class, err := c.store.SelectClassByClassID(xl, classID)
	if err != nil {
		return err
	}
	cascade := &serrors.CascadeError{Subject: "class " + classID}
	for _, userID := range class.StudentList {
		if err = c.relations.UnlinkStudentFromClass(xl, userID, class.ID); err != nil && !isNotFound(err) {
			cascade.Add(err)
		}
	}
	for _, ref := range class.QuizList {
		if err = c.relations.UnlinkQuizFromClass(xl, ref.QuizID, class.ID); err != nil {
			if !isNotFound(err) {
				cascade.Add(err)
			}
			continue
		}
		quiz, err := c.store.SelectQuiz(xl, ref.QuizID)
		if err != nil {
			if !isNotFound(err) {
				cascade.Add(errors.Wrapf(err, "load quiz %s", ref.QuizID))
			}
			continue
		}
		if len(quiz.Classes) > 0 {
			continue
		}
		if err = c.deleteQuiz(xl, quiz); err != nil {
			cascade.Add(err)
		}
	}
	if err = c.store.DeleteClass(xl, class.ID); err != nil && !isNotFound(err) {
		cascade.Add(errors.Wrapf(err, "delete class %s", classID))
	}
	if err = cascade.ErrOrNil(); err != nil {
		xl.Errorf("%v", err)
		return err
	}
	xl.Infof("class %s deleted", classID)
	return nil
}

// AddStudent 按账号把学生加入班级。
func (c *Coordinator) AddStudent(xl *xlog.Logger, classID, account string) (*model.ClassDo, error) {
	return c.changeStudent(xl, classID, account, c.relations.LinkStudentToClass)
}

// RemoveStudent 按账号把学生移出班级。
func (c *Coordinator) RemoveStudent(xl *xlog.Logger, classID, account string) (*model.ClassDo, error) {
	return c.changeStudent(xl, classID, account, c.relations.UnlinkStudentFromClass)
}

func (c *Coordinator) changeStudent(xl *xlog.Logger, classID, account string, op func(*xlog.Logger, string, string) error) (*model.ClassDo, error) {
	xl = c.logger(xl)
	class, err := c.store.SelectClassByClassID(xl, classID)
	if err != nil {
		return nil, err
	}
	user, err := c.store.SelectUserByAccount(xl, account)
	if err != nil {
		return nil, err
	}
	if err = op(xl, user.ID, class.ID); err != nil {
		return nil, err
	}
	return c.store.SelectClass(xl, class.ID)
}

// UpdateUser 修改用户资料。
func (c *Coordinator) UpdateUser(xl *xlog.Logger, userID string, upd UserUpdater) (*model.UserDo, error) {
	xl = c.logger(xl)
	unlock := c.locks.Lock(userKey(userID))
	defer unlock()
	user, err := c.store.SelectUser(xl, userID)
	if err != nil {
		return nil, err
	}
	account, accountType, classes := user.Account, user.AccountType, user.Classes
	upd.ApplyTo(user)
	user.Account, user.AccountType, user.Classes = account, accountType, classes
	user.UpdatedTime = time.Now()
	if err = c.store.UpdateUser(xl, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser 用户移出所有班级后删除。已提交的作品保留；
// 尚未提交的小组作品去掉该用户，所有作品中该用户的表情一并撤销。
func (c *Coordinator) DeleteUser(xl *xlog.Logger, userID string) error {
	xl = c.logger(xl)
	if err := c.dropFromWorks(xl, userID); err != nil {
		return err
	}
	if err := c.relations.DetachUser(xl, userID); err != nil {
		return err
	}
	if err := c.store.DeleteUser(xl, userID); err != nil {
		return err
	}
	xl.Infof("user %s deleted", userID)
	return nil
}

func (c *Coordinator) dropFromWorks(xl *xlog.Logger, userID string) error {
	quizzes, err := c.store.ListQuizzes(xl)
	if err != nil {
		return errors.Wrap(err, "list quizzes")
	}
	for _, quiz := range quizzes {
		if quiz.QuizType != model.QuizTypeScribbly {
			continue
		}
		for _, workID := range quiz.StudentWorks {
			if err = c.dropFromWork(xl, workID, userID); err != nil && !isNotFound(err) {
				return errors.Wrapf(err, "work %s", workID)
			}
		}
	}
	return nil
}

func (c *Coordinator) dropFromWork(xl *xlog.Logger, workID, userID string) error {
	unlock := c.locks.Lock(workKey(workID))
	defer unlock()
	work, err := c.store.SelectWork(xl, workID)
	if err != nil {
		return err
	}
	var changed bool
	if work.Group && !utils.ContainsString(work.Submitted, userID) {
		work.Author, changed = utils.RemoveString(work.Author, userID)
	}
	for _, kind := range []model.ReactKind{model.ReactLove, model.ReactHaha, model.ReactWow} {
		set := work.Reactions(kind)
		var removed bool
		if *set, removed = utils.RemoveString(*set, userID); removed {
			changed = true
		}
	}
	if !changed {
		return nil
	}
	work.UpdatedTime = time.Now()
	if err = c.store.UpdateWork(xl, work); err != nil {
		return err
	}
	if work.Group && work.Complete() {
		xl.Infof("group work %s complete after user %s left", work.ID, userID)
	}
	return nil
}

// UserImage 头像或封面。
type UserImage int

const (
	UserImageAvatar UserImage = iota
	UserImageCoverPhoto
)

// SetUserImage 更新头像（宽 250）或封面（宽 1000）。
func (c *Coordinator) SetUserImage(xl *xlog.Logger, userID string, which UserImage, data []byte) (*model.UserDo, error) {
	xl = c.logger(xl)
	width := AvatarWidth
	if which == UserImageCoverPhoto {
		width = CoverPhotoWidth
	}
	ref, err := c.storeImage(xl, data, width)
	if err != nil {
		return nil, err
	}
	unlock := c.locks.Lock(userKey(userID))
	defer unlock()
	user, err := c.store.SelectUser(xl, userID)
	if err != nil {
		return nil, err
	}
	if which == UserImageCoverPhoto {
		user.CoverPhoto = ref
	} else {
		user.Avatar = ref
	}
	user.UpdatedTime = time.Now()
	if err = c.store.UpdateUser(xl, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetQuestionImage 更新题目图片。
func (c *Coordinator) SetQuestionImage(xl *xlog.Logger, quizType model.QuizType, quizID, questionID string, data []byte) (*model.QuestionDo, error) {
	return c.UpdateQuestion(xl, quizType, quizID, questionID, nil, data)
}
