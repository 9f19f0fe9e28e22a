package quiz

import (
	"math/rand"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/qiniu/x/xlog"

	"github.com/vantoan19/CodeToGive-backend/internal/common/utils"
	serrors "github.com/vantoan19/CodeToGive-backend/internal/protodef/errors"
	"github.com/vantoan19/CodeToGive-backend/internal/protodef/model"
)

// Submission 一次作答。Image 仅 Scribbly 使用。
type Submission struct {
	Answer    []string
	Score     float64
	Duration  int
	TakenDate *time.Time
	Image     []byte
}

type QuizUpdater interface {
	ApplyTo(q *model.QuizDo)
}

type QuestionUpdater interface {
	ApplyTo(q *model.QuestionDo)
}

type ClassUpdater interface {
	ApplyTo(c *model.ClassDo)
}

type UserUpdater interface {
	ApplyTo(u *model.UserDo)
}

// Coordinator 测验的创建、提交、删除与点赞，以及班级、用户的级联操作。
type Coordinator struct {
	store     Store
	relations *Relations
	images    ImageProcessor
	assets    AssetStore
	locks     *lockSet
	rndMu     sync.Mutex
	rnd       *rand.Rand
	xl        *xlog.Logger
}

func NewCoordinator(store Store, relations *Relations, images ImageProcessor, assets AssetStore, xl *xlog.Logger) *Coordinator {
	if xl == nil {
		xl = xlog.New("quiz-coordinator")
	}
	return &Coordinator{
		store:     store,
		relations: relations,
		images:    images,
		assets:    assets,
		locks:     relations.locks,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
		xl:        xl,
	}
}

// WithRand 指定分组使用的随机源。
func (c *Coordinator) WithRand(rnd *rand.Rand) *Coordinator {
	c.rndMu.Lock()
	c.rnd = rnd
	c.rndMu.Unlock()
	return c
}

func (c *Coordinator) logger(xl *xlog.Logger) *xlog.Logger {
	if xl == nil {
		return c.xl
	}
	return xl
}

// GetQuiz 按类型与 quizId 查找测验，类型不符视为不存在。
func (c *Coordinator) GetQuiz(xl *xlog.Logger, quizType model.QuizType, quizID string) (*model.QuizDo, error) {
	xl = c.logger(xl)
	quiz, err := c.store.SelectQuizByQuizID(xl, quizID)
	if err != nil {
		return nil, err
	}
	if quiz.QuizType != quizType {
		return nil, serrors.NotFound("%s %s not found", quizType, quizID)
	}
	return quiz, nil
}

// CreateQuiz 保存测验并加入 classIDs 指定的班级（classId）。
// 任一班级不存在时撤销已完成的关联并删除测验，返回 ClassNotFound。
// 小组 Scribbly 在每个班级内随机分组，每组创建一份空作品，每个学生只属于一个小组。
func (c *Coordinator) CreateQuiz(xl *xlog.Logger, quiz *model.QuizDo, classIDs []string) (*model.QuizDo, error) {
	xl = c.logger(xl)
	if !quiz.QuizType.Valid() {
		return nil, serrors.InvalidArgument("unknown quiz type %q", quiz.QuizType)
	}
	if quiz.QuizType == model.QuizTypeScribbly {
		if quiz.ScribblyType == "" {
			quiz.ScribblyType = model.ScribblyTypeIndividual
		}
		if !quiz.ScribblyType.Valid() {
			return nil, serrors.InvalidArgument("unknown scribbly type %q", quiz.ScribblyType)
		}
	}
	if quiz.GroupSize < 0 {
		return nil, serrors.InvalidArgument("group size must not be negative")
	}
	if len(classIDs) == 0 {
		return nil, serrors.InvalidArgument("quiz must belong to at least one class")
	}
	now := time.Now()
	if quiz.CreatedDate.IsZero() {
		quiz.CreatedDate = now
	}
	quiz.Classes = []string{}
	quiz.StudentWorks = []string{}
	if err := c.store.InsertQuiz(xl, quiz); err != nil {
		return nil, err
	}

	classes := make([]*model.ClassDo, 0, len(classIDs))
	for _, classID := range dedupeSorted(classIDs) {
		class, err := c.store.SelectClassByClassID(xl, classID)
		if err == nil {
			err = c.relations.LinkQuizToClass(xl, quiz.ID, class.ID)
		} else if isNotFound(err) {
			err = serrors.New(serrors.ServerErrorClassNotFound, "class %s not found", classID)
		}
		if err != nil {
			c.rollbackQuiz(xl, quiz.ID)
			return nil, err
		}
		classes = append(classes, class)
	}

	if quiz.IsGroup() {
		// 同时属于多个目标班级的学生只分入第一个班级的小组。
		grouped := make(map[string]bool)
		for _, class := range classes {
			if err := c.createGroups(xl, quiz, class, grouped); err != nil {
				c.rollbackQuiz(xl, quiz.ID)
				return nil, err
			}
		}
	}
	return c.store.SelectQuiz(xl, quiz.ID)
}

func (c *Coordinator) rollbackQuiz(xl *xlog.Logger, id string) {
	quiz, err := c.store.SelectQuiz(xl, id)
	if err != nil {
		xl.Errorf("rollback: failed to load quiz %s, error %v", id, err)
		return
	}
	if err = c.deleteQuiz(xl, quiz); err != nil {
		xl.Errorf("rollback: failed to delete quiz %s, error %v", id, err)
	}
}

func (c *Coordinator) createGroups(xl *xlog.Logger, quiz *model.QuizDo, class *model.ClassDo, grouped map[string]bool) error {
	roster := make([]string, 0, len(class.StudentList))
	for _, userID := range class.StudentList {
		if !grouped[userID] {
			grouped[userID] = true
			roster = append(roster, userID)
		}
	}
	if len(roster) == 0 {
		xl.Infof("class %s has no ungrouped students, no groups for quiz %s", class.ClassID, quiz.QuizID)
		return nil
	}
	size := quiz.GroupSize
	if size == 0 {
		size = len(roster)
	}
	c.rndMu.Lock()
	groups, err := Partition(roster, size, c.rnd)
	c.rndMu.Unlock()
	if err != nil {
		return err
	}
	for _, group := range groups {
		work := &model.StudentWorkDo{
			QuizID:    quiz.ID,
			QuizType:  quiz.QuizType,
			Group:     true,
			Author:    group,
			Answer:    []string{},
			Submitted: []string{},
			LoveReact: []string{},
			HahaReact: []string{},
			WowReact:  []string{},
		}
		if err = c.store.InsertWork(xl, work); err != nil {
			return errors.Wrapf(err, "create group work for class %s", class.ClassID)
		}
		if err = c.relations.AttachStudentWork(xl, work.ID, quiz.ID); err != nil {
			return err
		}
	}
	xl.Infof("quiz %s: %d groups created in class %s", quiz.QuizID, len(groups), class.ClassID)
	return nil
}

// Submit 用户提交作品。
// 非小组测验受 numberOfAttempt 限制（0 表示不限）；小组 Scribbly 更新所在小组的画布，
// 每个组员只计数一次，小组已完成时返回 AlreadyComplete。
func (c *Coordinator) Submit(xl *xlog.Logger, quizType model.QuizType, quizID, userID string, sub *Submission) (*model.StudentWorkDo, error) {
	xl = c.logger(xl)
	quiz, err := c.GetQuiz(xl, quizType, quizID)
	if err != nil {
		return nil, err
	}
	if quiz.QuizType == model.QuizTypeScribbly && len(sub.Image) == 0 {
		return nil, serrors.InvalidArgument("scribbly submission needs an image")
	}
	unlock := c.locks.Lock(submitKey(quiz.ID))
	defer unlock()

	var work *model.StudentWorkDo
	if quiz.IsGroup() {
		work, err = c.submitGroup(xl, quiz, userID, sub)
	} else {
		work, err = c.submitIndividual(xl, quiz, userID, sub)
	}
	if err != nil {
		return nil, err
	}

	recorded, err := c.relations.RecordQuizTaken(xl, userID, quiz, work.Score)
	if err != nil {
		return nil, err
	}
	if recorded && quiz.QuizType == model.QuizTypeQuiz {
		if err = c.relations.AwardStars(xl, userID, work.Score/20); err != nil {
			xl.Errorf("failed to award stars to %s, error %v", userID, err)
		}
	}
	return work, nil
}

func (c *Coordinator) submitIndividual(xl *xlog.Logger, quiz *model.QuizDo, userID string, sub *Submission) (*model.StudentWorkDo, error) {
	works, err := c.store.ListWorksByIDs(xl, quiz.StudentWorks)
	if err != nil {
		return nil, err
	}
	attempts := 0
	for _, w := range works {
		if w.HasAuthor(userID) {
			attempts++
		}
	}
	if quiz.NumberOfAttempt > 0 && attempts+1 > quiz.NumberOfAttempt {
		return nil, serrors.New(serrors.ServerErrorAttemptLimitExceeded,
			"quiz %s allows %d attempts", quiz.QuizID, quiz.NumberOfAttempt)
	}

	work := &model.StudentWorkDo{
		QuizID:    quiz.ID,
		QuizType:  quiz.QuizType,
		Author:    []string{userID},
		Answer:    sub.Answer,
		Score:     sub.Score,
		TakenDate: takenDate(sub),
		Duration:  sub.Duration,
		TryCount:  attempts + 1,
		LoveReact: []string{},
		HahaReact: []string{},
		WowReact:  []string{},
	}
	if work.Answer == nil {
		work.Answer = []string{}
	}
	if quiz.QuizType == model.QuizTypeScribbly {
		if work.StudentWork, err = c.storeImage(xl, sub.Image, ImageWidth); err != nil {
			return nil, err
		}
	}
	if err = c.store.InsertWork(xl, work); err != nil {
		return nil, err
	}
	if err = c.relations.AttachStudentWork(xl, work.ID, quiz.ID); err != nil {
		return nil, err
	}
	return work, nil
}

func (c *Coordinator) submitGroup(xl *xlog.Logger, quiz *model.QuizDo, userID string, sub *Submission) (*model.StudentWorkDo, error) {
	works, err := c.store.ListWorksByIDs(xl, quiz.StudentWorks)
	if err != nil {
		return nil, err
	}
	workID := ""
	for _, w := range works {
		if w.HasAuthor(userID) {
			workID = w.ID
			break
		}
	}
	if workID == "" {
		return nil, serrors.NotFound("user %s has no group in quiz %s", userID, quiz.QuizID)
	}

	unlock := c.locks.Lock(workKey(workID))
	defer unlock()
	work, err := c.store.SelectWork(xl, workID)
	if err != nil {
		return nil, err
	}
	if work.Complete() {
		return nil, serrors.New(serrors.ServerErrorAlreadyComplete, "group work %s is already complete", work.ID)
	}
	if work.StudentWork, err = c.storeImage(xl, sub.Image, ImageWidth); err != nil {
		return nil, err
	}
	var added bool
	work.Submitted, added = utils.AddString(work.Submitted, userID)
	if added {
		work.CurTaskDesc = len(work.Submitted)
	}
	work.TakenDate = takenDate(sub)
	work.Duration += sub.Duration
	if err = c.store.UpdateWork(xl, work); err != nil {
		return nil, err
	}
	if work.Complete() {
		xl.Infof("group work %s of quiz %s complete", work.ID, quiz.QuizID)
	}
	return work, nil
}

func takenDate(sub *Submission) *time.Time {
	if sub.TakenDate != nil {
		return sub.TakenDate
	}
	now := time.Now()
	return &now
}

func (c *Coordinator) storeImage(xl *xlog.Logger, data []byte, width int) (string, error) {
	if len(data) == 0 {
		return "", serrors.InvalidArgument("empty image")
	}
	png, err := c.images.Normalize(data, width)
	if err != nil {
		return "", serrors.InvalidArgument("unsupported image: %v", err)
	}
	ref, err := c.assets.PutAsset(xl, "image/png", png)
	if err != nil {
		return "", errors.Wrap(err, "store image")
	}
	return ref, nil
}

// DeleteQuiz 删除测验及其题目、作品，并从所有班级移除。
// 尽力执行每一步，失败汇总为 CascadeError。
func (c *Coordinator) DeleteQuiz(xl *xlog.Logger, quizType model.QuizType, quizID string) error {
	xl = c.logger(xl)
	quiz, err := c.GetQuiz(xl, quizType, quizID)
	if err != nil {
		return err
	}
	return c.deleteQuiz(xl, quiz)
}

func (c *Coordinator) deleteQuiz(xl *xlog.Logger, quiz *model.QuizDo) error {
	cascade := &serrors.CascadeError{Subject: "quiz " + quiz.QuizID}
	for _, classID := range quiz.Classes {
		if err := c.relations.UnlinkQuizFromClass(xl, quiz.ID, classID); err != nil && !isNotFound(err) {
			cascade.Add(err)
		}
	}
	for _, ref := range quiz.Questions {
		if err := c.store.DeleteQuestion(xl, ref.QuestionID); err != nil && !isNotFound(err) {
			cascade.Add(errors.Wrapf(err, "delete question %s", ref.QuestionID))
		}
	}
	for _, workID := range quiz.StudentWorks {
		if err := c.store.DeleteWork(xl, workID); err != nil && !isNotFound(err) {
			cascade.Add(errors.Wrapf(err, "delete work %s", workID))
		}
	}
	if err := c.store.DeleteQuiz(xl, quiz.ID); err != nil && !isNotFound(err) {
		cascade.Add(errors.Wrapf(err, "delete quiz %s", quiz.ID))
	}
	if err := cascade.ErrOrNil(); err != nil {
		xl.Errorf("%v", err)
		return err
	}
	xl.Infof("quiz %s deleted", quiz.QuizID)
	return nil
}

// React 切换用户对 Scribbly 作品的某种表情。
func (c *Coordinator) React(xl *xlog.Logger, workID string, kind model.ReactKind, userID string) (*model.StudentWorkDo, error) {
	xl = c.logger(xl)
	if !kind.Valid() {
		return nil, serrors.InvalidArgument("unknown react type %q", kind)
	}
	unlock := c.locks.Lock(workKey(workID))
	defer unlock()

	work, err := c.store.SelectWork(xl, workID)
	if err != nil {
		return nil, err
	}
	if work.QuizType != model.QuizTypeScribbly {
		return nil, serrors.InvalidArgument("only scribbly works take reactions")
	}
	set := work.Reactions(kind)
	var removed bool
	if *set, removed = utils.RemoveString(*set, userID); !removed {
		*set = append(*set, userID)
	}
	work.UpdatedTime = time.Now()
	if err = c.store.UpdateWork(xl, work); err != nil {
		return nil, err
	}
	return work, nil
}

// UpdateQuiz 修改测验基本信息，quizId 与类型不可修改。
func (c *Coordinator) UpdateQuiz(xl *xlog.Logger, quizType model.QuizType, quizID string, upd QuizUpdater) (*model.QuizDo, error) {
	xl = c.logger(xl)
	quiz, err := c.GetQuiz(xl, quizType, quizID)
	if err != nil {
		return nil, err
	}
	unlock := c.locks.Lock(quizKey(quiz.ID))
	defer unlock()
	if quiz, err = c.store.SelectQuiz(xl, quiz.ID); err != nil {
		return nil, err
	}
	upd.ApplyTo(quiz)
	quiz.QuizID = quizID
	quiz.QuizType = quizType
	quiz.UpdatedTime = time.Now()
	if err = c.store.UpdateQuiz(xl, quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

// SetQuizImage 设置 PicQuiz 的大题图片。
func (c *Coordinator) SetQuizImage(xl *xlog.Logger, quizType model.QuizType, quizID string, data []byte) (*model.QuizDo, error) {
	xl = c.logger(xl)
	if quizType != model.QuizTypePicQuiz {
		return nil, serrors.InvalidArgument("only pic quizzes have an image")
	}
	quiz, err := c.GetQuiz(xl, quizType, quizID)
	if err != nil {
		return nil, err
	}
	ref, err := c.storeImage(xl, data, ImageWidth)
	if err != nil {
		return nil, err
	}
	unlock := c.locks.Lock(quizKey(quiz.ID))
	defer unlock()
	if quiz, err = c.store.SelectQuiz(xl, quiz.ID); err != nil {
		return nil, err
	}
	quiz.BigQuestionImage = ref
	quiz.UpdatedTime = time.Now()
	if err = c.store.UpdateQuiz(xl, quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

// AddQuestion 为 Quiz/PicQuiz 新增题目。测验在此期间被删除时题目也随之删除。
func (c *Coordinator) AddQuestion(xl *xlog.Logger, quizType model.QuizType, quizID string, question *model.QuestionDo, image []byte) (*model.QuestionDo, error) {
	xl = c.logger(xl)
	if !quizType.HasQuestions() {
		return nil, serrors.InvalidArgument("%s has no questions", quizType)
	}
	if !question.QuestionType.Valid() {
		return nil, serrors.InvalidArgument("unknown question type %q", question.QuestionType)
	}
	quiz, err := c.GetQuiz(xl, quizType, quizID)
	if err != nil {
		return nil, err
	}
	if len(image) > 0 {
		if question.QuestionImage, err = c.storeImage(xl, image, ImageWidth); err != nil {
			return nil, err
		}
	}
	if err = c.store.InsertQuestion(xl, question); err != nil {
		return nil, err
	}

	unlock := c.locks.Lock(quizKey(quiz.ID))
	defer unlock()
	quiz, err = c.store.SelectQuiz(xl, quiz.ID)
	if err == nil {
		quiz.Questions = append(quiz.Questions, model.QuestionRefDo{QuestionID: question.ID, QuestionType: question.QuestionType})
		quiz.UpdatedTime = time.Now()
		err = c.store.UpdateQuiz(xl, quiz)
	}
	if err != nil {
		if delErr := c.store.DeleteQuestion(xl, question.ID); delErr != nil {
			xl.Errorf("failed to drop orphan question %s, error %v", question.ID, delErr)
		}
		return nil, err
	}
	return question, nil
}

// UpdateQuestion 修改题目，题目必须属于该测验。image 非空时替换题目图片。
func (c *Coordinator) UpdateQuestion(xl *xlog.Logger, quizType model.QuizType, quizID, questionID string, upd QuestionUpdater, image []byte) (*model.QuestionDo, error) {
	xl = c.logger(xl)
	quiz, err := c.GetQuiz(xl, quizType, quizID)
	if err != nil {
		return nil, err
	}
	if !quiz.HasQuestion(questionID) {
		return nil, serrors.NotFound("question %s not in quiz %s", questionID, quizID)
	}
	question, err := c.store.SelectQuestion(xl, questionID)
	if err != nil {
		return nil, err
	}
	if upd != nil {
		upd.ApplyTo(question)
	}
	if len(image) > 0 {
		if question.QuestionImage, err = c.storeImage(xl, image, ImageWidth); err != nil {
			return nil, err
		}
	}
	question.UpdatedTime = time.Now()
	if err = c.store.UpdateQuestion(xl, question); err != nil {
		return nil, err
	}
	return question, nil
}
