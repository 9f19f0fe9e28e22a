package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/qiniu/x/xlog"

	"github.com/vantoan19/CodeToGive-backend/internal/protodef/form"
	"github.com/vantoan19/CodeToGive-backend/internal/protodef/model"
	"github.com/vantoan19/CodeToGive-backend/internal/service/quiz"
)

const (
	StatusNeedToDo = "need-to-do"
	StatusFinished = "finished"
)

type QuizApiHandler struct {
	Quiz       *quiz.Coordinator
	Classifier *quiz.Classifier
	Users      quiz.UserStore
}

// CreateQuiz 创建测验并加入 classes 中的班级，小组 Scribbly 同时完成分组。
func (h *QuizApiHandler) CreateQuiz(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	quizType, ok := quizTypeParam(c, xl)
	if !ok {
		return
	}
	args := form.QuizCreateForm{}
	if responseErr := bindBody(c, &args); responseErr != nil {
		writeFail(c, xl, responseErr)
		return
	}
	created, err := h.Quiz.CreateQuiz(xl, args.ToQuizDo(quizType), args.Classes)
	if err != nil {
		writeError(c, xl, err)
		return
	}
	h.writeView(c, xl, http.StatusCreated, currentUser(c), created)
}

// GetQuiz 当前用户看到的测验，包括完成状态与作品。
func (h *QuizApiHandler) GetQuiz(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	quizType, ok := quizTypeParam(c, xl)
	if !ok {
		return
	}
	found, err := h.Quiz.GetQuiz(xl, quizType, c.Param("quizId"))
	if err != nil {
		writeError(c, xl, err)
		return
	}
	h.writeView(c, xl, http.StatusOK, currentUser(c), found)
}

func (h *QuizApiHandler) writeView(c *gin.Context, xl *xlog.Logger, status int, user *model.UserDo, q *model.QuizDo) {
	view, err := h.Classifier.View(xl, user, q)
	if err != nil {
		writeError(c, xl, err)
		return
	}
	writeOK(c, xl, status, view)
}

// UpdateQuiz quizId 与 quizType 不可修改。
func (h *QuizApiHandler) UpdateQuiz(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	quizType, ok := quizTypeParam(c, xl)
	if !ok {
		return
	}
	args := form.QuizUpdateForm{}
	if responseErr := bindPatch(c, &args, form.QuizAllowedFields); responseErr != nil {
		writeFail(c, xl, responseErr)
		return
	}
	updated, err := h.Quiz.UpdateQuiz(xl, quizType, c.Param("quizId"), &args)
	if err != nil {
		writeError(c, xl, err)
		return
	}
	h.writeView(c, xl, http.StatusOK, currentUser(c), updated)
}

func (h *QuizApiHandler) DeleteQuiz(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	quizType, ok := quizTypeParam(c, xl)
	if !ok {
		return
	}
	if err := h.Quiz.DeleteQuiz(xl, quizType, c.Param("quizId")); err != nil {
		writeError(c, xl, err)
		return
	}
	writeOK(c, xl, http.StatusOK, nil)
}

// UploadQuizImage PicQuiz 的大题图片。
func (h *QuizApiHandler) UploadQuizImage(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	quizType, ok := quizTypeParam(c, xl)
	if !ok {
		return
	}
	data, responseErr := readImage(c, "bigQuestionImage", true)
	if responseErr != nil {
		writeFail(c, xl, responseErr)
		return
	}
	updated, err := h.Quiz.SetQuizImage(xl, quizType, c.Param("quizId"), data)
	if err != nil {
		writeError(c, xl, err)
		return
	}
	h.writeView(c, xl, http.StatusOK, currentUser(c), updated)
}

// AddQuestion 新增题目，可以附带 questionImage。
func (h *QuizApiHandler) AddQuestion(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	quizType, ok := quizTypeParam(c, xl)
	if !ok {
		return
	}
	args := form.QuestionForm{}
	if responseErr := bindBody(c, &args); responseErr != nil {
		writeFail(c, xl, responseErr)
		return
	}
	image, responseErr := readImage(c, "questionImage", false)
	if responseErr != nil {
		writeFail(c, xl, responseErr)
		return
	}
	quizID := c.Param("quizId")
	question, err := h.Quiz.AddQuestion(xl, quizType, quizID, args.ToQuestionDo(), image)
	if err != nil {
		writeError(c, xl, err)
		return
	}
	writeOK(c, xl, http.StatusCreated, h.Classifier.QuestionView(quizType, quizID, question))
}

// UpdateQuestion JSON 只修改字段；multipart 表单还可以替换 questionImage。
func (h *QuizApiHandler) UpdateQuestion(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	quizType, ok := quizTypeParam(c, xl)
	if !ok {
		return
	}
	var (
		args        = form.QuestionUpdateForm{}
		image       []byte
		responseErr *model.ResponseError
	)
	if c.ContentType() == binding.MIMEMultipartPOSTForm {
		if responseErr = bindPatchForm(c, &args, form.QuestionAllowedFields); responseErr == nil {
			image, responseErr = readImage(c, "questionImage", false)
		}
	} else {
		responseErr = bindPatch(c, &args, form.QuestionAllowedFields)
	}
	if responseErr != nil {
		writeFail(c, xl, responseErr)
		return
	}
	quizID := c.Param("quizId")
	question, err := h.Quiz.UpdateQuestion(xl, quizType, quizID, c.Param("questionId"), &args, image)
	if err != nil {
		writeError(c, xl, err)
		return
	}
	writeOK(c, xl, http.StatusOK, h.Classifier.QuestionView(quizType, quizID, question))
}

// Submit 提交作品，Scribbly 需要 studentWork 图片。返回提交后的测验视图。
func (h *QuizApiHandler) Submit(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	quizType, ok := quizTypeParam(c, xl)
	if !ok {
		return
	}
	args := form.SubmitForm{}
	if responseErr := bindBody(c, &args); responseErr != nil {
		writeFail(c, xl, responseErr)
		return
	}
	image, responseErr := readImage(c, "studentWork", quizType == model.QuizTypeScribbly)
	if responseErr != nil {
		writeFail(c, xl, responseErr)
		return
	}
	user := currentUser(c)
	quizID := c.Param("quizId")
	_, err := h.Quiz.Submit(xl, quizType, quizID, user.ID, &quiz.Submission{
		Answer:    args.Answer,
		Score:     args.Score,
		Duration:  args.Duration,
		TakenDate: args.TakenDate,
		Image:     image,
	})
	if err != nil {
		writeError(c, xl, err)
		return
	}
	// 提交后完成记录已变化，重新读取用户与测验。
	if user, err = h.Users.SelectUser(xl, user.ID); err != nil {
		writeError(c, xl, err)
		return
	}
	submitted, err := h.Quiz.GetQuiz(xl, quizType, quizID)
	if err != nil {
		writeError(c, xl, err)
		return
	}
	h.writeView(c, xl, http.StatusCreated, user, submitted)
}

// React 切换当前用户对作品的点赞。
func (h *QuizApiHandler) React(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	user := currentUser(c)
	work, err := h.Quiz.React(xl, c.Param("workId"), model.ReactKind(c.Param("reactType")), user.ID)
	if err != nil {
		writeError(c, xl, err)
		return
	}
	view, err := h.Classifier.WorkView(xl, user.ID, work)
	if err != nil {
		writeError(c, xl, err)
		return
	}
	writeOK(c, xl, http.StatusOK, view)
}

// MyQuizzes 当前用户某类测验中待完成或已完成的列表。
func (h *QuizApiHandler) MyQuizzes(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	quizType, ok := quizTypeParam(c, xl)
	if !ok {
		return
	}
	status := c.Param("status")
	if status != StatusNeedToDo && status != StatusFinished {
		writeFail(c, xl, model.NewResponseError(model.ResponseErrorNotFound, "unknown status "+status))
		return
	}
	classified, err := h.Classifier.Classify(xl, currentUser(c).ID, quizType)
	if err != nil {
		writeError(c, xl, err)
		return
	}
	if status == StatusFinished {
		writeOK(c, xl, http.StatusOK, classified.Finished)
		return
	}
	writeOK(c, xl, http.StatusOK, classified.ToDo)
}
