package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/xlog"

	"github.com/vantoan19/CodeToGive-backend/internal/protodef/form"
	"github.com/vantoan19/CodeToGive-backend/internal/protodef/model"
	"github.com/vantoan19/CodeToGive-backend/internal/service/quiz"
)

type ClassApiHandler struct {
	Quiz *quiz.Coordinator
	URLs model.URLs
}

func (h *ClassApiHandler) CreateClass(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	args := form.ClassCreateForm{}
	if responseErr := bindBody(c, &args); responseErr != nil {
		writeFail(c, xl, responseErr)
		return
	}
	class, err := h.Quiz.CreateClass(xl, args.ToClassDo())
	if err != nil {
		writeError(c, xl, err)
		return
	}
	h.writeClass(c, xl, http.StatusCreated, class)
}

// GetClass 班级信息与学生列表。
func (h *ClassApiHandler) GetClass(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	class, err := h.Quiz.GetClass(xl, c.Param("classId"))
	if err != nil {
		writeError(c, xl, err)
		return
	}
	h.writeClass(c, xl, http.StatusOK, class)
}

func (h *ClassApiHandler) writeClass(c *gin.Context, xl *xlog.Logger, status int, class *model.ClassDo) {
	students, err := h.Quiz.ClassStudents(xl, class)
	if err != nil {
		writeError(c, xl, err)
		return
	}
	resp := model.ClassResponse{ClassDo: *class, Students: make([]model.UserInfoResponse, 0, len(students))}
	for i := range students {
		resp.Students = append(resp.Students, model.NewUserInfoResponse(&students[i], h.URLs))
	}
	writeOK(c, xl, status, resp)
}

func (h *ClassApiHandler) ClassQuizzes(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	quizzes, err := h.Quiz.ClassQuizzes(xl, c.Param("classId"))
	if err != nil {
		writeError(c, xl, err)
		return
	}
	writeOK(c, xl, http.StatusOK, quizzes)
}

// UpdateClass classId 不可修改。
func (h *ClassApiHandler) UpdateClass(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	args := form.ClassUpdateForm{}
	if responseErr := bindPatch(c, &args, form.ClassAllowedFields); responseErr != nil {
		writeFail(c, xl, responseErr)
		return
	}
	class, err := h.Quiz.UpdateClass(xl, c.Param("classId"), &args)
	if err != nil {
		writeError(c, xl, err)
		return
	}
	h.writeClass(c, xl, http.StatusOK, class)
}

// DeleteClass 部分级联失败时返回 207，班级与剩余引用需要人工处理。
func (h *ClassApiHandler) DeleteClass(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	if err := h.Quiz.DeleteClass(xl, c.Param("classId")); err != nil {
		writeError(c, xl, err)
		return
	}
	writeOK(c, xl, http.StatusOK, nil)
}

func (h *ClassApiHandler) AddStudent(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	class, err := h.Quiz.AddStudent(xl, c.Param("classId"), c.Param("account"))
	if err != nil {
		writeError(c, xl, err)
		return
	}
	h.writeClass(c, xl, http.StatusOK, class)
}

func (h *ClassApiHandler) RemoveStudent(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	class, err := h.Quiz.RemoveStudent(xl, c.Param("classId"), c.Param("account"))
	if err != nil {
		writeError(c, xl, err)
		return
	}
	h.writeClass(c, xl, http.StatusOK, class)
}
