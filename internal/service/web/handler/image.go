package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/xlog"

	"github.com/vantoan19/CodeToGive-backend/internal/protodef/model"
	"github.com/vantoan19/CodeToGive-backend/internal/service/cloud"
	"github.com/vantoan19/CodeToGive-backend/internal/service/quiz"
)

// AssetReader 读取存在数据库中的图片。
type AssetReader interface {
	GetAsset(xl *xlog.Logger, ref string) (*model.AssetDo, error)
}

// ImageApiHandler 图片下载，不需要登录。对象存储中的图片重定向到下载URL。
type ImageApiHandler struct {
	Store  quiz.Store
	Quiz   *quiz.Coordinator
	Assets AssetReader
}

func (h *ImageApiHandler) UserAvatar(c *gin.Context) {
	h.userImage(c, func(u *model.UserDo) string { return u.Avatar })
}

func (h *ImageApiHandler) UserCoverPhoto(c *gin.Context) {
	h.userImage(c, func(u *model.UserDo) string { return u.CoverPhoto })
}

func (h *ImageApiHandler) userImage(c *gin.Context, ref func(*model.UserDo) string) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	user, err := h.Store.SelectUserByAccount(xl, c.Param("account"))
	if err != nil {
		writeError(c, xl, err)
		return
	}
	h.serve(c, xl, ref(user))
}

func (h *ImageApiHandler) QuizImage(c *gin.Context) {
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
	h.serve(c, xl, found.BigQuestionImage)
}

func (h *ImageApiHandler) QuestionImage(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	question, err := h.Store.SelectQuestion(xl, c.Param("questionId"))
	if err != nil {
		writeError(c, xl, err)
		return
	}
	h.serve(c, xl, question.QuestionImage)
}

func (h *ImageApiHandler) WorkImage(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	work, err := h.Store.SelectWork(xl, c.Param("workId"))
	if err != nil {
		writeError(c, xl, err)
		return
	}
	h.serve(c, xl, work.StudentWork)
}

func (h *ImageApiHandler) serve(c *gin.Context, xl *xlog.Logger, ref string) {
	if ref == "" {
		writeFail(c, xl, model.NewResponseError(model.ResponseErrorNotFound, "no image"))
		return
	}
	if cloud.IsRemoteRef(ref) {
		c.Redirect(http.StatusFound, ref)
		return
	}
	asset, err := h.Assets.GetAsset(xl, ref)
	if err != nil {
		writeError(c, xl, err)
		return
	}
	c.Data(http.StatusOK, asset.ContentType, asset.Data)
}
