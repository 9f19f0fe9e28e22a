package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/qiniu/x/xlog"

	serrors "github.com/vantoan19/CodeToGive-backend/internal/protodef/errors"
	"github.com/vantoan19/CodeToGive-backend/internal/protodef/form"
	"github.com/vantoan19/CodeToGive-backend/internal/protodef/model"
	"github.com/vantoan19/CodeToGive-backend/internal/service/auth"
	"github.com/vantoan19/CodeToGive-backend/internal/service/cloud"
	"github.com/vantoan19/CodeToGive-backend/internal/service/quiz"
)

type AccountApiHandler struct {
	Auth  *auth.Service
	Quiz  *quiz.Coordinator
	Users quiz.UserStore
	// IM 为 nil 时登录不返回IM token。
	IM   cloud.IMService
	URLs model.URLs
}

// Register 注册学生账号并登录。管理员账号只能通过 quiz-admin 创建。
func (h *AccountApiHandler) Register(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	args := form.RegisterForm{}
	if responseErr := bindBody(c, &args); responseErr != nil {
		writeFail(c, xl, responseErr)
		return
	}
	if args.AccountType == model.AccountTypeAdmin {
		xl.Infof("Register: refuse to create admin account %s", args.Account)
		writeFail(c, xl, model.NewResponseErrorForbidden())
		return
	}
	user, token, err := h.Auth.Register(xl, args.ToUserDo(), args.Password)
	if err != nil {
		writeError(c, xl, err)
		return
	}
	writeOK(c, xl, http.StatusCreated, h.loginResponse(xl, user, token))
}

func (h *AccountApiHandler) Login(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	args := form.LoginForm{}
	if responseErr := bindBody(c, &args); responseErr != nil {
		writeFail(c, xl, responseErr)
		return
	}
	user, token, err := h.Auth.Login(xl, args.Account, args.Password)
	if err != nil {
		if errors.Is(err, serrors.ErrUnauthenticated) {
			writeFail(c, xl, model.NewResponseErrorWrongPassword())
			return
		}
		writeError(c, xl, err)
		return
	}
	writeOK(c, xl, http.StatusOK, h.loginResponse(xl, user, token))
}

// loginResponse IM token 获取失败不影响登录。
func (h *AccountApiHandler) loginResponse(xl *xlog.Logger, user *model.UserDo, token string) model.LoginResponse {
	resp := model.LoginResponse{
		User:  model.NewUserInfoResponse(user, h.URLs),
		Token: token,
	}
	if h.IM != nil {
		imToken, err := h.IM.GetUserToken(xl, user.ID, user.FirstName+" "+user.LastName)
		if err != nil {
			xl.Errorf("failed to get im token for user %s, error %v", user.Account, err)
		} else {
			resp.IMToken = imToken
		}
	}
	return resp
}

// GetUser 公开的用户信息，不需要登录。
func (h *AccountApiHandler) GetUser(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	user, err := h.Users.SelectUserByAccount(xl, c.Param("account"))
	if err != nil {
		writeError(c, xl, err)
		return
	}
	writeOK(c, xl, http.StatusOK, model.NewUserInfoResponse(user, h.URLs))
}

func (h *AccountApiHandler) GetMe(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	writeOK(c, xl, http.StatusOK, model.NewUserInfoResponse(currentUser(c), h.URLs))
}

// UpdateMe 只允许修改 form.ProfileAllowedFields 中的字段。
func (h *AccountApiHandler) UpdateMe(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	args := form.ProfileUpdateForm{}
	if responseErr := bindPatch(c, &args, form.ProfileAllowedFields); responseErr != nil {
		writeFail(c, xl, responseErr)
		return
	}
	user, err := h.Quiz.UpdateUser(xl, currentUser(c).ID, &args)
	if err != nil {
		writeError(c, xl, err)
		return
	}
	writeOK(c, xl, http.StatusOK, model.NewUserInfoResponse(user, h.URLs))
}

// DeleteMe 注销账号，所有登录token失效。
func (h *AccountApiHandler) DeleteMe(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	user := currentUser(c)
	if err := h.Auth.LogoutAll(xl, user.ID); err != nil {
		writeError(c, xl, err)
		return
	}
	if err := h.Quiz.DeleteUser(xl, user.ID); err != nil {
		writeError(c, xl, err)
		return
	}
	writeOK(c, xl, http.StatusOK, model.NewUserInfoResponse(user, h.URLs))
}

func (h *AccountApiHandler) UploadAvatar(c *gin.Context) {
	h.uploadUserImage(c, "avatar", quiz.UserImageAvatar)
}

func (h *AccountApiHandler) UploadCoverPhoto(c *gin.Context) {
	h.uploadUserImage(c, "coverPhoto", quiz.UserImageCoverPhoto)
}

func (h *AccountApiHandler) uploadUserImage(c *gin.Context, field string, which quiz.UserImage) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	data, responseErr := readImage(c, field, true)
	if responseErr != nil {
		writeFail(c, xl, responseErr)
		return
	}
	user, err := h.Quiz.SetUserImage(xl, currentUser(c).ID, which, data)
	if err != nil {
		writeError(c, xl, err)
		return
	}
	writeOK(c, xl, http.StatusOK, model.NewUserInfoResponse(user, h.URLs))
}

// Logout 退出本次登录使用的token。
func (h *AccountApiHandler) Logout(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	if err := h.Auth.Logout(xl, c.GetString(model.TokenContextKey)); err != nil {
		writeError(c, xl, err)
		return
	}
	writeOK(c, xl, http.StatusOK, nil)
}

func (h *AccountApiHandler) LogoutAll(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	if err := h.Auth.LogoutAll(xl, currentUser(c).ID); err != nil {
		writeError(c, xl, err)
		return
	}
	writeOK(c, xl, http.StatusOK, nil)
}
