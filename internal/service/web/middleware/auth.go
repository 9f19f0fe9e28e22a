package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/xlog"

	"github.com/vantoan19/CodeToGive-backend/internal/protodef/model"
)

// Identifier 根据登录token识别用户。
type Identifier interface {
	Identify(xl *xlog.Logger, token string) (*model.UserDo, error)
}

// Authenticate 校验请求者的身份，成功后把用户与token写入context。
func Authenticate(identifier Identifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		xl := c.MustGet(model.XLogKey).(*xlog.Logger)
		FetchTokenFromHeader(xl, identifier, c)
	}
}

// FetchTokenFromHeader 根据 Authorization: Bearer <token> 校验。
func FetchTokenFromHeader(xl *xlog.Logger, identifier Identifier, c *gin.Context) {
	requestID := xl.ReqId
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		xl.Debugf("%s %s: request unauthorized, wrong auth header format", c.Request.Method, c.Request.URL.Path)
		abort(c, model.NewResponseErrorNotLoggedIn(), requestID)
		return
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	user, err := identifier.Identify(xl, token)
	if err != nil {
		xl.Debugf("%s %s: request unauthorized, error %v", c.Request.Method, c.Request.URL.Path, err)
		abort(c, model.NewResponseErrorBadToken(), requestID)
		return
	}
	c.Set(model.UserContextKey, user)
	c.Set(model.UserIDContextKey, user.ID)
	c.Set(model.TokenContextKey, token)
}

// RequireAdmin 只允许管理员账号继续，需要在 Authenticate 之后使用。
func RequireAdmin(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	user, ok := CurrentUser(c)
	if !ok || !user.IsAdmin() {
		xl.Infof("%s %s: admin required", c.Request.Method, c.Request.URL.Path)
		abort(c, model.NewResponseErrorForbidden(), xl.ReqId)
		return
	}
}

// CurrentUser 返回 Authenticate 写入的用户。
func CurrentUser(c *gin.Context) (*model.UserDo, bool) {
	val, ok := c.Get(model.UserContextKey)
	if !ok {
		return nil, false
	}
	user, ok := val.(*model.UserDo)
	return user, ok && user != nil
}

func abort(c *gin.Context, responseErr *model.ResponseError, requestID string) {
	resp := model.NewFailResponse(*responseErr).WithRequestID(requestID)
	c.AbortWithStatusJSON(responseErr.HTTPStatus(), resp)
}
