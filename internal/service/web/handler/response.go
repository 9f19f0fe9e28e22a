package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/pkg/errors"
	"github.com/qiniu/x/xlog"
	"github.com/tidwall/gjson"

	serrors "github.com/vantoan19/CodeToGive-backend/internal/protodef/errors"
	"github.com/vantoan19/CodeToGive-backend/internal/protodef/model"
)

// MaxImageSize 上传图片的大小上限。
const MaxImageSize = 10 << 20

type validatable interface {
	Validate() error
}

func writeOK(c *gin.Context, xl *xlog.Logger, status int, data interface{}) {
	resp := model.NewSuccessResponse(data).WithRequestID(xl.ReqId)
	c.JSON(status, resp)
}

func writeFail(c *gin.Context, xl *xlog.Logger, responseErr *model.ResponseError) {
	resp := model.NewFailResponse(*responseErr).WithRequestID(xl.ReqId)
	c.JSON(responseErr.HTTPStatus(), resp)
}

// writeError 把服务端错误转换为对应的HTTP状态与错误码。
func writeError(c *gin.Context, xl *xlog.Logger, err error) {
	responseErr := responseErrorOf(err)
	if responseErr.HTTPStatus() >= http.StatusInternalServerError {
		xl.Errorf("%s %s failed, error %v", c.Request.Method, c.Request.URL.Path, err)
	} else {
		xl.Infof("%s %s rejected, error %v", c.Request.Method, c.Request.URL.Path, err)
	}
	writeFail(c, xl, responseErr)
}

func responseErrorOf(err error) *model.ResponseError {
	var cascade *serrors.CascadeError
	if errors.As(err, &cascade) {
		return model.NewResponseError(model.ResponseErrorPartialCascade, cascade.Error())
	}
	var serverErr *serrors.ServerError
	if !errors.As(err, &serverErr) {
		return model.NewResponseErrorInternal()
	}
	switch serverErr.Code {
	case serrors.ServerErrorNotFound:
		return model.NewResponseError(model.ResponseErrorNotFound, serverErr.Summary)
	case serrors.ServerErrorClassNotFound:
		return model.NewResponseError(model.ResponseErrorNoSuchClass, serverErr.Summary)
	case serrors.ServerErrorInvalidArgument:
		return model.NewResponseError(model.ResponseErrorBadRequest, serverErr.Summary)
	case serrors.ServerErrorAttemptLimitExceeded:
		return model.NewResponseError(model.ResponseErrorAttemptLimitExceeded, serverErr.Summary)
	case serrors.ServerErrorAlreadyComplete:
		return model.NewResponseError(model.ResponseErrorAlreadyComplete, serverErr.Summary)
	case serrors.ServerErrorUnauthenticated:
		return model.NewResponseError(model.ResponseErrorUnauthorized, serverErr.Summary)
	case serrors.ServerErrorForbidden:
		return model.NewResponseErrorForbidden()
	case serrors.ServerErrorDuplicate:
		return model.NewResponseError(model.ResponseErrorDuplicate, serverErr.Summary)
	}
	return model.NewResponseErrorInternal()
}

// bindBody 解析并校验请求体，multipart 表单与JSON都可以。
func bindBody(c *gin.Context, form validatable) *model.ResponseError {
	if err := c.ShouldBind(form); err != nil {
		return model.NewResponseError(model.ResponseErrorBadRequest, err.Error())
	}
	if err := form.Validate(); err != nil {
		return model.NewResponseErrorValidation(err)
	}
	return nil
}

// bindPatch 请求体只能包含 allowed 中的字段，随后解析并校验。
func bindPatch(c *gin.Context, form validatable, allowed []string) *model.ResponseError {
	body, err := c.GetRawData()
	if err != nil || !gjson.ValidBytes(body) {
		return model.NewResponseErrorBadRequest()
	}
	parsed := gjson.ParseBytes(body)
	if !parsed.IsObject() {
		return model.NewResponseError(model.ResponseErrorBadRequest, "body must be a json object")
	}
	fields := model.FlattenMap{}
	parsed.ForEach(func(key, value gjson.Result) bool {
		fields[key.String()] = value.Value()
		return true
	})
	if len(fields) == 0 {
		return model.NewResponseError(model.ResponseErrorBadRequest, "nothing to update")
	}
	if disallowed := fields.Disallowed(allowed...); len(disallowed) > 0 {
		return model.NewResponseError(model.ResponseErrorImmutableField,
			"fields can not be updated: "+strings.Join(disallowed, ", "))
	}
	if err = binding.JSON.BindBody(body, form); err != nil {
		return model.NewResponseError(model.ResponseErrorBadRequest, err.Error())
	}
	if err = form.Validate(); err != nil {
		return model.NewResponseErrorValidation(err)
	}
	return nil
}

// bindPatchForm multipart 表单版本的 bindPatch，文件字段不参与检查。
func bindPatchForm(c *gin.Context, form validatable, allowed []string) *model.ResponseError {
	multipartForm, err := c.MultipartForm()
	if err != nil {
		return model.NewResponseErrorBadRequest()
	}
	fields := model.FlattenMap{}
	for k, v := range multipartForm.Value {
		fields[k] = v
	}
	if disallowed := fields.Disallowed(allowed...); len(disallowed) > 0 {
		return model.NewResponseError(model.ResponseErrorImmutableField,
			"fields can not be updated: "+strings.Join(disallowed, ", "))
	}
	if err = c.ShouldBind(form); err != nil {
		return model.NewResponseError(model.ResponseErrorBadRequest, err.Error())
	}
	if err = form.Validate(); err != nil {
		return model.NewResponseErrorValidation(err)
	}
	return nil
}

// readImage 读取 multipart 中的图片，required 为 false 时没有文件返回 nil。
func readImage(c *gin.Context, field string, required bool) ([]byte, *model.ResponseError) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		missing := errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart)
		if missing && !required {
			return nil, nil
		}
		return nil, model.NewResponseError(model.ResponseErrorBadRequest, "image file "+field+" is required")
	}
	if fileHeader.Size > MaxImageSize {
		return nil, model.NewResponseError(model.ResponseErrorBadRequest, "image file too large")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, model.NewResponseErrorBadRequest()
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, model.NewResponseErrorBadRequest()
	}
	return data, nil
}

func currentUser(c *gin.Context) *model.UserDo {
	return c.MustGet(model.UserContextKey).(*model.UserDo)
}

// quizTypeParam 路由中的测验类型，未知类型按 404 处理。
func quizTypeParam(c *gin.Context, xl *xlog.Logger) (model.QuizType, bool) {
	quizType, ok := model.ParseQuizTypeSlug(c.Param("quizType"))
	if !ok {
		writeFail(c, xl, model.NewResponseError(model.ResponseErrorNotFound, "unknown quiz type "+c.Param("quizType")))
	}
	return quizType, ok
}
