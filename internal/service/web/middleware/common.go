package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/xlog"

	"github.com/vantoan19/CodeToGive-backend/internal/protodef/model"
)

// ActionRecorder 保存操作流水，mongo 模式下为 db.ActionService。
type ActionRecorder interface {
	SaveAction(xl *xlog.Logger, record *model.ActionRecordDo)
}

// logRecorder 没有数据库时把流水写到请求日志。
type logRecorder struct{}

func (logRecorder) SaveAction(xl *xlog.Logger, record *model.ActionRecordDo) {
	xl.Infof("action: %s [%s %s] status %d", record.Msg, record.Method, record.Subject, record.Status)
}

// ActionLogMiddleware 记录每个请求的操作流水，recorder 为 nil 时写日志。
func ActionLogMiddleware(recorder ActionRecorder) gin.HandlerFunc {
	if recorder == nil {
		recorder = logRecorder{}
	}
	manager := NewActionManager(nil)
	return func(c *gin.Context) {
		action, _ := manager.MatchRoute(c.Request.Method, c.FullPath())
		c.Set(model.ActionLogContentKey, action)
		c.Next()
		xl := c.MustGet(model.XLogKey).(*xlog.Logger)
		record := action.With(c).genRecord(c.Writer.Status())
		recorder.SaveAction(xl, record)
	}
}

var methodMsg = map[string]string{
	"POST":   "创建",
	"GET":    "获取",
	"DELETE": "删除",
	"PATCH":  "修改",
}

var routeMsg = map[string]string{
	"POST users": "注册",
	"GET users":  "用户信息",
	"POST login": "登录",

	"GET me":              "个人信息",
	"PATCH me":            "修改个人信息",
	"DELETE me":           "注销账号",
	"POST me avatar":      "上传头像",
	"POST me cover-photo": "上传封面",
	"POST me logout":      "退出登录",
	"POST me logout-all":  "退出全部登录",
	"GET me quizzes":      "测验列表",
	"POST quizzes image":  "上传测验图片",
	"POST quizzes submit": "提交作品",
	"POST works react":    "点赞",

	"classes":          "班级",
	"classes quizzes":  "班级测验",
	"classes students": "班级学生",

	"quizzes":           "测验",
	"quizzes questions": "题目",
}

type Action struct {
	method  string
	subject string
	user    string
	msg     string
}

func NewAction(method string, subject string, msg string) *Action {
	return &Action{method: method, subject: subject, msg: msg}
}

type ActionManager struct {
	Actions []*Action
}

func NewActionManager(actions map[string]string) *ActionManager {
	if actions == nil {
		actions = routeMsg
	}
	am := &ActionManager{}
	for k, v := range actions {
		method, subject := parseMethodAndSubject(k)
		am.Actions = append(am.Actions, NewAction(method, subject, v))
	}
	return am
}

// MatchRoute 优先匹配指定方法的动作，其次是 ALL，返回的 Action 为副本。
func (am *ActionManager) MatchRoute(method, path string) (*Action, bool) {
	subject := strings.Join(parsePath(path), " ")
	var matched *Action
	for _, action := range am.Actions {
		if action.subject != subject {
			continue
		}
		if action.method == method {
			matched = action
			break
		}
		if action.method == "ALL" {
			matched = action
		}
	}
	if matched == nil {
		return NewAction(method, subject, "default"), false
	}
	a := *matched
	if a.method == "ALL" {
		a.msg = methodMsg[method] + a.msg
	}
	a.method = method
	return &a, true
}

func (a Action) String() string {
	return fmt.Sprintf("%s %s", a.user, a.msg)
}

// With 补充当前登录用户。
func (a *Action) With(c *gin.Context) *Action {
	user, ok := CurrentUser(c)
	if !ok {
		a.user = "anonymous"
		return a
	}
	a.user = fmt.Sprintf("user %s", user.Account)
	return a
}

func (a *Action) genRecord(status int) *model.ActionRecordDo {
	return &model.ActionRecordDo{
		Msg:     a.String(),
		User:    a.user,
		Time:    time.Now(),
		Method:  a.method,
		Subject: a.subject,
		Status:  status,
	}
}

// /api/quizzes/:quizType/:quizId/submit -> quizzes submit
// parsePath 跳过 /api 前缀与路径参数，可能返回空。
func parsePath(path string) []string {
	fields := strings.Split(path, "/")
	if len(fields) < 3 {
		return nil
	}
	res := make([]string, 0)
	for _, part := range fields[2:] {
		if part != "" && !strings.HasPrefix(part, ":") {
			res = append(res, part)
		}
	}
	return res
}

// GET me -> method="GET" subject="me"
// classes students -> method="ALL" subject="classes students"
func parseMethodAndSubject(val string) (method, subject string) {
	val = strings.TrimSpace(val)
	if val == "" {
		return "", ""
	}
	for _, m := range []string{"GET", "POST", "PATCH", "DELETE"} {
		if strings.HasPrefix(val, m+" ") {
			return m, strings.TrimSpace(val[len(m):])
		}
	}
	return "ALL", val
}
