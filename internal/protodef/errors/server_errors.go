// Copyright 2020 Qiniu Cloud (qiniu.com)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errors

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ServerError 服务端内部错误与非正常返回结果定义
type ServerError struct {
	Code    int    `json:"code"`
	Summary string `json:"summary"`
}

func (e *ServerError) Error() string {
	buf, _ := json.Marshal(e)
	return string(buf)
}

// Is 按错误码比较，便于 errors.Is(err, ErrNotFound) 匹配带具体描述的错误。
func (e *ServerError) Is(target error) bool {
	t, ok := target.(*ServerError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// 各种服务端内部错误的错误码定义。错误码为5位数字。
const (
	// 1开头表示请求或业务规则相关的错误。
	ServerErrorNotFound             = 10001
	ServerErrorInvalidArgument      = 10002
	ServerErrorClassNotFound        = 10003
	ServerErrorAttemptLimitExceeded = 10004
	ServerErrorAlreadyComplete      = 10005
	ServerErrorUnauthenticated      = 10006
	ServerErrorForbidden            = 10007
	ServerErrorDuplicate            = 10008
	// 11开头表示数据库访问相关的错误。
	ServerErrorMongoOpFail       = 11000
	ServerErrorPartialCascade    = 11001
	ServerErrorInconsistentLinks = 11002
)

var (
	ErrNotFound             = &ServerError{Code: ServerErrorNotFound, Summary: "not found"}
	ErrInvalidArgument      = &ServerError{Code: ServerErrorInvalidArgument, Summary: "invalid argument"}
	ErrClassNotFound        = &ServerError{Code: ServerErrorClassNotFound, Summary: "class not found"}
	ErrAttemptLimitExceeded = &ServerError{Code: ServerErrorAttemptLimitExceeded, Summary: "attempt limit exceeded"}
	ErrAlreadyComplete      = &ServerError{Code: ServerErrorAlreadyComplete, Summary: "group work already complete"}
	ErrUnauthenticated      = &ServerError{Code: ServerErrorUnauthenticated, Summary: "unauthenticated"}
	ErrForbidden            = &ServerError{Code: ServerErrorForbidden, Summary: "forbidden"}
	ErrDuplicate            = &ServerError{Code: ServerErrorDuplicate, Summary: "duplicate key"}
	ErrPartialCascade       = &ServerError{Code: ServerErrorPartialCascade, Summary: "partial cascade failure"}
)

// New 返回带具体描述的错误，错误码与 code 相同的哨兵错误匹配。
func New(code int, format string, args ...interface{}) *ServerError {
	return &ServerError{Code: code, Summary: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *ServerError {
	return New(ServerErrorNotFound, format, args...)
}

func InvalidArgument(format string, args ...interface{}) *ServerError {
	return New(ServerErrorInvalidArgument, format, args...)
}

// CascadeError 级联删除中部分步骤失败，Failures 记录每一个失败。
type CascadeError struct {
	Subject  string
	Failures []error
}

func (e *CascadeError) Error() string {
	msgs := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		msgs = append(msgs, f.Error())
	}
	return fmt.Sprintf("cascade delete of %s partially failed: %s", e.Subject, strings.Join(msgs, "; "))
}

func (e *CascadeError) Is(target error) bool {
	t, ok := target.(*ServerError)
	return ok && t.Code == ServerErrorPartialCascade
}

// Add 记录一个失败，err 为 nil 时忽略。
func (e *CascadeError) Add(err error) {
	if err != nil {
		e.Failures = append(e.Failures, err)
	}
}

// ErrOrNil 没有失败时返回 nil。
func (e *CascadeError) ErrOrNil() error {
	if e == nil || len(e.Failures) == 0 {
		return nil
	}
	return e
}
