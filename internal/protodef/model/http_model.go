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

package model

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

/*
	http_model.go: 规定API的参数与返回值的定义，***Response表示 *** 接口的返回体格式。
*/

const (
	// RequestIDHeader 七牛 request ID 头部。
	RequestIDHeader = "X-Reqid"
	// XLogKey gin context中，用于获取记录请求相关日志的 xlog logger的key。
	XLogKey = "xlog-logger"

	// UserIDContextKey 存放在请求context 中的用户ID。
	UserIDContextKey = "userID"
	// UserContextKey 存放用户对象
	UserContextKey = "user"
	// TokenContextKey 本次请求使用的登录token。
	TokenContextKey = "token"

	//ActionLogContentKey 用于存放log
	ActionLogContentKey = "action-log"

	// RequestStartKey 存放在gin context中的请求开始的时间戳，单位为纳秒。
	RequestStartKey = "request-start-timestamp-nano"

	// 状态码和状态信息
	ResponseStatusCodeSuccess    ResponseStatusCode    = 0
	ResponseStatusMessageSuccess ResponseStatusMessage = "success"
)

type ResponseStatusCode int
type ResponseStatusMessage string

type Response struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	RequestID string      `json:"requestId"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Code:    int(ResponseStatusCodeSuccess),
		Message: string(ResponseStatusMessageSuccess),
		Data:    data,
	}
}

func NewFailResponse(err ResponseError) *Response {
	return &Response{
		Code:    int(err.Code),
		Message: string(err.Message),
	}
}

func (r *Response) WithRequestID(requestID string) *Response {
	r.RequestID = requestID
	return r
}

func (r *Response) WithErrorMessage(message string) *Response {
	r.Message = string(message)
	return r
}

func (r *Response) Send(c *gin.Context) {
	c.JSON(http.StatusOK, r)
}

// UserInfoResponse 用户的公开信息。
type UserInfoResponse struct {
	ID                 string      `json:"id"`
	Account            string      `json:"account"`
	AccountType        AccountType `json:"accountType"`
	Email              string      `json:"email,omitempty"`
	FirstName          string      `json:"firstName"`
	LastName           string      `json:"lastName"`
	DateOfBirth        *time.Time  `json:"dateOfBirth,omitempty"`
	PhoneNumber        string      `json:"phoneNumber,omitempty"`
	Address            string      `json:"address,omitempty"`
	ProfileDescription string      `json:"profileDescription"`
	Avatar             string      `json:"avatar,omitempty"`
	CoverPhoto         string      `json:"coverPhoto,omitempty"`
	Stars              float64     `json:"stars"`
	GoldenCrown        int         `json:"goldenCrown"`
	SilverCrown        int         `json:"silverCrown"`
	BronzeCrown        int         `json:"bronzeCrown"`
	Badges             []string    `json:"badges"`
	Classes            []string    `json:"classes"`
}

// NewUserInfoResponse 组装用户信息，图片引用替换为URL。
func NewUserInfoResponse(u *UserDo, urls URLs) UserInfoResponse {
	resp := UserInfoResponse{
		ID:                 u.ID,
		Account:            u.Account,
		AccountType:        u.AccountType,
		Email:              u.Email,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		DateOfBirth:        u.DateOfBirth,
		PhoneNumber:        u.PhoneNumber,
		Address:            u.Address,
		ProfileDescription: u.ProfileDescription,
		Stars:              u.Stars,
		GoldenCrown:        u.GoldenCrown,
		SilverCrown:        u.SilverCrown,
		BronzeCrown:        u.BronzeCrown,
		Badges:             u.Badges,
		Classes:            u.Classes,
	}
	if u.Avatar != "" {
		resp.Avatar = urls.Avatar(u.Account)
	}
	if u.CoverPhoto != "" {
		resp.CoverPhoto = urls.CoverPhoto(u.Account)
	}
	return resp
}

// LoginResponse 注册/登录的返回结果。
type LoginResponse struct {
	User    UserInfoResponse `json:"user"`
	Token   string           `json:"token"`
	IMToken string           `json:"imToken,omitempty"`
}

// AuthorView 作品作者。
type AuthorView struct {
	ID        string `json:"id"`
	Account   string `json:"account"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// WorkView 面向某个观看者的作品视图。
type WorkView struct {
	ID           string       `json:"id"`
	Authors      []AuthorView `json:"author"`
	Answer       []string     `json:"answer,omitempty"`
	Score        float64      `json:"score"`
	TryCount     int          `json:"tryCount"`
	TakenDate    *time.Time   `json:"takenDate,omitempty"`
	Status       WorkStatus   `json:"status"`
	CurTaskDesc  int          `json:"curTaskDesc"`
	ImageURL     string       `json:"studentWorkUrl,omitempty"`
	IsLoveVoted  bool         `json:"isLoveVoted"`
	IsHahaVoted  bool         `json:"isHahaVoted"`
	IsWowVoted   bool         `json:"isWowVoted"`
	LoveCount    int          `json:"loveReactCount"`
	HahaCount    int          `json:"hahaReactCount"`
	WowCount     int          `json:"wowReactCount"`
	LoveReactURL string       `json:"loveReactUrl,omitempty"`
	HahaReactURL string       `json:"hahaReactUrl,omitempty"`
	WowReactURL  string       `json:"wowReactUrl,omitempty"`
}

// QuestionView 题目视图。
type QuestionView struct {
	ID                string       `json:"id"`
	QuestionType      QuestionType `json:"questionType"`
	Question          string       `json:"question"`
	Answer            string       `json:"answer,omitempty"`
	QuestionDesc      string       `json:"questionDesc,omitempty"`
	Options           []string     `json:"options,omitempty"`
	QuestionImageURL  string       `json:"questionImageUrl,omitempty"`
	UpdateQuestionURL string       `json:"updateQuestionUrl"`
}

// QuizView 测验视图，按观看者填充完成状态与作品。
type QuizView struct {
	QuizDo
	BigQuestionImageURL string         `json:"bigQuestionImageUrl,omitempty"`
	QuestionList        []QuestionView `json:"questionList,omitempty"`
	IsTaken             bool           `json:"isTaken"`
	MyWork              *WorkView      `json:"myWork,omitempty"`
	ClassmateWork       []WorkView     `json:"classmateWork,omitempty"`
}

// ClassificationResponse 待完成与已完成测验列表。
type ClassificationResponse struct {
	ToDo     []QuizView `json:"toDo"`
	Finished []QuizView `json:"finished"`
}

// ClassResponse 班级详情。
type ClassResponse struct {
	ClassDo
	Students []UserInfoResponse `json:"students"`
}
