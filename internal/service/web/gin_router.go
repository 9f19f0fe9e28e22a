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

package web

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/xlog"

	"github.com/vantoan19/CodeToGive-backend/internal/common/utils"
	"github.com/vantoan19/CodeToGive-backend/internal/protodef/model"
	"github.com/vantoan19/CodeToGive-backend/internal/service/web/handler"
	"github.com/vantoan19/CodeToGive-backend/internal/service/web/middleware"
)

// NewRouter 返回gin router，分流API。
func NewRouter(b *Backend) *gin.Engine {
	// 1. 初始化GIN
	router := gin.New()
	router.Use(gin.Recovery())
	// 1.1. 全局CORS配置，允许所有来源。
	router.Use(corsMiddleware())

	// 2. 声明Handler
	urls := model.URLs{Domain: b.Config.Domain}
	accountApiHandler := &handler.AccountApiHandler{
		Auth:  b.Auth,
		Quiz:  b.Coordinator,
		Users: b.Store,
		IM:    b.IM,
		URLs:  urls,
	}
	classApiHandler := &handler.ClassApiHandler{Quiz: b.Coordinator, URLs: urls}
	quizApiHandler := &handler.QuizApiHandler{Quiz: b.Coordinator, Classifier: b.Classifier, Users: b.Store}
	imageApiHandler := &handler.ImageApiHandler{Store: b.Store, Quiz: b.Coordinator, Assets: b.Assets}

	authenticate := middleware.Authenticate(b.Auth)

	// 3. 配置API路径
	api := router.Group("/api", addRequestID, middleware.ActionLogMiddleware(b.Actions))
	{
		// 3.1 注册/登录
		api.POST("users", accountApiHandler.Register)
		api.POST("login", accountApiHandler.Login)
		// 3.2 公开的用户信息与图片
		api.GET("users/:account", accountApiHandler.GetUser)
		api.GET("users/:account/avatar", imageApiHandler.UserAvatar)
		api.GET("users/:account/cover-photo", imageApiHandler.UserCoverPhoto)
		// 3.3 测验、题目、作品图片
		api.GET("quizzes/:quizType/:quizId/image", imageApiHandler.QuizImage)
		api.GET("questions/:questionId/image", imageApiHandler.QuestionImage)
		api.GET("works/:workId/image", imageApiHandler.WorkImage)
	}

	me := api.Group("me", authenticate)
	{
		me.GET("", accountApiHandler.GetMe)
		me.PATCH("", accountApiHandler.UpdateMe)
		me.DELETE("", accountApiHandler.DeleteMe)
		me.POST("avatar", accountApiHandler.UploadAvatar)
		me.POST("cover-photo", accountApiHandler.UploadCoverPhoto)
		me.POST("logout", accountApiHandler.Logout)
		me.POST("logout-all", accountApiHandler.LogoutAll)
		// 待完成/已完成测验
		me.GET("quizzes/:quizType/:status", quizApiHandler.MyQuizzes)
	}

	baseAuth := api.Group("", authenticate)
	{
		baseAuth.GET("classes/:classId", classApiHandler.GetClass)
		baseAuth.GET("classes/:classId/quizzes", classApiHandler.ClassQuizzes)

		baseAuth.GET("quizzes/:quizType/:quizId", quizApiHandler.GetQuiz)
		baseAuth.POST("quizzes/:quizType/:quizId/submit", quizApiHandler.Submit)
		baseAuth.POST("works/:workId/react/:reactType", quizApiHandler.React)
	}

	admin := api.Group("", authenticate, middleware.RequireAdmin)
	{
		// 4.1 班级管理
		admin.POST("classes", classApiHandler.CreateClass)
		admin.PATCH("classes/:classId", classApiHandler.UpdateClass)
		admin.DELETE("classes/:classId", classApiHandler.DeleteClass)
		admin.POST("classes/:classId/students/:account", classApiHandler.AddStudent)
		admin.DELETE("classes/:classId/students/:account", classApiHandler.RemoveStudent)

		// 4.2 测验管理
		admin.POST("quizzes/:quizType", quizApiHandler.CreateQuiz)
		admin.PATCH("quizzes/:quizType/:quizId", quizApiHandler.UpdateQuiz)
		admin.DELETE("quizzes/:quizType/:quizId", quizApiHandler.DeleteQuiz)
		admin.POST("quizzes/:quizType/:quizId/image", quizApiHandler.UploadQuizImage)
		admin.POST("quizzes/:quizType/:quizId/questions", quizApiHandler.AddQuestion)
		admin.PATCH("quizzes/:quizType/:quizId/questions/:questionId", quizApiHandler.UpdateQuestion)
	}

	router.NoRoute(addRequestID, returnNotFound)
	router.RedirectTrailingSlash = false

	return router
}

func addRequestID(c *gin.Context) {
	requestID := ""
	if requestID = c.Request.Header.Get(model.RequestIDHeader); requestID == "" {
		requestID = utils.NewReqID()
		c.Request.Header.Set(model.RequestIDHeader, requestID)
	}
	c.Header(model.RequestIDHeader, requestID)
	xl := xlog.New(requestID)
	xl.Debugf("request: %s %s", c.Request.Method, c.Request.URL.Path)
	c.Set(model.XLogKey, xl)
	c.Set(model.RequestStartKey, time.Now())
}

func returnNotFound(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	xl.Debugf("%s %s: not found", c.Request.Method, c.Request.URL.Path)
	responseErr := model.NewResponseErrorNotFound()
	resp := model.NewFailResponse(*responseErr).WithRequestID(xl.ReqId)
	c.JSON(http.StatusNotFound, resp)
}

func corsMiddleware() gin.HandlerFunc {
	conf := cors.DefaultConfig()
	conf.AllowAllOrigins = true
	conf.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS", "HEAD"}
	conf.AddAllowHeaders("Authorization", "Accept-Encoding", "Cache-Control", "X-Requested-With", model.RequestIDHeader)
	conf.AddExposeHeaders(model.RequestIDHeader)
	return cors.New(conf)
}
