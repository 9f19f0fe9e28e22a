package web

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/vantoan19/CodeToGive-backend/internal/common/utils"
	"github.com/vantoan19/CodeToGive-backend/internal/protodef/model"
)

type envelope struct {
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	RequestID string          `json:"requestId"`
}

type testServer struct {
	t       *testing.T
	backend *Backend
	router  *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	gin.SetMode(gin.TestMode)
	conf := utils.NewSample()
	conf.Store = utils.StoreTypeMemory
	conf.Domain = "http://quiz.test/"
	conf.JwtKey = "test-key"
	b, err := NewBackend(conf)
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	return &testServer{t: t, backend: b, router: NewRouter(b)}
}

func (s *testServer) send(req *http.Request, token string) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			s.t.Fatalf("%s %s: bad body %q", req.Method, req.URL.Path, w.Body.String())
		}
	}
	return w, env
}

func (s *testServer) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.send(req, token)
}

func (s *testServer) expect(method, path, token string, body interface{}, wantStatus int) envelope {
	s.t.Helper()
	w, env := s.do(method, path, token, body)
	if w.Code != wantStatus {
		s.t.Fatalf("%s %s = %d %s, want %d", method, path, w.Code, w.Body.String(), wantStatus)
	}
	return env
}

func (s *testServer) register(account string) string {
	s.t.Helper()
	env := s.expect("POST", "/api/users", "", map[string]interface{}{
		"account": account, "password": "secret1", "firstName": "F", "lastName": account,
	}, http.StatusCreated)
	var resp model.LoginResponse
	if err := json.Unmarshal(env.Data, &resp); err != nil || resp.Token == "" {
		s.t.Fatalf("register %s: %s", account, env.Data)
	}
	return resp.Token
}

func (s *testServer) admin() string {
	s.t.Helper()
	_, token, err := s.backend.Auth.Register(nil, &model.UserDo{
		Account:     "teacher1",
		AccountType: model.AccountTypeAdmin,
	}, "secret1")
	if err != nil {
		s.t.Fatal(err)
	}
	return token
}

func TestAccountLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.register("student01")

	env := s.expect("GET", "/api/me", token, nil, http.StatusOK)
	var me model.UserInfoResponse
	if err := json.Unmarshal(env.Data, &me); err != nil || me.Account != "student01" {
		t.Fatalf("GET /api/me = %s", env.Data)
	}
	if env.RequestID == "" {
		t.Errorf("response without request id")
	}

	s.expect("PATCH", "/api/me", token, map[string]interface{}{"firstName": "Ann", "badges": []string{"b1"}}, http.StatusOK)
	env = s.expect("GET", "/api/users/student01", "", nil, http.StatusOK)
	if err := json.Unmarshal(env.Data, &me); err != nil || me.FirstName != "Ann" || len(me.Badges) != 1 {
		t.Errorf("profile after PATCH = %s", env.Data)
	}

	env = s.expect("PATCH", "/api/me", token, map[string]interface{}{"stars": 100}, http.StatusBadRequest)
	if env.Code != model.ResponseErrorImmutableField {
		t.Errorf("PATCH stars code = %d", env.Code)
	}

	env = s.expect("POST", "/api/login", "", map[string]string{"account": "student01", "password": "wrong1"}, http.StatusUnauthorized)
	if env.Code != model.ResponseErrorWrongPassword {
		t.Errorf("wrong password code = %d", env.Code)
	}
	second := s.expect("POST", "/api/login", "", map[string]string{"account": "student01", "password": "secret1"}, http.StatusOK)
	var login model.LoginResponse
	if err := json.Unmarshal(second.Data, &login); err != nil || login.Token == "" {
		t.Fatalf("login = %s", second.Data)
	}

	s.expect("POST", "/api/users", "", map[string]string{"account": "student01", "password": "secret1"}, http.StatusConflict)
	s.expect("POST", "/api/users", "", map[string]string{"account": "teacher2", "password": "secret1", "accountType": "admin"}, http.StatusForbidden)
	s.expect("POST", "/api/users", "", map[string]string{"account": "abc", "password": "secret1"}, http.StatusBadRequest)

	s.expect("POST", "/api/me/logout", token, nil, http.StatusOK)
	s.expect("GET", "/api/me", token, nil, http.StatusUnauthorized)
	s.expect("GET", "/api/me", login.Token, nil, http.StatusOK)
	s.expect("POST", "/api/me/logout-all", login.Token, nil, http.StatusOK)
	s.expect("GET", "/api/me", login.Token, nil, http.StatusUnauthorized)
}

func TestAuthAndRouting(t *testing.T) {
	s := newTestServer(t)
	student := s.register("student01")
	cases := []struct {
		name, method, path, token string
		want                      int
	}{
		{"no token", "GET", "/api/me", "", http.StatusUnauthorized},
		{"bad token", "GET", "/api/me", "nope", http.StatusUnauthorized},
		{"not admin", "POST", "/api/classes", student, http.StatusForbidden},
		{"unknown route", "GET", "/api/nowhere", student, http.StatusNotFound},
		{"unknown quiz type", "GET", "/api/quizzes/exam/q1", student, http.StatusNotFound},
		{"unknown status", "GET", "/api/me/quizzes/quiz/someday", student, http.StatusNotFound},
		{"missing class", "GET", "/api/classes/c404", student, http.StatusNotFound},
		{"missing user", "GET", "/api/users/nobody", "", http.StatusNotFound},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w, _ := s.do(c.method, c.path, c.token, nil)
			if w.Code != c.want {
				t.Errorf("%s %s = %d, want %d", c.method, c.path, w.Code, c.want)
			}
		})
	}
}

func TestQuizFlow(t *testing.T) {
	s := newTestServer(t)
	admin := s.admin()
	student := s.register("student01")

	s.expect("POST", "/api/classes", admin, map[string]string{"classId": "c1", "className": "Class 1"}, http.StatusCreated)
	s.expect("POST", "/api/classes", admin, map[string]string{"classId": "c1", "className": "again"}, http.StatusConflict)
	env := s.expect("POST", "/api/classes/c1/students/student01", admin, nil, http.StatusOK)
	var class model.ClassResponse
	if err := json.Unmarshal(env.Data, &class); err != nil || len(class.Students) != 1 {
		t.Fatalf("add student = %s", env.Data)
	}
	s.expect("PATCH", "/api/classes/c1", admin, map[string]string{"classId": "c2"}, http.StatusBadRequest)
	s.expect("PATCH", "/api/classes/c1", admin, map[string]string{"className": "Renamed"}, http.StatusOK)

	s.expect("POST", "/api/quizzes/quiz", admin, map[string]interface{}{
		"quizId": "q1", "quizName": "Colors", "numberOfAttempt": 1, "classes": []string{"c404"},
	}, http.StatusNotFound)
	s.expect("POST", "/api/quizzes/quiz", admin, map[string]interface{}{
		"quizId": "q1", "quizName": "Colors", "numberOfAttempt": 1, "classes": []string{"c1"},
	}, http.StatusCreated)
	s.expect("POST", "/api/quizzes/quiz/q1/questions", admin, map[string]interface{}{
		"questionType": "MultipleChoiceQuestion", "question": "2+2", "answer": "4", "options": []string{"3", "4"},
	}, http.StatusCreated)
	s.expect("PATCH", "/api/quizzes/quiz/q1", admin, map[string]string{"quizId": "q2"}, http.StatusBadRequest)

	var views []model.QuizView
	env = s.expect("GET", "/api/me/quizzes/quiz/need-to-do", student, nil, http.StatusOK)
	if err := json.Unmarshal(env.Data, &views); err != nil || len(views) != 1 || len(views[0].QuestionList) != 1 {
		t.Fatalf("need-to-do = %s", env.Data)
	}

	env = s.expect("POST", "/api/quizzes/quiz/q1/submit", student, map[string]interface{}{"answer": []string{"4"}, "score": 40}, http.StatusCreated)
	var view model.QuizView
	if err := json.Unmarshal(env.Data, &view); err != nil || !view.IsTaken || view.MyWork == nil || view.MyWork.TryCount != 1 {
		t.Fatalf("submit = %s", env.Data)
	}
	env = s.expect("POST", "/api/quizzes/quiz/q1/submit", student, map[string]interface{}{"score": 80}, http.StatusBadRequest)
	if env.Code != model.ResponseErrorAttemptLimitExceeded {
		t.Errorf("second submit code = %d", env.Code)
	}

	env = s.expect("GET", "/api/me/quizzes/quiz/finished", student, nil, http.StatusOK)
	if err := json.Unmarshal(env.Data, &views); err != nil || len(views) != 1 {
		t.Fatalf("finished = %s", env.Data)
	}
	env = s.expect("GET", "/api/me", student, nil, http.StatusOK)
	var me model.UserInfoResponse
	if err := json.Unmarshal(env.Data, &me); err != nil || me.Stars != 2 {
		t.Errorf("stars after score 40 = %s", env.Data)
	}

	s.expect("DELETE", "/api/quizzes/quiz/q1", admin, nil, http.StatusOK)
	s.expect("GET", "/api/quizzes/quiz/q1", student, nil, http.StatusNotFound)
	s.expect("DELETE", "/api/classes/c1", admin, nil, http.StatusOK)
	s.expect("GET", "/api/classes/c1", student, nil, http.StatusNotFound)
}

func TestAvatarUpload(t *testing.T) {
	s := newTestServer(t)
	token := s.register("student01")

	img := image.NewNRGBA(image.Rect(0, 0, 500, 100))
	for x := 0; x < 500; x++ {
		img.Set(x, 50, color.NRGBA{R: 255, A: 255})
	}
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		t.Fatal(err)
	}
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("avatar", "me.png")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = fw.Write(pngBuf.Bytes())
	_ = mw.Close()

	s.expect("GET", "/api/users/student01/avatar", "", nil, http.StatusNotFound)

	req := httptest.NewRequest("POST", "/api/me/avatar", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w, env := s.send(req, token)
	if w.Code != http.StatusOK {
		t.Fatalf("upload = %d %s", w.Code, w.Body.String())
	}
	var me model.UserInfoResponse
	if err := json.Unmarshal(env.Data, &me); err != nil || me.Avatar != "http://quiz.test/api/users/student01/avatar" {
		t.Errorf("avatar url = %s", env.Data)
	}

	w, _ = s.do("GET", "/api/users/student01/avatar", "", nil)
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("avatar = %d %s", w.Code, w.Header().Get("Content-Type"))
	}
	got, err := png.Decode(w.Body)
	if err != nil {
		t.Fatal(err)
	}
	if b := got.Bounds(); b.Dx() != 250 || b.Dy() != 50 {
		t.Errorf("avatar size = %dx%d, want 250x50", b.Dx(), b.Dy())
	}
}
