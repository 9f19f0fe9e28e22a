package middleware

import (
	"reflect"
	"testing"
)

func TestParsePath(t *testing.T) {
	cases := []struct {
		path string
		want []string
	}{
		{"/api/login", []string{"login"}},
		{"/api/quizzes/:quizType/:quizId/submit", []string{"quizzes", "submit"}},
		{"/api/classes/:classId/students/:account", []string{"classes", "students"}},
		{"/api/me/", []string{"me"}},
		{"/", nil},
		{"", nil},
	}
	for _, c := range cases {
		t.Run(c.path, func(t *testing.T) {
			if got := parsePath(c.path); !reflect.DeepEqual(got, c.want) {
				t.Errorf("parsePath(%q) = %v, want %v", c.path, got, c.want)
			}
		})
	}
}

func TestParseMethodAndSubject(t *testing.T) {
	cases := []struct {
		in, method, subject string
	}{
		{"GET me quizzes", "GET", "me quizzes"},
		{"classes", "ALL", "classes"},
		{"  PATCH me ", "PATCH", "me"},
		{"GETTER", "ALL", "GETTER"},
		{"", "", ""},
	}
	for _, c := range cases {
		method, subject := parseMethodAndSubject(c.in)
		if method != c.method || subject != c.subject {
			t.Errorf("parseMethodAndSubject(%q) = %q %q, want %q %q", c.in, method, subject, c.method, c.subject)
		}
	}
}

func TestMatchRoute(t *testing.T) {
	am := NewActionManager(nil)
	cases := []struct {
		method, path string
		wantMsg      string
		wantOK       bool
	}{
		{"POST", "/api/login", "登录", true},
		{"DELETE", "/api/classes/:classId", "删除班级", true},
		{"POST", "/api/classes/:classId/students/:account", "创建班级学生", true},
		{"PATCH", "/api/me", "修改个人信息", true},
		{"GET", "/api/nowhere", "default", false},
	}
	for _, c := range cases {
		action, ok := am.MatchRoute(c.method, c.path)
		if ok != c.wantOK || action.msg != c.wantMsg || action.method != c.method {
			t.Errorf("MatchRoute(%s %s) = %+v %v, want msg %q ok %v", c.method, c.path, action, ok, c.wantMsg, c.wantOK)
		}
	}
	// 返回副本，不修改共享的动作。
	a, _ := am.MatchRoute("GET", "/api/classes/:classId")
	b, _ := am.MatchRoute("PATCH", "/api/classes/:classId")
	if a.msg != "获取班级" || b.msg != "修改班级" {
		t.Errorf("shared action mutated: %q %q", a.msg, b.msg)
	}
}
