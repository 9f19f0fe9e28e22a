package model

import (
	"reflect"
	"testing"
)

func TestFlattenMap(t *testing.T) {
	m := FlattenMap{"firstName": "a", "password": "x", "stars": 3}
	if got := m.Disallowed("firstName", "lastName"); !reflect.DeepEqual(got, []string{"password", "stars"}) {
		t.Errorf("Disallowed = %v", got)
	}
	if got := m.Filter("firstName", "missing"); len(got) != 1 || got["firstName"] != "a" {
		t.Errorf("Filter = %v", got)
	}
	m.Exclude("password")
	if _, ok := m["password"]; ok {
		t.Errorf("Exclude kept password")
	}
}

func TestWorkStatus(t *testing.T) {
	cases := []struct {
		name string
		work StudentWorkDo
		want WorkStatus
	}{
		{"individual", StudentWorkDo{Author: []string{"u1"}}, WorkStatusComplete},
		{"group untouched", StudentWorkDo{Group: true, Author: []string{"u1", "u2"}}, WorkStatusFree},
		{"group partial", StudentWorkDo{Group: true, Author: []string{"u1", "u2"}, CurTaskDesc: 1}, WorkStatusInProgress},
		{"group done", StudentWorkDo{Group: true, Author: []string{"u1", "u2"}, CurTaskDesc: 2}, WorkStatusComplete},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.work.Status(); got != c.want {
				t.Errorf("Status() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestQuizTypeSlug(t *testing.T) {
	for _, qt := range []QuizType{QuizTypeQuiz, QuizTypePicQuiz, QuizTypeScribbly} {
		got, ok := ParseQuizTypeSlug(qt.Slug())
		if !ok || got != qt {
			t.Errorf("ParseQuizTypeSlug(%q) = %v, %v", qt.Slug(), got, ok)
		}
	}
	if _, ok := ParseQuizTypeSlug("exam"); ok {
		t.Errorf("unknown slug accepted")
	}
}

func TestURLs(t *testing.T) {
	urls := URLs{Domain: "http://host/"}
	if got := urls.React(ReactWow, "w1"); got != "http://host/api/works/w1/react/wowReact" {
		t.Errorf("React = %s", got)
	}
	if got := urls.QuizImage(QuizTypePicQuiz, "q1"); got != "http://host/api/quizzes/pic-quiz/q1/image" {
		t.Errorf("QuizImage = %s", got)
	}
}
