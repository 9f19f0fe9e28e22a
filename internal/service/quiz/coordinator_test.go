package quiz

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/qiniu/x/xlog"

	serrors "github.com/vantoan19/CodeToGive-backend/internal/protodef/errors"
	"github.com/vantoan19/CodeToGive-backend/internal/protodef/model"
	"github.com/vantoan19/CodeToGive-backend/internal/service/inmem"
)

func TestSubmitAttemptLimit(t *testing.T) {
	f := newFixture()
	u := f.user(t, "student01")
	f.class(t, "class-a", u)
	q := f.quiz(t, &model.QuizDo{QuizID: "q1", NumberOfAttempt: 2}, "class-a")

	for want := 1; want <= 2; want++ {
		w, err := f.coord.Submit(nil, model.QuizTypeQuiz, "q1", u.ID, &Submission{Answer: []string{"a"}, Score: 40})
		if err != nil {
			t.Fatalf("attempt %d: %v", want, err)
		}
		if w.TryCount != want {
			t.Errorf("attempt %d: TryCount = %d", want, w.TryCount)
		}
	}
	_, err := f.coord.Submit(nil, model.QuizTypeQuiz, "q1", u.ID, &Submission{Score: 100})
	if !errors.Is(err, serrors.ErrAttemptLimitExceeded) {
		t.Fatalf("third attempt error = %v, want AttemptLimitExceeded", err)
	}
	if got := len(f.reloadQuiz(t, q.ID).StudentWorks); got != 2 {
		t.Errorf("quiz has %d works, want 2", got)
	}
	user := f.reloadUser(t, u.ID)
	if len(user.TakenQuizzes) != 1 {
		t.Errorf("TakenQuizzes = %+v", user.TakenQuizzes)
	}
	// stars only for the first recorded completion
	if user.Stars != 2 {
		t.Errorf("Stars = %v, want 2", user.Stars)
	}
}

func TestSubmitUnlimitedAttempts(t *testing.T) {
	f := newFixture()
	u := f.user(t, "student01")
	f.class(t, "class-a", u)
	f.quiz(t, &model.QuizDo{QuizID: "q1", QuizType: model.QuizTypePicQuiz}, "class-a")
	for i := 0; i < 5; i++ {
		if _, err := f.coord.Submit(nil, model.QuizTypePicQuiz, "q1", u.ID, &Submission{}); err != nil {
			t.Fatalf("attempt %d: %v", i+1, err)
		}
	}
	if got := f.reloadUser(t, u.ID).Stars; got != 0 {
		t.Errorf("PicQuiz awarded %v stars", got)
	}
}

func TestSubmitWrongTypeOrMissingImage(t *testing.T) {
	f := newFixture()
	u := f.user(t, "student01")
	f.class(t, "class-a", u)
	f.quiz(t, &model.QuizDo{QuizID: "draw", QuizType: model.QuizTypeScribbly}, "class-a")

	if _, err := f.coord.Submit(nil, model.QuizTypeQuiz, "draw", u.ID, &Submission{}); !errors.Is(err, serrors.ErrNotFound) {
		t.Errorf("wrong type error = %v, want NotFound", err)
	}
	if _, err := f.coord.Submit(nil, model.QuizTypeScribbly, "draw", u.ID, &Submission{}); !errors.Is(err, serrors.ErrInvalidArgument) {
		t.Errorf("missing image error = %v, want InvalidArgument", err)
	}
	if _, err := f.coord.Submit(nil, model.QuizTypeScribbly, "draw", u.ID, &Submission{Image: []byte("broken")}); !errors.Is(err, serrors.ErrInvalidArgument) {
		t.Errorf("undecodable image error = %v, want InvalidArgument", err)
	}
}

func TestCreateQuizUnknownClassRollsBack(t *testing.T) {
	f := newFixture()
	a := f.class(t, "class-a")
	_, err := f.coord.CreateQuiz(nil, &model.QuizDo{QuizID: "q1", QuizType: model.QuizTypeQuiz}, []string{"class-a", "missing"})
	if !errors.Is(err, serrors.ErrClassNotFound) {
		t.Fatalf("CreateQuiz error = %v, want ClassNotFound", err)
	}
	if _, err = f.store.SelectQuizByQuizID(nil, "q1"); !errors.Is(err, serrors.ErrNotFound) {
		t.Errorf("quiz survived rollback: %v", err)
	}
	if got := f.reloadClass(t, a.ID).QuizList; len(got) != 0 {
		t.Errorf("class-a still lists %v", got)
	}
}

func TestCreateQuizValidation(t *testing.T) {
	f := newFixture()
	f.class(t, "class-a")
	cases := []struct {
		name    string
		quiz    *model.QuizDo
		classes []string
	}{
		{"unknown type", &model.QuizDo{QuizID: "a", QuizType: "Essay"}, []string{"class-a"}},
		{"unknown scribbly type", &model.QuizDo{QuizID: "b", QuizType: model.QuizTypeScribbly, ScribblyType: "pair"}, []string{"class-a"}},
		{"negative group size", &model.QuizDo{QuizID: "c", QuizType: model.QuizTypeScribbly, ScribblyType: model.ScribblyTypeGroup, GroupSize: -1}, []string{"class-a"}},
		{"no classes", &model.QuizDo{QuizID: "d", QuizType: model.QuizTypeQuiz}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.coord.CreateQuiz(nil, tc.quiz, tc.classes); !errors.Is(err, serrors.ErrInvalidArgument) {
				t.Errorf("error = %v, want InvalidArgument", err)
			}
		})
	}
}

func TestCreateGroupQuizPartitionsEachClass(t *testing.T) {
	f := newFixture()
	students := f.users(t, 10)
	f.class(t, "class-a", students[:7]...)
	f.class(t, "class-b", students[7:]...)
	q := f.quiz(t, &model.QuizDo{
		QuizID:       "draw",
		QuizType:     model.QuizTypeScribbly,
		ScribblyType: model.ScribblyTypeGroup,
		GroupSize:    3,
	}, "class-a", "class-b")

	works, err := f.store.ListWorksByIDs(nil, q.StudentWorks)
	if err != nil {
		t.Fatal(err)
	}
	// class-a: 7 students in groups of 3 → 3,2,2; class-b: 3 students → 3
	if len(works) != 4 {
		t.Fatalf("got %d group works, want 4", len(works))
	}
	seen := make(map[string]bool)
	for _, w := range works {
		if !w.Group || w.CurTaskDesc != 0 || w.Score != 0 || w.Status() != model.WorkStatusFree {
			t.Errorf("placeholder work = %+v", w)
		}
		for _, a := range w.Author {
			if seen[a] {
				t.Errorf("%s in two groups", a)
			}
			seen[a] = true
		}
	}
	if len(seen) != 10 {
		t.Errorf("%d students grouped, want 10", len(seen))
	}
}

func TestCreateGroupQuizDefaultsToWholeClass(t *testing.T) {
	f := newFixture()
	f.class(t, "class-a", f.users(t, 5)...)
	q := f.quiz(t, &model.QuizDo{QuizID: "draw", QuizType: model.QuizTypeScribbly, ScribblyType: model.ScribblyTypeGroup}, "class-a")
	works, _ := f.store.ListWorksByIDs(nil, q.StudentWorks)
	if len(works) != 1 || len(works[0].Author) != 5 {
		t.Errorf("works = %+v, want one group of 5", works)
	}
}

func TestCreateGroupQuizOverlappingClasses(t *testing.T) {
	f := newFixture()
	u := f.users(t, 3)
	f.class(t, "class-a", u[0], u[1])
	f.class(t, "class-b", u[0], u[2])
	q := f.quiz(t, &model.QuizDo{QuizID: "draw", QuizType: model.QuizTypeScribbly, ScribblyType: model.ScribblyTypeGroup, GroupSize: 2}, "class-a", "class-b")

	works, err := f.store.ListWorksByIDs(nil, q.StudentWorks)
	if err != nil {
		t.Fatal(err)
	}
	groups := make(map[string]int)
	for _, w := range works {
		for _, a := range w.Author {
			groups[a]++
		}
	}
	for _, s := range u {
		if groups[s.ID] != 1 {
			t.Errorf("%s is in %d groups, want 1", s.Account, groups[s.ID])
		}
	}

	for _, s := range u {
		if _, err = f.coord.Submit(nil, model.QuizTypeScribbly, "draw", s.ID, &Submission{Image: []byte("v")}); err != nil {
			t.Fatalf("submit %s: %v", s.Account, err)
		}
	}
	for _, s := range u {
		res, err := f.classifier.Classify(nil, s.ID, model.QuizTypeScribbly)
		if err != nil {
			t.Fatal(err)
		}
		if got := quizIDs(res.Finished); !sameStrings(got, []string{"draw"}) {
			t.Errorf("%s finished = %v, want [draw]", s.Account, got)
		}
	}
}

func TestGroupSubmitCountsEachMemberOnce(t *testing.T) {
	f := newFixture()
	members := f.users(t, 2)
	f.class(t, "class-a", members...)
	f.quiz(t, &model.QuizDo{QuizID: "draw", QuizType: model.QuizTypeScribbly, ScribblyType: model.ScribblyTypeGroup, GroupSize: 2}, "class-a")

	for i := 0; i < 2; i++ {
		w, err := f.coord.Submit(nil, model.QuizTypeScribbly, "draw", members[0].ID, &Submission{Image: []byte("v")})
		if err != nil {
			t.Fatal(err)
		}
		if w.CurTaskDesc != 1 {
			t.Errorf("resubmission %d: CurTaskDesc = %d, want 1", i, w.CurTaskDesc)
		}
	}
	w, err := f.coord.Submit(nil, model.QuizTypeScribbly, "draw", members[1].ID, &Submission{Image: []byte("v")})
	if err != nil {
		t.Fatal(err)
	}
	if !w.Complete() || w.Status() != model.WorkStatusComplete {
		t.Errorf("work after both members = %+v", w)
	}
	_, err = f.coord.Submit(nil, model.QuizTypeScribbly, "draw", members[0].ID, &Submission{Image: []byte("v")})
	if !errors.Is(err, serrors.ErrAlreadyComplete) {
		t.Errorf("submit to complete group error = %v, want AlreadyComplete", err)
	}
}

func TestGroupSubmitOutsider(t *testing.T) {
	f := newFixture()
	members := f.users(t, 2)
	outsider := f.user(t, "outsider")
	f.class(t, "class-a", members...)
	f.quiz(t, &model.QuizDo{QuizID: "draw", QuizType: model.QuizTypeScribbly, ScribblyType: model.ScribblyTypeGroup}, "class-a")
	_, err := f.coord.Submit(nil, model.QuizTypeScribbly, "draw", outsider.ID, &Submission{Image: []byte("v")})
	if !errors.Is(err, serrors.ErrNotFound) {
		t.Errorf("outsider submit error = %v, want NotFound", err)
	}
}

func TestReactToggle(t *testing.T) {
	f := newFixture()
	u1, u2 := f.user(t, "student01"), f.user(t, "student02")
	f.class(t, "class-a", u1, u2)
	f.quiz(t, &model.QuizDo{QuizID: "draw", QuizType: model.QuizTypeScribbly}, "class-a")
	f.quiz(t, &model.QuizDo{QuizID: "q1"}, "class-a")
	w, err := f.coord.Submit(nil, model.QuizTypeScribbly, "draw", u1.ID, &Submission{Image: []byte("a")})
	if err != nil {
		t.Fatal(err)
	}

	got, err := f.coord.React(nil, w.ID, model.ReactWow, u2.ID)
	if err != nil || !sameStrings(got.WowReact, []string{u2.ID}) {
		t.Fatalf("first React = %v, %v", got, err)
	}
	got, err = f.coord.React(nil, w.ID, model.ReactWow, u2.ID)
	if err != nil || len(got.WowReact) != 0 {
		t.Fatalf("second React = %v, %v", got, err)
	}

	if _, err = f.coord.React(nil, w.ID, "angryReact", u2.ID); !errors.Is(err, serrors.ErrInvalidArgument) {
		t.Errorf("unknown kind error = %v", err)
	}
	if _, err = f.coord.React(nil, "missing", model.ReactLove, u2.ID); !errors.Is(err, serrors.ErrNotFound) {
		t.Errorf("missing work error = %v", err)
	}
	qw, err := f.coord.Submit(nil, model.QuizTypeQuiz, "q1", u1.ID, &Submission{Score: 20})
	if err != nil {
		t.Fatal(err)
	}
	if _, err = f.coord.React(nil, qw.ID, model.ReactLove, u2.ID); !errors.Is(err, serrors.ErrInvalidArgument) {
		t.Errorf("react to quiz work error = %v", err)
	}
}

func TestDeleteQuizCascade(t *testing.T) {
	f := newFixture()
	u := f.user(t, "student01")
	a := f.class(t, "class-a", u)
	b := f.class(t, "class-b")
	f.quiz(t, &model.QuizDo{QuizID: "q1"}, "class-a", "class-b")
	question, err := f.coord.AddQuestion(nil, model.QuizTypeQuiz, "q1", &model.QuestionDo{QuestionType: model.QuestionTypeFillInBlank, Question: "?", Answer: "!"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	w, err := f.coord.Submit(nil, model.QuizTypeQuiz, "q1", u.ID, &Submission{})
	if err != nil {
		t.Fatal(err)
	}

	if err = f.coord.DeleteQuiz(nil, model.QuizTypeQuiz, "q1"); err != nil {
		t.Fatalf("DeleteQuiz error %v", err)
	}
	for _, c := range []*model.ClassDo{a, b} {
		if got := f.reloadClass(t, c.ID).QuizList; len(got) != 0 {
			t.Errorf("%s still lists %v", c.ClassID, got)
		}
	}
	if _, err = f.store.SelectQuestion(nil, question.ID); !errors.Is(err, serrors.ErrNotFound) {
		t.Errorf("question survived: %v", err)
	}
	if _, err = f.store.SelectWork(nil, w.ID); !errors.Is(err, serrors.ErrNotFound) {
		t.Errorf("work survived: %v", err)
	}
	if err = f.coord.DeleteQuiz(nil, model.QuizTypeQuiz, "q1"); !errors.Is(err, serrors.ErrNotFound) {
		t.Errorf("second DeleteQuiz error = %v", err)
	}
}

// failingStore fails UpdateClass for one class and DeleteQuestion for every question.
type failingStore struct {
	*inmem.Store
	badClass string
}

func (s *failingStore) UpdateClass(xl *xlog.Logger, class *model.ClassDo) error {
	if class.ID == s.badClass {
		return errors.New("class write refused")
	}
	return s.Store.UpdateClass(xl, class)
}

func (s *failingStore) DeleteQuestion(xl *xlog.Logger, id string) error {
	return errors.New("question delete refused")
}

func TestDeleteQuizPartialCascade(t *testing.T) {
	base := inmem.NewStore()
	fs := &failingStore{Store: base}
	f := newFixtureWithStore(fs, base)
	a := f.class(t, "class-a")
	b := f.class(t, "class-b")
	q := f.quiz(t, &model.QuizDo{QuizID: "q1"}, "class-a", "class-b")
	if _, err := f.coord.AddQuestion(nil, model.QuizTypeQuiz, "q1", &model.QuestionDo{QuestionType: model.QuestionTypeFillInBlank}, nil); err != nil {
		t.Fatal(err)
	}
	fs.badClass = a.ID

	err := f.coord.DeleteQuiz(nil, model.QuizTypeQuiz, "q1")
	if !errors.Is(err, serrors.ErrPartialCascade) {
		t.Fatalf("DeleteQuiz error = %v, want PartialCascade", err)
	}
	var cascade *serrors.CascadeError
	if !errors.As(err, &cascade) || len(cascade.Failures) != 2 {
		t.Fatalf("cascade = %+v", cascade)
	}
	if !strings.Contains(err.Error(), "class write refused") || !strings.Contains(err.Error(), "question delete refused") {
		t.Errorf("error text %q misses a failure", err.Error())
	}
	// the other detachments still ran
	if got := f.reloadClass(t, b.ID).QuizList; len(got) != 0 {
		t.Errorf("class-b still lists %v", got)
	}
	if _, err = base.SelectQuiz(nil, q.ID); !errors.Is(err, serrors.ErrNotFound) {
		t.Errorf("quiz survived: %v", err)
	}
}

func TestAddAndUpdateQuestion(t *testing.T) {
	f := newFixture()
	f.class(t, "class-a")
	f.quiz(t, &model.QuizDo{QuizID: "q1"}, "class-a")
	f.quiz(t, &model.QuizDo{QuizID: "draw", QuizType: model.QuizTypeScribbly}, "class-a")

	if _, err := f.coord.AddQuestion(nil, model.QuizTypeScribbly, "draw", &model.QuestionDo{QuestionType: model.QuestionTypeFillInBlank}, nil); !errors.Is(err, serrors.ErrInvalidArgument) {
		t.Errorf("scribbly question error = %v", err)
	}
	q, err := f.coord.AddQuestion(nil, model.QuizTypeQuiz, "q1", &model.QuestionDo{
		QuestionType: model.QuestionTypeMultipleChoice,
		Question:     "pick",
		Options:      []string{"a", "b"},
		Answer:       "a",
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	quiz, _ := f.store.SelectQuizByQuizID(nil, "q1")
	if len(quiz.Questions) != 1 || quiz.Questions[0].QuestionID != q.ID {
		t.Errorf("quiz.Questions = %+v", quiz.Questions)
	}

	updated, err := f.coord.SetQuestionImage(nil, model.QuizTypeQuiz, "q1", q.ID, []byte("pic"))
	if err != nil {
		t.Fatal(err)
	}
	asset, err := f.store.GetAsset(nil, updated.QuestionImage)
	if err != nil || string(asset.Data) != "png1000:pic" {
		t.Errorf("question image asset = %v, %v", asset, err)
	}
	if _, err = f.coord.UpdateQuestion(nil, model.QuizTypeQuiz, "q1", "other", nil, []byte("pic")); !errors.Is(err, serrors.ErrNotFound) {
		t.Errorf("foreign question error = %v", err)
	}
}

type renameQuiz struct{ name string }

func (r renameQuiz) ApplyTo(q *model.QuizDo) {
	q.QuizName = r.name
	q.QuizID = "hijacked"
}

func TestUpdateQuizKeepsQuizID(t *testing.T) {
	f := newFixture()
	f.class(t, "class-a")
	f.quiz(t, &model.QuizDo{QuizID: "q1"}, "class-a")
	got, err := f.coord.UpdateQuiz(nil, model.QuizTypeQuiz, "q1", renameQuiz{"Fractions"})
	if err != nil {
		t.Fatal(err)
	}
	if got.QuizName != "Fractions" || got.QuizID != "q1" {
		t.Errorf("UpdateQuiz = %s/%s", got.QuizID, got.QuizName)
	}
}

func TestSetQuizImageOnlyPicQuiz(t *testing.T) {
	f := newFixture()
	f.class(t, "class-a")
	f.quiz(t, &model.QuizDo{QuizID: "q1"}, "class-a")
	f.quiz(t, &model.QuizDo{QuizID: "pic", QuizType: model.QuizTypePicQuiz}, "class-a")
	if _, err := f.coord.SetQuizImage(nil, model.QuizTypeQuiz, "q1", []byte("x")); !errors.Is(err, serrors.ErrInvalidArgument) {
		t.Errorf("Quiz image error = %v", err)
	}
	got, err := f.coord.SetQuizImage(nil, model.QuizTypePicQuiz, "pic", []byte("x"))
	if err != nil || got.BigQuestionImage == "" {
		t.Errorf("SetQuizImage = %+v, %v", got, err)
	}
}
