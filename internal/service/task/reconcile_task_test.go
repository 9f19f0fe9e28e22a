package task

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/qiniu/x/xlog"

	"github.com/vantoan19/CodeToGive-backend/internal/protodef/model"
	"github.com/vantoan19/CodeToGive-backend/internal/service/quiz"
)

type stubChecker struct {
	report []quiz.Inconsistency
	err    error
}

func (s stubChecker) CheckReciprocity(xl *xlog.Logger) ([]quiz.Inconsistency, error) {
	return s.report, s.err
}

type memRecorder struct {
	started  int
	finished []*model.TaskResultDo
}

func (m *memRecorder) Start(xl *xlog.Logger, subject, action string) (*model.TaskResultDo, error) {
	m.started++
	return &model.TaskResultDo{Subject: subject, Action: action, Status: model.TaskStatusRunning}, nil
}

func (m *memRecorder) Finish(xl *xlog.Logger, task *model.TaskResultDo, result string, runErr error) error {
	if runErr != nil {
		task.Status = model.TaskStatusFailed
		task.Result = runErr.Error()
	} else {
		task.Status = model.TaskStatusSuccess
		task.Result = result
	}
	m.finished = append(m.finished, task)
	return nil
}

func TestReconcileTaskRecordsResult(t *testing.T) {
	cases := []struct {
		name       string
		checker    stubChecker
		wantStatus model.TaskStatus
		wantResult string
	}{
		{"clean", stubChecker{}, model.TaskStatusSuccess, "0 inconsistent links"},
		{"broken", stubChecker{report: []quiz.Inconsistency{{Kind: "user-class"}, {Kind: "quiz-class"}}}, model.TaskStatusSuccess, "2 inconsistent links"},
		{"store down", stubChecker{err: errors.New("connection refused")}, model.TaskStatusFailed, "connection refused"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := &memRecorder{}
			report, err := NewReconcileTask(c.checker, rec).Run(nil)
			if (err != nil) != (c.checker.err != nil) || len(report) != len(c.checker.report) {
				t.Errorf("Run = %v, %v", report, err)
			}
			if rec.started != 1 || len(rec.finished) != 1 {
				t.Fatalf("recorder started %d finished %d", rec.started, len(rec.finished))
			}
			if got := rec.finished[0]; got.Status != c.wantStatus || got.Result != c.wantResult {
				t.Errorf("record = %s %q, want %s %q", got.Status, got.Result, c.wantStatus, c.wantResult)
			}
		})
	}
}

func TestReconcileTaskWithoutRecorder(t *testing.T) {
	task := NewReconcileTask(stubChecker{report: []quiz.Inconsistency{{Kind: "class-user"}}}, nil)
	report, err := task.Run(nil)
	if err != nil || len(report) != 1 {
		t.Errorf("Run = %v, %v", report, err)
	}
}
