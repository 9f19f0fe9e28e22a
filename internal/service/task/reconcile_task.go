package task

import (
	"fmt"

	"github.com/qiniu/x/xlog"

	"github.com/vantoan19/CodeToGive-backend/internal/protodef/model"
	"github.com/vantoan19/CodeToGive-backend/internal/service/quiz"
)

const (
	reconcileSubject = "relations"
	reconcileAction  = "check-reciprocity"
)

// Checker 双向引用检查。
type Checker interface {
	CheckReciprocity(xl *xlog.Logger) ([]quiz.Inconsistency, error)
}

// Recorder 保存任务执行记录，mongo 模式下为 db.TaskService。
type Recorder interface {
	Start(xl *xlog.Logger, subject, action string) (*model.TaskResultDo, error)
	Finish(xl *xlog.Logger, task *model.TaskResultDo, result string, runErr error) error
}

// ReconcileTask 定时检查 User<->Class、Quiz<->Class 的双向引用，只记录不修复。
type ReconcileTask struct {
	checker  Checker
	recorder Recorder
	xl       *xlog.Logger
}

// NewReconcileTask recorder 可以为 nil。
func NewReconcileTask(checker Checker, recorder Recorder) *ReconcileTask {
	return &ReconcileTask{
		checker:  checker,
		recorder: recorder,
		xl:       xlog.New("reconcile task"),
	}
}

// Start 执行一次检查，供 gocron 调用。
func (r *ReconcileTask) Start() {
	_, _ = r.Run(r.xl)
}

// Run 执行一次检查并返回发现的问题。
func (r *ReconcileTask) Run(xl *xlog.Logger) ([]quiz.Inconsistency, error) {
	if xl == nil {
		xl = r.xl
	}
	var record *model.TaskResultDo
	if r.recorder != nil {
		var err error
		if record, err = r.recorder.Start(xl, reconcileSubject, reconcileAction); err != nil {
			xl.Errorf("failed to record reconcile start, error %v", err)
		}
	}
	report, err := r.checker.CheckReciprocity(xl)
	result := fmt.Sprintf("%d inconsistent links", len(report))
	if err != nil {
		xl.Errorf("reconcile failed, error %v", err)
	} else if len(report) > 0 {
		xl.Warnf("reconcile found %s", result)
	} else {
		xl.Debugf("reconcile found no inconsistency")
	}
	if record != nil {
		if ferr := r.recorder.Finish(xl, record, result, err); ferr != nil {
			xl.Errorf("failed to record reconcile result, error %v", ferr)
		}
	}
	return report, err
}
