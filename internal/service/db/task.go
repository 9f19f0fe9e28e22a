package db

import (
	"fmt"
	"time"

	"github.com/qiniu/x/xlog"
	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"

	"github.com/vantoan19/CodeToGive-backend/internal/protodef/model"
	"github.com/vantoan19/CodeToGive-backend/internal/service/db/dao"
)

// TaskService 定时任务执行记录。
type TaskService struct {
	taskCollection *mgo.Collection
	xl             *xlog.Logger
}

func NewTaskService(session *mgo.Session, database string, xl *xlog.Logger) *TaskService {
	if xl == nil {
		xl = xlog.New("task db")
	}
	return &TaskService{
		taskCollection: session.DB(database).C(dao.TaskCollection),
		xl:             xl,
	}
}

// Start 记录一次任务开始执行，返回的记录交给 Finish 更新结果。
func (v *TaskService) Start(xl *xlog.Logger, subject, action string) (*model.TaskResultDo, error) {
	xl = logger(xl, v.xl)
	now := time.Now()
	task := &model.TaskResultDo{
		ID:        bson.NewObjectId().Hex(),
		CreateAt:  now,
		UpdateAt:  now,
		Subject:   subject,
		Action:    action,
		Status:    model.TaskStatusRunning,
		SubjectID: fmt.Sprintf("%s-%d", subject, now.Unix()),
	}
	if err := v.taskCollection.Insert(task); err != nil {
		xl.Errorf("error create TaskResultDo %v err:%v", task, err)
		return nil, translate(err, "task", task.ID)
	}
	return task, nil
}

// Finish 按 runErr 标记成功或失败，失败时累加重试次数。
func (v *TaskService) Finish(xl *xlog.Logger, task *model.TaskResultDo, result string, runErr error) error {
	xl = logger(xl, v.xl)
	task.UpdateAt = time.Now()
	task.Result = result
	if runErr != nil {
		task.Status = model.TaskStatusFailed
		task.Result = runErr.Error()
		task.RetryCount++
	} else {
		task.Status = model.TaskStatusSuccess
	}
	if err := v.taskCollection.UpdateId(task.ID, task); err != nil {
		xl.Errorf("error update TaskResultDo %v err:%v", task, err)
		return translate(err, "task", task.ID)
	}
	return nil
}

// Recent 最近的任务记录，按创建时间倒序。
func (v *TaskService) Recent(xl *xlog.Logger, subject string, limit int) ([]model.TaskResultDo, error) {
	tasks := make([]model.TaskResultDo, 0, limit)
	err := v.taskCollection.Find(bson.M{"subject": subject}).Sort("-create_at").Limit(limit).All(&tasks)
	if err != nil {
		logger(xl, v.xl).Debugf("error get tasks of %s err:%v", subject, err)
		return nil, translate(err, "task", subject)
	}
	return tasks, nil
}
