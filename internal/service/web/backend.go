package web

import (
	"github.com/pkg/errors"
	"github.com/qiniu/x/xlog"

	"github.com/vantoan19/CodeToGive-backend/internal/common/utils"
	"github.com/vantoan19/CodeToGive-backend/internal/protodef/model"
	"github.com/vantoan19/CodeToGive-backend/internal/service/auth"
	"github.com/vantoan19/CodeToGive-backend/internal/service/cloud"
	"github.com/vantoan19/CodeToGive-backend/internal/service/db"
	"github.com/vantoan19/CodeToGive-backend/internal/service/inmem"
	"github.com/vantoan19/CodeToGive-backend/internal/service/quiz"
	"github.com/vantoan19/CodeToGive-backend/internal/service/task"
	"github.com/vantoan19/CodeToGive-backend/internal/service/web/handler"
	"github.com/vantoan19/CodeToGive-backend/internal/service/web/middleware"
)

// Backend 按配置组装的存储与服务，HTTP server 与 quiz-admin 共用。
type Backend struct {
	Config      *utils.Config
	Store       quiz.Store
	Relations   *quiz.Relations
	Coordinator *quiz.Coordinator
	Classifier  *quiz.Classifier
	Auth        *auth.Service
	Assets      handler.AssetReader
	// 以下在未启用时为 nil。
	IM       cloud.IMService
	Actions  middleware.ActionRecorder
	Recorder task.Recorder
}

func NewBackend(conf *utils.Config) (*Backend, error) {
	xl := xlog.New("quiz-cube-backend")
	b := &Backend{Config: conf}
	var (
		tokens auth.TokenStore
		assets quiz.AssetStore
	)
	switch conf.Store {
	case utils.StoreTypeMemory:
		mem := inmem.NewStore()
		b.Store, tokens, assets, b.Assets = mem, mem, mem, mem
		xl.Warn("using memory store, data is lost on restart")
	case utils.StoreTypeMongo, "":
		if conf.Mongo == nil {
			return nil, errors.New("mongo config is required")
		}
		ms, err := db.NewMongoStore(*conf.Mongo, xl)
		if err != nil {
			return nil, errors.Wrap(err, "connect mongo")
		}
		b.Store, tokens, assets, b.Assets = ms, ms, ms.Assets, ms.Assets
		b.Actions = ms.Actions
		b.Recorder = ms.Tasks
	default:
		return nil, errors.Errorf("unknown store type %q", conf.Store)
	}

	if conf.Storage != nil && conf.Storage.Provider == utils.StorageProviderQiniu {
		assets = cloud.NewKodoStorage(*conf.Storage, conf.QiniuKeyPair)
	}
	if conf.IM != nil && conf.IM.Provider == utils.IMProviderRongCloud {
		if conf.IM.RongCloud == nil {
			return nil, errors.New("rongcloud config is required")
		}
		b.IM = cloud.NewRongCloudIMService(*conf.IM)
	}
	if conf.JwtKey == "" {
		xl.Warn("jwt_key is empty, tokens can be forged")
	}

	b.Relations = quiz.NewRelations(b.Store, nil)
	b.Coordinator = quiz.NewCoordinator(b.Store, b.Relations, cloud.NewImageService(), assets, nil)
	b.Classifier = quiz.NewClassifier(b.Store, model.URLs{Domain: conf.Domain}, nil)
	b.Auth = auth.NewService(b.Store, tokens, conf.JwtKey, nil)
	return b, nil
}

// ReconcileTask 定时一致性检查，mongo 模式下记录执行结果。
func (b *Backend) ReconcileTask() *task.ReconcileTask {
	return task.NewReconcileTask(b.Relations, b.Recorder)
}
