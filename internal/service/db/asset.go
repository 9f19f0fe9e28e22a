package db

import (
	"time"

	"github.com/qiniu/x/xlog"
	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"

	"github.com/vantoan19/CodeToGive-backend/internal/protodef/model"
	"github.com/vantoan19/CodeToGive-backend/internal/service/db/dao"
)

// AssetService 图片直接保存在 assets 表中，引用即文档ID。
type AssetService struct {
	assetColl *mgo.Collection
	xl        *xlog.Logger
}

func NewAssetService(session *mgo.Session, database string, xl *xlog.Logger) *AssetService {
	if xl == nil {
		xl = xlog.New("quiz-cube-asset-db")
	}
	return &AssetService{assetColl: session.DB(database).C(dao.CollectionAsset), xl: xl}
}

func (s *AssetService) PutAsset(xl *xlog.Logger, contentType string, data []byte) (string, error) {
	xl = logger(xl, s.xl)
	asset := &model.AssetDo{
		ID:          bson.NewObjectId().Hex(),
		ContentType: contentType,
		Data:        data,
		CreatedTime: time.Now(),
	}
	if err := s.assetColl.Insert(asset); err != nil {
		xl.Errorf("failed to save asset, error %v", err)
		return "", translate(err, "asset", asset.ID)
	}
	return asset.ID, nil
}

func (s *AssetService) GetAsset(xl *xlog.Logger, ref string) (*model.AssetDo, error) {
	xl = logger(xl, s.xl)
	asset := model.AssetDo{}
	if err := s.assetColl.FindId(ref).One(&asset); err != nil {
		if err != mgo.ErrNotFound {
			xl.Errorf("failed to load asset %s, error %v", ref, err)
		}
		return nil, translate(err, "asset", ref)
	}
	return &asset, nil
}
