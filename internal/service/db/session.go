package db

import (
	"time"

	"github.com/qiniu/x/xlog"
	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"

	"github.com/vantoan19/CodeToGive-backend/internal/common/utils"
	serrors "github.com/vantoan19/CodeToGive-backend/internal/protodef/errors"
)

// NewSession 连接 mongo，各个 Service 共用同一个 session。
func NewSession(conf utils.MongoConfig) (*mgo.Session, error) {
	session, err := mgo.Dial(conf.URI + "/" + conf.Database)
	if err != nil {
		return nil, err
	}
	if err = session.Ping(); err != nil {
		session.Close()
		return nil, err
	}
	return session, nil
}

// translate 把 mgo 错误转换为 ServerError。
func translate(err error, kind, key string) error {
	switch {
	case err == nil:
		return nil
	case err == mgo.ErrNotFound:
		return serrors.NotFound("%s %s not found", kind, key)
	case mgo.IsDup(err):
		return serrors.New(serrors.ServerErrorDuplicate, "%s %s already exists", kind, key)
	}
	return serrors.New(serrors.ServerErrorMongoOpFail, "%s %s: %v", kind, key, err)
}

func logger(xl, fallback *xlog.Logger) *xlog.Logger {
	if xl == nil {
		return fallback
	}
	return xl
}

func stamp(id *string, created, updated *time.Time) {
	now := time.Now()
	if *id == "" {
		*id = bson.NewObjectId().Hex()
	}
	if created.IsZero() {
		*created = now
	}
	*updated = now
}
