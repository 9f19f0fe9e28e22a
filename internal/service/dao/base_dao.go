package dao

import (
	"context"
	"time"

	"github.com/qiniu/x/xlog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vantoan19/CodeToGive-backend/internal/common/utils"
	serrors "github.com/vantoan19/CodeToGive-backend/internal/protodef/errors"
)

const opTimeout = 5 * time.Second

// NewClient 连接 mongo，测验、题目与作品表共用一个 client。
func NewClient(config *utils.MongoConfig) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.URI))
	if err != nil {
		return nil, err
	}
	if err = client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client, nil
}

// baseDao 单个集合上的通用读写，文档以字符串 _id 为主键。
type baseDao struct {
	kind       string
	collection *mongo.Collection
	logger     *xlog.Logger
}

func (b *baseDao) log(xl *xlog.Logger) *xlog.Logger {
	if xl == nil {
		return b.logger
	}
	return xl
}

func (b *baseDao) ensureUniqueIndex(field string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	_, err := b.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    primitive.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (b *baseDao) translate(err error, key string) error {
	switch {
	case err == nil:
		return nil
	case err == mongo.ErrNoDocuments:
		return serrors.NotFound("%s %s not found", b.kind, key)
	case mongo.IsDuplicateKeyError(err):
		return serrors.New(serrors.ServerErrorDuplicate, "%s %s already exists", b.kind, key)
	}
	return serrors.New(serrors.ServerErrorMongoOpFail, "%s %s: %v", b.kind, key, err)
}

func (b *baseDao) findOne(xl *xlog.Logger, filter primitive.M, key string, out interface{}) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	one := b.collection.FindOne(ctx, filter)
	if err := one.Err(); err != nil {
		if err != mongo.ErrNoDocuments {
			b.log(xl).Errorf("查询数据表失败: %v", err)
		}
		return b.translate(err, key)
	}
	if err := one.Decode(out); err != nil {
		b.log(xl).Error(err)
		return b.translate(err, key)
	}
	return nil
}

// findMany 遍历查询结果，每个文档调用一次 decode。
func (b *baseDao) findMany(xl *xlog.Logger, filter primitive.M, decode func(cursor *mongo.Cursor) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	cursor, err := b.collection.Find(ctx, filter, &options.FindOptions{
		Sort: primitive.M{"createdTime": 1},
	})
	if err != nil {
		b.log(xl).Error(err)
		return b.translate(err, "list")
	}
	defer func(cursor *mongo.Cursor, ctx context.Context) {
		if err := cursor.Close(ctx); err != nil {
			b.log(xl).Error(err)
		}
	}(cursor, ctx)
	for cursor.Next(ctx) {
		if err = decode(cursor); err != nil {
			b.log(xl).Error(err)
			return b.translate(err, "list")
		}
	}
	if err = cursor.Err(); err != nil {
		b.log(xl).Error(err)
		return b.translate(err, "list")
	}
	return nil
}

func (b *baseDao) insert(xl *xlog.Logger, doc interface{}, key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if _, err := b.collection.InsertOne(ctx, doc); err != nil {
		b.log(xl).Errorf("插入数据失败: %v", err)
		return b.translate(err, key)
	}
	return nil
}

func (b *baseDao) replace(xl *xlog.Logger, id string, doc interface{}) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	res, err := b.collection.ReplaceOne(ctx, primitive.M{"_id": id}, doc)
	if err != nil {
		b.log(xl).Errorf("更新数据失败: %v", err)
		return b.translate(err, id)
	}
	if res.MatchedCount == 0 {
		return b.translate(mongo.ErrNoDocuments, id)
	}
	return nil
}

func (b *baseDao) delete(xl *xlog.Logger, id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	res, err := b.collection.DeleteOne(ctx, primitive.M{"_id": id})
	if err != nil {
		b.log(xl).Errorf("删除数据失败: %v", err)
		return b.translate(err, id)
	}
	if res.DeletedCount == 0 {
		return b.translate(mongo.ErrNoDocuments, id)
	}
	return nil
}

func stamp(id *string, created, updated *time.Time) {
	now := time.Now()
	if *id == "" {
		*id = primitive.NewObjectID().Hex()
	}
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

func byIDs(ids []string) primitive.M {
	return primitive.M{"_id": primitive.M{"$in": ids}}
}
