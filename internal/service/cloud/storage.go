package cloud

import (
	"bytes"
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/qiniu/go-sdk/v7/auth/qbox"
	"github.com/qiniu/go-sdk/v7/storage"
	"github.com/qiniu/x/xlog"

	"github.com/vantoan19/CodeToGive-backend/internal/common/utils"
)

var defaultLogger = xlog.New("quiz-cube-cloud")

// KodoStorage 图片上传至七牛对象存储，引用为文件的下载URL。
type KodoStorage struct {
	conf    utils.StorageConfig
	keyPair utils.QiniuKeyPair
	xl      *xlog.Logger
}

func NewKodoStorage(conf utils.StorageConfig, keyPair utils.QiniuKeyPair) *KodoStorage {
	return &KodoStorage{conf: conf, keyPair: keyPair, xl: defaultLogger}
}

func (k *KodoStorage) PutAsset(xl *xlog.Logger, contentType string, data []byte) (string, error) {
	if xl == nil {
		xl = k.xl
	}
	fileKey := k.conf.KeyPrefix + uuid.New().String() + extension(contentType)
	if err := upload(k.conf.Bucket, k.keyPair, data, fileKey, xl); err != nil {
		return "", err
	}
	return strings.TrimSuffix(k.conf.URLPrefix, "/") + "/" + fileKey, nil
}

func extension(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	}
	return ""
}

// IsRemoteRef 引用是否为对象存储的URL。
func IsRemoteRef(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// fileKey 上传文件的访问名
func upload(bucketName string, conf utils.QiniuKeyPair, data []byte, fileKey string, xl *xlog.Logger) error {
	mac := qbox.NewMac(conf.AccessKey, conf.SecretKey)
	putPolicy := storage.PutPolicy{
		Scope: bucketName,
	}
	upToken := putPolicy.UploadToken(mac)
	cfg := storage.Config{}
	// 空间对应的机房
	cfg.Zone = &storage.ZoneHuanan
	cfg.UseHTTPS = true
	cfg.UseCdnDomains = false
	formUploader := storage.NewFormUploader(&cfg)
	ret := storage.PutRet{}
	err := formUploader.Put(context.Background(), &ret, upToken, fileKey, bytes.NewReader(data), int64(len(data)), nil)
	if err != nil {
		xl.Errorf("file uploading failed err:%v", err)
		return err
	}
	xl.Infof("file %s uploaded, hash %s", ret.Key, ret.Hash)
	return nil
}
