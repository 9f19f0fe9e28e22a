// Copyright 2020 Qiniu Cloud (qiniu.com)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package utils

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	qconfig "github.com/qiniu/x/config"
)

var (
	DefaultConf Config
)

const (
	StoreTypeMongo  = "mongo"
	StoreTypeMemory = "memory"

	StorageProviderMongo = "mongo"
	StorageProviderQiniu = "qiniu"

	IMProviderNone      = "none"
	IMProviderRongCloud = "rongcloud"
)

// InitConf 加载配置文件，随后用 .env 与环境变量覆盖密钥类配置。
func InitConf(configFilePath string) {
	DefaultConf = *NewSample()
	err := qconfig.LoadFile(&DefaultConf, configFilePath)
	if err != nil {
		log.Fatalf("failed to load config file, error %v", err)
	}
	if err = godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env file, error %v", err)
	}
	DefaultConf.ApplyEnv()
}

// MongoConfig mongo 数据库配置。
type MongoConfig struct {
	URI      string `json:"uri"`
	Database string `json:"database"`
}

// QiniuKeyPair 七牛APIaccess key/secret key配置。
type QiniuKeyPair struct {
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
}

// StorageConfig 图片等上传文件的存储配置。
type StorageConfig struct {
	// Provider 为 mongo 时图片直接存入 assets 表，为 qiniu 时上传至七牛对象存储。
	Provider string `json:"provider"`
	// Bucket 上传的文件所在的七牛对象存储bucket。
	Bucket string `json:"bucket"`
	// URLPrefix 上传的文件的下载URL前缀，一般为该bucket对应的默认域名。
	URLPrefix string `json:"url_prefix"`
	// KeyPrefix 上传文件名前缀。
	KeyPrefix string `json:"key_prefix"`
}

// RongCloudIMConfig 融云IM服务配置。
type RongCloudIMConfig struct {
	AppKey    string `json:"app_key"`
	AppSecret string `json:"app_secret"`
}

// IMConfig IM服务配置，用于班级聊天。
type IMConfig struct {
	Provider        string             `json:"provider"`
	DefaultPortrait string             `json:"default_portrait"`
	RongCloud       *RongCloudIMConfig `json:"rongcloud"`
}

// Config 后端配置。
type Config struct {
	// debug等级，为1时输出info/warn/error日志，为0除以上外还输出debug日志
	DebugLevel int    `json:"debug_level"`
	ListenAddr string `json:"listen_addr"`
	// Domain 拼接图片、点赞等接口URL使用的前缀，以 / 结尾。
	Domain string `json:"domain"`
	// Store 数据存储类型，mongo 或 memory。
	Store   string         `json:"store"`
	Mongo   *MongoConfig   `json:"mongo"`
	Storage *StorageConfig `json:"storage"`
	IM      *IMConfig      `json:"im"`
	// ReconcileIntervalMinute 双向引用一致性检查的间隔。
	ReconcileIntervalMinute int          `json:"reconcile_interval_m"`
	QiniuKeyPair            QiniuKeyPair `json:"qiniu_key_pair"`
	JwtKey                  string       `json:"jwt_key"`
}

// ApplyEnv 使用环境变量覆盖密钥配置。
func (c *Config) ApplyEnv() {
	if v := os.Getenv("JWT_KEY"); v != "" {
		c.JwtKey = v
	}
	if v := os.Getenv("MONGO_URI"); v != "" && c.Mongo != nil {
		c.Mongo.URI = v
	}
	if v := os.Getenv("QINIU_ACCESS_KEY"); v != "" {
		c.QiniuKeyPair.AccessKey = v
	}
	if v := os.Getenv("QINIU_SECRET_KEY"); v != "" {
		c.QiniuKeyPair.SecretKey = v
	}
	if c.IM != nil && c.IM.RongCloud != nil {
		if v := os.Getenv("RONGCLOUD_APP_KEY"); v != "" {
			c.IM.RongCloud.AppKey = v
		}
		if v := os.Getenv("RONGCLOUD_APP_SECRET"); v != "" {
			c.IM.RongCloud.AppSecret = v
		}
	}
	if c.Domain != "" && !strings.HasSuffix(c.Domain, "/") {
		c.Domain += "/"
	}
}

// NewSample 返回样例配置。
func NewSample() *Config {
	return &Config{
		DebugLevel: 0,
		ListenAddr: ":8080",
		Domain:     "http://localhost:8080/",
		Store:      StoreTypeMongo,
		Mongo: &MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "quiz_cube",
		},
		Storage: &StorageConfig{
			Provider: StorageProviderMongo,
		},
		IM: &IMConfig{
			Provider: IMProviderNone,
			RongCloud: &RongCloudIMConfig{
				AppKey:    os.Getenv("RONGCLOUD_APP_KEY"),
				AppSecret: os.Getenv("RONGCLOUD_APP_SECRET"),
			},
		},
		ReconcileIntervalMinute: 30,
	}
}
