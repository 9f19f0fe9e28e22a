package cloud

import (
	"github.com/qiniu/x/xlog"
	rcsdk "github.com/rongcloud/server-sdk-go/v3/sdk"

	"github.com/vantoan19/CodeToGive-backend/internal/common/utils"
)

// DefaultPortraitURL 默认IM头像地址。
const DefaultPortraitURL = "https://developer.rongcloud.cn/static/images/newversion-logo.png"

// IMService 登录时为用户签发IM token。
type IMService interface {
	GetUserToken(xl *xlog.Logger, userID, name string) (string, error)
}

// RongCloudIMService 融云IM用户注册。
type RongCloudIMService struct {
	portrait        string
	rongCloudClient *rcsdk.RongCloud
	xl              *xlog.Logger
}

// NewRongCloudIMService 创建新的融云IM控制器。
func NewRongCloudIMService(conf utils.IMConfig) *RongCloudIMService {
	portrait := conf.DefaultPortrait
	if portrait == "" {
		portrait = DefaultPortraitURL
	}
	return &RongCloudIMService{
		portrait:        portrait,
		rongCloudClient: rcsdk.NewRongCloud(conf.RongCloud.AppKey, conf.RongCloud.AppSecret),
		xl:              xlog.New("quiz-cube-rongcloud-im"),
	}
}

// GetUserToken 用户注册，生成User token
func (c *RongCloudIMService) GetUserToken(xl *xlog.Logger, userID, name string) (string, error) {
	if xl == nil {
		xl = c.xl
	}
	if name == "" {
		name = userID
	}
	userRes, err := c.rongCloudClient.UserRegister(userID, name, c.portrait)
	if err != nil {
		xl.Errorf("failed to get user token from rongcloud, error %v", err)
		return "", err
	}
	return userRes.Token, nil
}
