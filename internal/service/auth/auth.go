package auth

import (
	"strings"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
	"github.com/qiniu/x/xlog"
	"golang.org/x/crypto/bcrypt"

	serrors "github.com/vantoan19/CodeToGive-backend/internal/protodef/errors"
	"github.com/vantoan19/CodeToGive-backend/internal/protodef/model"
)

// UserStore 认证需要的用户存取。
type UserStore interface {
	SelectUser(xl *xlog.Logger, id string) (*model.UserDo, error)
	SelectUserByAccount(xl *xlog.Logger, account string) (*model.UserDo, error)
	InsertUser(xl *xlog.Logger, user *model.UserDo) error
}

// TokenStore 已登录的token，一个用户可以同时持有多个。
type TokenStore interface {
	InsertToken(xl *xlog.Logger, token *model.AccountTokenDo) error
	SelectToken(xl *xlog.Logger, token string) (*model.AccountTokenDo, error)
	DeleteToken(xl *xlog.Logger, token string) error
	DeleteTokensOfAccount(xl *xlog.Logger, accountID string) error
}

// Service 用户注册、登录、退出登录与token校验。
type Service struct {
	users  UserStore
	tokens TokenStore
	jwtKey []byte
	xl     *xlog.Logger
}

func NewService(users UserStore, tokens TokenStore, jwtKey string, xl *xlog.Logger) *Service {
	if xl == nil {
		xl = xlog.New("quiz-auth")
	}
	return &Service{users: users, tokens: tokens, jwtKey: []byte(jwtKey), xl: xl}
}

// HashPassword bcrypt 哈希。
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Register 创建用户并登录，返回新用户与token。
func (s *Service) Register(xl *xlog.Logger, user *model.UserDo, password string) (*model.UserDo, string, error) {
	if xl == nil {
		xl = s.xl
	}
	hash, err := HashPassword(password)
	if err != nil {
		xl.Errorf("failed to hash password, error %v", err)
		return nil, "", err
	}
	user.Password = hash
	if err = s.users.InsertUser(xl, user); err != nil {
		return nil, "", err
	}
	token, err := s.issue(xl, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login 校验账号密码，成功后签发新token。
func (s *Service) Login(xl *xlog.Logger, account, password string) (*model.UserDo, string, error) {
	if xl == nil {
		xl = s.xl
	}
	user, err := s.users.SelectUserByAccount(xl, strings.TrimSpace(account))
	if err != nil {
		if errors.Is(err, serrors.ErrNotFound) {
			return nil, "", serrors.New(serrors.ServerErrorUnauthenticated, "no such account %s", account)
		}
		return nil, "", err
	}
	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		xl.Infof("wrong password for account %s", account)
		return nil, "", serrors.New(serrors.ServerErrorUnauthenticated, "wrong password")
	}
	token, err := s.issue(xl, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *Service) issue(xl *xlog.Logger, user *model.UserDo) (string, error) {
	claims := jwt.MapClaims{
		"userID":    user.ID,
		"timestamp": time.Now().UnixNano(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtKey)
	if err != nil {
		xl.Errorf("failed to sign token for %s, error %v", user.ID, err)
		return "", err
	}
	record := &model.AccountTokenDo{
		AccountId:      user.ID,
		Token:          token,
		LastModifyTime: time.Now(),
	}
	if err = s.tokens.InsertToken(xl, record); err != nil {
		xl.Errorf("failed to save login record of %s, error %v", user.ID, err)
		return "", err
	}
	return token, nil
}

// Identify 根据token找到用户。签名错误、已退出或用户已删除均返回 Unauthenticated。
func (s *Service) Identify(xl *xlog.Logger, token string) (*model.UserDo, error) {
	if xl == nil {
		xl = s.xl
	}
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtKey, nil
	})
	if err != nil {
		xl.Debugf("bad token, error %v", err)
		return nil, serrors.New(serrors.ServerErrorUnauthenticated, "bad token")
	}
	record, err := s.tokens.SelectToken(xl, token)
	if err != nil {
		if errors.Is(err, serrors.ErrNotFound) {
			return nil, serrors.New(serrors.ServerErrorUnauthenticated, "token revoked")
		}
		return nil, err
	}
	if userID, _ := claims["userID"].(string); userID != record.AccountId {
		return nil, serrors.New(serrors.ServerErrorUnauthenticated, "token does not match account")
	}
	user, err := s.users.SelectUser(xl, record.AccountId)
	if err != nil {
		if errors.Is(err, serrors.ErrNotFound) {
			return nil, serrors.New(serrors.ServerErrorUnauthenticated, "account %s no longer exists", record.AccountId)
		}
		return nil, err
	}
	return user, nil
}

// Logout 撤销当前token。
func (s *Service) Logout(xl *xlog.Logger, token string) error {
	if xl == nil {
		xl = s.xl
	}
	err := s.tokens.DeleteToken(xl, token)
	if err != nil && !errors.Is(err, serrors.ErrNotFound) {
		return err
	}
	return nil
}

// LogoutAll 撤销用户的全部token。
func (s *Service) LogoutAll(xl *xlog.Logger, userID string) error {
	if xl == nil {
		xl = s.xl
	}
	return s.tokens.DeleteTokensOfAccount(xl, userID)
}
