package db

import (
	"time"

	"github.com/qiniu/x/xlog"
	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"

	"github.com/vantoan19/CodeToGive-backend/internal/protodef/model"
	"github.com/vantoan19/CodeToGive-backend/internal/service/db/dao"
)

// AccountService 用户账号与登录token的存取。
type AccountService struct {
	accountColl      *mgo.Collection
	accountTokenColl *mgo.Collection
	xl               *xlog.Logger
}

func NewAccountService(session *mgo.Session, database string, xl *xlog.Logger) (*AccountService, error) {
	if xl == nil {
		xl = xlog.New("quiz-cube-account-db")
	}
	accountColl := session.DB(database).C(dao.CollectionUser)
	accountTokenColl := session.DB(database).C(dao.CollectionAccountToken)
	if err := accountColl.EnsureIndex(mgo.Index{Key: []string{"account"}, Unique: true}); err != nil {
		xl.Errorf("failed to ensure account index, error %v", err)
		return nil, err
	}
	if err := accountColl.EnsureIndex(mgo.Index{Key: []string{"email"}, Unique: true, Sparse: true}); err != nil {
		xl.Errorf("failed to ensure email index, error %v", err)
		return nil, err
	}
	if err := accountTokenColl.EnsureIndex(mgo.Index{Key: []string{"token"}, Unique: true}); err != nil {
		xl.Errorf("failed to ensure token index, error %v", err)
		return nil, err
	}
	return &AccountService{
		accountColl:      accountColl,
		accountTokenColl: accountTokenColl,
		xl:               xl,
	}, nil
}

// SelectUser 使用ID查找账号。
func (c *AccountService) SelectUser(xl *xlog.Logger, id string) (*model.UserDo, error) {
	return c.selectUserByFields(xl, bson.M{"_id": id}, id)
}

// SelectUserByAccount 使用登录名查找账号。
func (c *AccountService) SelectUserByAccount(xl *xlog.Logger, account string) (*model.UserDo, error) {
	return c.selectUserByFields(xl, bson.M{"account": account}, account)
}

func (c *AccountService) selectUserByFields(xl *xlog.Logger, fields bson.M, key string) (*model.UserDo, error) {
	xl = logger(xl, c.xl)
	user := model.UserDo{}
	err := c.accountColl.Find(fields).One(&user)
	if err != nil {
		if err == mgo.ErrNotFound {
			xl.Infof("no such user for fields %v", fields)
		} else {
			xl.Errorf("failed to get user, error %v", err)
		}
		return nil, translate(err, "user", key)
	}
	return &user, nil
}

// ListUsersByIDs 按 ids 顺序返回，已删除的用户跳过。
func (c *AccountService) ListUsersByIDs(xl *xlog.Logger, ids []string) ([]model.UserDo, error) {
	xl = logger(xl, c.xl)
	results := make([]model.UserDo, 0, len(ids))
	if len(ids) == 0 {
		return results, nil
	}
	found := make([]model.UserDo, 0, len(ids))
	if err := c.accountColl.Find(bson.M{"_id": bson.M{"$in": ids}}).All(&found); err != nil {
		xl.Errorf("failed to list users, error %v", err)
		return nil, translate(err, "user", "list")
	}
	byID := make(map[string]model.UserDo, len(found))
	for _, u := range found {
		byID[u.ID] = u
	}
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			results = append(results, u)
		}
	}
	return results, nil
}

func (c *AccountService) ListUsers(xl *xlog.Logger) ([]model.UserDo, error) {
	results := make([]model.UserDo, 0)
	if err := c.accountColl.Find(nil).All(&results); err != nil {
		logger(xl, c.xl).Errorf("failed to list users, error %v", err)
		return nil, translate(err, "user", "list")
	}
	return results, nil
}

// InsertUser 创建用户账号。
func (c *AccountService) InsertUser(xl *xlog.Logger, user *model.UserDo) error {
	xl = logger(xl, c.xl)
	stamp(&user.ID, &user.CreatedTime, &user.UpdatedTime)
	if err := c.accountColl.Insert(user); err != nil {
		xl.Errorf("failed to insert user, error %v", err)
		return translate(err, "account", user.Account)
	}
	return nil
}

// UpdateUser 更新用户信息。
func (c *AccountService) UpdateUser(xl *xlog.Logger, user *model.UserDo) error {
	xl = logger(xl, c.xl)
	if err := c.accountColl.UpdateId(user.ID, user); err != nil {
		xl.Errorf("failed to update user %s, error %v", user.ID, err)
		return translate(err, "user", user.ID)
	}
	return nil
}

func (c *AccountService) DeleteUser(xl *xlog.Logger, id string) error {
	xl = logger(xl, c.xl)
	if err := c.accountColl.RemoveId(id); err != nil {
		xl.Errorf("failed to remove user %s, error %v", id, err)
		return translate(err, "user", id)
	}
	if _, err := c.accountTokenColl.RemoveAll(bson.M{"accountId": id}); err != nil {
		// token 清理失败不影响删除结果。
		xl.Errorf("failed to remove tokens of user %s, error %v", id, err)
	}
	return nil
}

// InsertToken 保存一次登录。
func (c *AccountService) InsertToken(xl *xlog.Logger, token *model.AccountTokenDo) error {
	xl = logger(xl, c.xl)
	if token.ID == "" {
		token.ID = bson.NewObjectId().Hex()
	}
	token.LastModifyTime = time.Now()
	if err := c.accountTokenColl.Insert(token); err != nil {
		xl.Errorf("failed to insert user login record, error %v", err)
		return translate(err, "token", token.ID)
	}
	return nil
}

// SelectToken 如果未在已登录用户表查找到这个token，说明该token不合法。
func (c *AccountService) SelectToken(xl *xlog.Logger, token string) (*model.AccountTokenDo, error) {
	xl = logger(xl, c.xl)
	record := &model.AccountTokenDo{}
	if err := c.accountTokenColl.Find(bson.M{"token": token}).One(record); err != nil {
		if err == mgo.ErrNotFound {
			xl.Infof("token not found in active users")
		} else {
			xl.Errorf("failed to find token in active users, error %v", err)
		}
		return nil, translate(err, "token", "")
	}
	return record, nil
}

// DeleteToken 用户退出登录。
func (c *AccountService) DeleteToken(xl *xlog.Logger, token string) error {
	xl = logger(xl, c.xl)
	if err := c.accountTokenColl.Remove(bson.M{"token": token}); err != nil {
		xl.Errorf("failed to remove login record, error %v", err)
		return translate(err, "token", "")
	}
	return nil
}

// DeleteTokensOfAccount 用户在所有设备上退出登录。
func (c *AccountService) DeleteTokensOfAccount(xl *xlog.Logger, accountID string) error {
	xl = logger(xl, c.xl)
	info, err := c.accountTokenColl.RemoveAll(bson.M{"accountId": accountID})
	if err != nil {
		xl.Errorf("failed to remove login records of %s, error %v", accountID, err)
		return translate(err, "token", accountID)
	}
	xl.Infof("user %s logged out from %d sessions", accountID, info.Removed)
	return nil
}
