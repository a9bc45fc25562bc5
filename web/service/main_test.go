package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/yatube/yatube/database"
	"github.com/yatube/yatube/database/model"
	"github.com/yatube/yatube/util/crypto"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "yatube-service")
	if err != nil {
		panic(err)
	}
	crypto.SetPasswordCost(bcrypt.MinCost)
	if err := database.InitDB(filepath.Join(dir, "test.db")); err != nil {
		panic(err)
	}
	code := m.Run()
	database.CloseDB()
	os.RemoveAll(dir)
	os.Exit(code)
}

func resetDB(t *testing.T) {
	t.Helper()
	db := database.GetDB()
	for _, table := range []any{&model.PasswordResetToken{}, &model.Post{}, &model.Group{}, &model.User{}, &model.Setting{}} {
		require.NoError(t, db.Where("1 = 1").Delete(table).Error)
	}
}

func createUser(t *testing.T, username string) *model.User {
	t.Helper()
	userService := UserService{}
	user := &model.User{Username: username, Email: username + "@yatube.test"}
	require.NoError(t, userService.Register(user, "SuperDifficultPassword1"))
	return user
}

func createGroup(t *testing.T, slug string) *model.Group {
	t.Helper()
	groupService := GroupService{}
	group, err := groupService.CreateGroup("Group "+slug, slug, "description of "+slug)
	require.NoError(t, err)
	return group
}
