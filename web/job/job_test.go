package job

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yatube/yatube/database"
	"github.com/yatube/yatube/database/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "yatube-job")
	if err != nil {
		panic(err)
	}
	if err := database.InitDB(filepath.Join(dir, "test.db")); err != nil {
		panic(err)
	}
	code := m.Run()
	database.CloseDB()
	os.RemoveAll(dir)
	os.Exit(code)
}

func TestClearResetTokensJob(t *testing.T) {
	db := database.GetDB()
	user := &model.User{Username: "leo", Password: "hash"}
	require.NoError(t, db.Create(user).Error)

	now := time.Now()
	tokens := []*model.PasswordResetToken{
		{UserId: user.Id, Token: "valid", ExpiresAt: now.Add(time.Hour)},
		{UserId: user.Id, Token: "expired", ExpiresAt: now.Add(-time.Minute)},
		{UserId: user.Id, Token: "used", ExpiresAt: now.Add(time.Hour), Used: true},
	}
	for _, token := range tokens {
		require.NoError(t, db.Omit("User").Create(token).Error)
	}

	NewClearResetTokensJob().Run()

	var left []model.PasswordResetToken
	require.NoError(t, db.Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, "valid", left[0].Token)
}

func TestCheckpointJob(t *testing.T) {
	assert.NotPanics(t, NewCheckpointJob().Run)
}
