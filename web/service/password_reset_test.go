package service

import (
	"testing"
	"time"

	"github.com/yatube/yatube/database"
	"github.com/yatube/yatube/database/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to, subject, body string
}

type captureMailer struct {
	sent []sentMail
}

func (m *captureMailer) Send(to string, subject string, body string) error {
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

func TestEncodeUid(t *testing.T) {
	for _, id := range []int{1, 42, 100500} {
		decoded, err := DecodeUid(EncodeUid(id))
		require.NoError(t, err)
		assert.Equal(t, id, decoded)
	}
	_, err := DecodeUid("!!!")
	assert.Error(t, err)
}

func latestToken(t *testing.T, userId int) *model.PasswordResetToken {
	t.Helper()
	token := &model.PasswordResetToken{}
	require.NoError(t, database.GetDB().Where("user_id = ?", userId).Order("id desc").First(token).Error)
	return token
}

func TestPasswordResetFlow(t *testing.T) {
	resetDB(t)
	mailer := &captureMailer{}
	resetService := PasswordResetService{Mailer: mailer}
	userService := UserService{}
	user := createUser(t, "auth")

	var linkUid, linkToken string
	err := resetService.RequestReset("auth@yatube.test", func(uidb64, token string) string {
		linkUid, linkToken = uidb64, token
		return "http://testserver/auth/reset/" + uidb64 + "/" + token + "/"
	})
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "auth@yatube.test", mailer.sent[0].to)
	assert.Contains(t, mailer.sent[0].body, "http://testserver/auth/reset/"+linkUid+"/"+linkToken+"/")
	assert.Equal(t, latestToken(t, user.Id).Token, linkToken)

	checked, err := resetService.CheckToken(linkUid, linkToken)
	require.NoError(t, err)
	assert.Equal(t, user.Id, checked.Id)

	_, err = resetService.CheckToken(linkUid, "wrong-token")
	assert.ErrorIs(t, err, ErrInvalidResetLink)
	_, err = resetService.CheckToken("garbage", linkToken)
	assert.ErrorIs(t, err, ErrInvalidResetLink)

	require.NoError(t, resetService.ResetPassword(linkUid, linkToken, "BrandNewPassword1"))
	assert.NotNil(t, userService.CheckUser("auth", "BrandNewPassword1"))

	// links are single-use
	err = resetService.ResetPassword(linkUid, linkToken, "AnotherPassword1")
	assert.ErrorIs(t, err, ErrInvalidResetLink)
}

func TestPasswordResetUnknownEmailIsSilent(t *testing.T) {
	resetDB(t)
	mailer := &captureMailer{}
	resetService := PasswordResetService{Mailer: mailer}

	err := resetService.RequestReset("nobody@yatube.test", func(string, string) string { return "" })
	require.NoError(t, err)
	assert.Empty(t, mailer.sent)
}

func TestExpiredTokensAreRejectedAndCleared(t *testing.T) {
	resetDB(t)
	resetService := PasswordResetService{Mailer: &captureMailer{}}
	user := createUser(t, "auth")

	expired := &model.PasswordResetToken{UserId: user.Id, Token: "expired", ExpiresAt: time.Now().Add(-time.Minute)}
	require.NoError(t, database.GetDB().Create(expired).Error)
	valid := &model.PasswordResetToken{UserId: user.Id, Token: "valid", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, database.GetDB().Create(valid).Error)

	_, err := resetService.CheckToken(EncodeUid(user.Id), "expired")
	assert.ErrorIs(t, err, ErrInvalidResetLink)

	removed, err := resetService.ClearExpiredTokens()
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = resetService.CheckToken(EncodeUid(user.Id), "valid")
	assert.NoError(t, err)
}
