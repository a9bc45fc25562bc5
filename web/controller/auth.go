package controller

import (
	"errors"
	"net/http"

	"github.com/yatube/yatube/database/model"
	"github.com/yatube/yatube/logger"
	"github.com/yatube/yatube/web/form"
	"github.com/yatube/yatube/web/middleware"
	"github.com/yatube/yatube/web/service"
	"github.com/yatube/yatube/web/session"

	"github.com/gin-gonic/gin"
)

// AuthController handles registration, login, logout and the password
// change and reset flows under /auth.
type AuthController struct {
	BaseController

	settingService service.SettingService
	resetService   service.PasswordResetService
}

// NewAuthController registers the /auth routes. Reset links are delivered
// through mailer; nil writes them to the log.
func NewAuthController(g *gin.RouterGroup, mailer service.Mailer) *AuthController {
	a := &AuthController{}
	a.resetService.Mailer = mailer
	a.initRouter(g.Group("/auth"))
	return a
}

func (a *AuthController) initRouter(g *gin.RouterGroup) {
	limitConfig := middleware.DefaultRateLimitConfig()
	limitConfig.OnLimit = TooManyRequests
	limit := middleware.RateLimitMiddleware(limitConfig)

	g.GET("/signup/", a.signup)
	g.POST("/signup/", a.signup)
	g.GET("/login/", a.login)
	g.POST("/login/", limit, a.login)
	g.GET("/logout/", a.logout)

	g.GET("/password_change/", a.checkLogin, a.passwordChange)
	g.POST("/password_change/", a.checkLogin, a.passwordChange)
	g.GET("/password_change/done/", a.checkLogin, a.passwordChangeDone)

	g.GET("/password_reset/", a.passwordReset)
	g.POST("/password_reset/", limit, a.passwordReset)
	g.GET("/password_reset/done/", a.passwordResetDone)
	g.GET("/reset/:uidb64/:token/", a.passwordResetConfirm)
	g.POST("/reset/:uidb64/:token/", a.passwordResetConfirm)
	g.GET("/reset/done/", a.passwordResetComplete)
}

func (a *AuthController) signup(c *gin.Context) {
	f := &form.SignupForm{}
	if c.Request.Method != http.MethodPost {
		html(c, "signup.html", I18nWeb(c, "pages.signup.title"), gin.H{"form": f})
		return
	}

	errs := form.Errors{}
	if err := c.ShouldBind(f); err != nil {
		errs.Add("", "form.errors.invalid")
	} else {
		errs = f.Validate()
	}
	if errs.Valid() {
		user := &model.User{
			Username:  f.Username,
			Email:     f.Email,
			FirstName: f.FirstName,
			LastName:  f.LastName,
		}
		err := a.userService.Register(user, f.Password1)
		if err == nil {
			logger.Infof("user %s signed up from %s", user.Username, getRemoteIp(c))
			c.Redirect(http.StatusFound, "/")
			return
		}
		if !errors.Is(err, service.ErrUsernameTaken) {
			panic(err)
		}
		errs.Add("username", "form.errors.usernameTaken")
	}

	f.Password1, f.Password2 = "", ""
	html(c, "signup.html", I18nWeb(c, "pages.signup.title"), gin.H{
		"form":   f,
		"errors": formErrors(c, errs),
	})
}

func (a *AuthController) login(c *gin.Context) {
	next := c.Query("next")
	if c.Request.Method == http.MethodPost {
		if v := c.PostForm("next"); v != "" {
			next = v
		}
	}
	f := &form.LoginForm{}
	render := func(errs form.Errors) {
		f.Password = ""
		html(c, "login.html", I18nWeb(c, "pages.login.title"), gin.H{
			"form":   f,
			"next":   next,
			"errors": formErrors(c, errs),
		})
	}
	if c.Request.Method != http.MethodPost {
		render(nil)
		return
	}

	if err := c.ShouldBind(f); err != nil {
		errs := form.Errors{}
		errs.Add("", "form.errors.invalid")
		render(errs)
		return
	}
	if errs := f.Validate(); !errs.Valid() {
		render(errs)
		return
	}

	user := a.userService.CheckUser(f.Username, f.Password)
	if user == nil {
		logger.Warningf("wrong username or password: %q, IP: %q", f.Username, getRemoteIp(c))
		errs := form.Errors{}
		errs.Add("", "form.errors.invalidLogin")
		render(errs)
		return
	}

	sessionMaxAge, err := a.settingService.GetSessionMaxAge()
	if err != nil {
		logger.Warning("Unable to get session's max age from DB:", err)
	}
	if sessionMaxAge > 0 {
		if err := session.SetMaxAge(c, sessionMaxAge*60); err != nil {
			logger.Warning("Unable to set session's max age:", err)
		}
	}
	if err := session.SetLoginUser(c, user); err != nil {
		logger.Warning("Unable to save session:", err)
	}
	logger.Infof("user %s logged in from %s", user.Username, getRemoteIp(c))

	if !isSafeRedirect(next) {
		next = "/"
	}
	c.Redirect(http.StatusFound, next)
}

func (a *AuthController) logout(c *gin.Context) {
	if user := session.GetLoginUser(c); user != nil {
		logger.Infof("user %s logged out", user.Username)
	}
	if err := session.ClearSession(c); err != nil {
		logger.Warning("Unable to clear session on logout:", err)
	}
	html(c, "logged_out.html", I18nWeb(c, "pages.loggedOut.title"), nil)
}

func (a *AuthController) passwordChange(c *gin.Context) {
	f := &form.PasswordChangeForm{}
	render := func(errs form.Errors) {
		html(c, "password_change_form.html", I18nWeb(c, "pages.passwordChange.title"), gin.H{
			"errors": formErrors(c, errs),
		})
	}
	if c.Request.Method != http.MethodPost {
		render(nil)
		return
	}

	errs := form.Errors{}
	if err := c.ShouldBind(f); err != nil {
		errs.Add("", "form.errors.invalid")
	} else {
		errs = f.Validate()
	}
	if errs.Valid() {
		user := loginUser(c)
		err := a.userService.ChangePassword(user.Id, f.OldPassword, f.NewPassword1)
		if err == nil {
			logger.Infof("user %s changed their password", user.Username)
			c.Redirect(http.StatusFound, "/auth/password_change/done/")
			return
		}
		if !errors.Is(err, service.ErrWrongPassword) {
			panic(err)
		}
		errs.Add("old_password", "form.errors.wrongPassword")
	}
	render(errs)
}

func (a *AuthController) passwordChangeDone(c *gin.Context) {
	html(c, "password_change_done.html", I18nWeb(c, "pages.passwordChangeDone.title"), nil)
}

func (a *AuthController) passwordReset(c *gin.Context) {
	f := &form.PasswordResetForm{}
	render := func(errs form.Errors) {
		html(c, "password_reset_form.html", I18nWeb(c, "pages.passwordReset.title"), gin.H{
			"form":   f,
			"errors": formErrors(c, errs),
		})
	}
	if c.Request.Method != http.MethodPost {
		render(nil)
		return
	}

	if err := c.ShouldBind(f); err != nil {
		errs := form.Errors{}
		errs.Add("", "form.errors.invalid")
		render(errs)
		return
	}
	if errs := f.Validate(); !errs.Valid() {
		render(errs)
		return
	}

	siteURL, err := a.settingService.GetSiteURL()
	if err != nil {
		panic(err)
	}
	err = a.resetService.RequestReset(f.Email, func(uidb64 string, token string) string {
		return siteURL + "/auth/reset/" + uidb64 + "/" + token + "/"
	})
	if err != nil {
		panic(err)
	}
	c.Redirect(http.StatusFound, "/auth/password_reset/done/")
}

func (a *AuthController) passwordResetDone(c *gin.Context) {
	html(c, "password_reset_done.html", I18nWeb(c, "pages.passwordResetDone.title"), nil)
}

func (a *AuthController) passwordResetConfirm(c *gin.Context) {
	uidb64, token := c.Param("uidb64"), c.Param("token")
	render := func(validlink bool, errs form.Errors) {
		html(c, "password_reset_confirm.html", I18nWeb(c, "pages.passwordResetConfirm.title"), gin.H{
			"validlink": validlink,
			"errors":    formErrors(c, errs),
		})
	}

	if _, err := a.resetService.CheckToken(uidb64, token); err != nil {
		if !errors.Is(err, service.ErrInvalidResetLink) {
			panic(err)
		}
		render(false, nil)
		return
	}
	if c.Request.Method != http.MethodPost {
		render(true, nil)
		return
	}

	f := &form.SetPasswordForm{}
	errs := form.Errors{}
	if err := c.ShouldBind(f); err != nil {
		errs.Add("", "form.errors.invalid")
	} else {
		errs = f.Validate()
	}
	if !errs.Valid() {
		render(true, errs)
		return
	}

	if err := a.resetService.ResetPassword(uidb64, token, f.NewPassword1); err != nil {
		if errors.Is(err, service.ErrInvalidResetLink) {
			render(false, nil)
			return
		}
		panic(err)
	}
	c.Redirect(http.StatusFound, "/auth/reset/done/")
}

func (a *AuthController) passwordResetComplete(c *gin.Context) {
	html(c, "password_reset_complete.html", I18nWeb(c, "pages.passwordResetComplete.title"), nil)
}
