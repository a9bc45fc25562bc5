package controller

import (
	"github.com/gin-gonic/gin"
)

// AboutController serves the static pages about the author and the stack.
type AboutController struct{}

func NewAboutController(g *gin.RouterGroup) *AboutController {
	a := &AboutController{}
	a.initRouter(g.Group("/about"))
	return a
}

func (a *AboutController) initRouter(g *gin.RouterGroup) {
	g.GET("/author/", a.author)
	g.GET("/tech/", a.tech)
}

func (a *AboutController) author(c *gin.Context) {
	html(c, "author.html", I18nWeb(c, "pages.about.author.title"), nil)
}

func (a *AboutController) tech(c *gin.Context) {
	html(c, "tech.html", I18nWeb(c, "pages.about.tech.title"), nil)
}
