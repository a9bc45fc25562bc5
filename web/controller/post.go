package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/yatube/yatube/database"
	"github.com/yatube/yatube/database/model"
	"github.com/yatube/yatube/logger"
	"github.com/yatube/yatube/util/common"
	"github.com/yatube/yatube/web/form"
	"github.com/yatube/yatube/web/service"

	"github.com/gin-gonic/gin"
)

// PostController serves the post listings and the post create/edit forms.
type PostController struct {
	BaseController

	postService    service.PostService
	groupService   service.GroupService
	settingService service.SettingService
}

func NewPostController(g *gin.RouterGroup) *PostController {
	a := &PostController{}
	a.initRouter(g)
	return a
}

func (a *PostController) initRouter(g *gin.RouterGroup) {
	g.GET("/", a.index)
	g.GET("/group/:slug/", a.groupPosts)
	g.GET("/profile/:username/", a.profile)
	g.GET("/posts/:id/", a.postDetail)

	authed := g.Group("")
	authed.Use(a.checkLogin)
	{
		authed.GET("/create/", a.postCreate)
		authed.POST("/create/", a.postCreate)
		authed.GET("/posts/:id/edit/", a.postEdit)
		authed.POST("/posts/:id/edit/", a.postEdit)
	}
}

func (a *PostController) pageSize() int {
	size, err := a.settingService.GetPageSize()
	if err != nil {
		logger.Warning("get page size failed:", err)
		return 10
	}
	return size
}

func (a *PostController) index(c *gin.Context) {
	page, err := a.postService.GetPage(c.Query("page"), a.pageSize())
	if err != nil {
		panic(err)
	}
	html(c, "index.html", I18nWeb(c, "pages.index.title"), gin.H{
		"page": page,
	})
}

func (a *PostController) groupPosts(c *gin.Context) {
	group, page, err := a.postService.GetGroupPage(c.Param("slug"), c.Query("page"), a.pageSize())
	if database.IsNotFound(err) {
		NotFound(c)
		return
	} else if err != nil {
		panic(err)
	}
	html(c, "group_list.html", I18nWeb(c, "pages.group.title", "title=="+group.Title), gin.H{
		"group": group,
		"page":  page,
	})
}

func (a *PostController) profile(c *gin.Context) {
	author, page, err := a.postService.GetAuthorPage(c.Param("username"), c.Query("page"), a.pageSize())
	if database.IsNotFound(err) {
		NotFound(c)
		return
	} else if err != nil {
		panic(err)
	}
	html(c, "profile.html", I18nWeb(c, "pages.profile.title", "name=="+author.FullName()), gin.H{
		"author": author,
		"page":   page,
	})
}

// getPost loads the post named by the :id parameter. It renders the 404
// page and returns nil when there is none.
func (a *PostController) getPost(c *gin.Context) *model.Post {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		NotFound(c)
		return nil
	}
	post, err := a.postService.GetPost(id)
	if database.IsNotFound(err) {
		NotFound(c)
		return nil
	} else if err != nil {
		panic(err)
	}
	return post
}

func (a *PostController) postDetail(c *gin.Context) {
	post := a.getPost(c)
	if post == nil {
		return
	}
	count, err := a.postService.CountByAuthor(post.AuthorId)
	if err != nil {
		panic(err)
	}
	html(c, "post_detail.html", I18nWeb(c, "pages.post.title", "text=="+common.TruncateChars(post.Text, 30)), gin.H{
		"post":        post,
		"posts_count": count,
	})
}

// renderPostForm shows the create or edit form with the current values.
func (a *PostController) renderPostForm(c *gin.Context, f *form.PostForm, errs form.Errors, post *model.Post) {
	groups, err := a.groupService.GetGroups()
	if err != nil {
		panic(err)
	}
	title := I18nWeb(c, "pages.create.title")
	if post != nil {
		title = I18nWeb(c, "pages.edit.title")
	}
	html(c, "create_post.html", title, gin.H{
		"form":    f,
		"errors":  formErrors(c, errs),
		"groups":  groups,
		"is_edit": post != nil,
		"post":    post,
	})
}

// bindPostForm reads and validates the submitted post form, including the
// existence of the chosen group.
func (a *PostController) bindPostForm(c *gin.Context) (*form.PostForm, *int, form.Errors) {
	f := &form.PostForm{}
	if err := c.ShouldBind(f); err != nil {
		errs := form.Errors{}
		errs.Add("", "form.errors.invalid")
		return f, nil, errs
	}
	errs := f.Validate()
	groupId, err := f.GroupId()
	if err == nil {
		if err := a.groupService.CheckGroup(groupId); err != nil {
			if !errors.Is(err, service.ErrInvalidGroup) {
				panic(err)
			}
			errs.Add("group", "form.errors.invalidChoice")
		}
	}
	return f, groupId, errs
}

func (a *PostController) postCreate(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		a.renderPostForm(c, &form.PostForm{}, nil, nil)
		return
	}

	f, groupId, errs := a.bindPostForm(c)
	if !errs.Valid() {
		a.renderPostForm(c, f, errs, nil)
		return
	}

	user := loginUser(c)
	if _, err := a.postService.CreatePost(user, f.Text, groupId); err != nil {
		panic(err)
	}
	c.Redirect(http.StatusFound, "/profile/"+user.Username+"/")
}

func (a *PostController) postEdit(c *gin.Context) {
	post := a.getPost(c)
	if post == nil {
		return
	}
	user := loginUser(c)
	detail := "/posts/" + strconv.Itoa(post.Id) + "/"
	if !a.postService.CanEdit(post, user.Id) {
		c.Redirect(http.StatusFound, detail)
		return
	}

	if c.Request.Method != http.MethodPost {
		f := &form.PostForm{Text: post.Text}
		if post.GroupId != nil {
			f.Group = strconv.Itoa(*post.GroupId)
		}
		a.renderPostForm(c, f, nil, post)
		return
	}

	f, groupId, errs := a.bindPostForm(c)
	if !errs.Valid() {
		a.renderPostForm(c, f, errs, post)
		return
	}
	if err := a.postService.UpdatePost(post, user.Id, f.Text, groupId); err != nil {
		if errors.Is(err, service.ErrNotAuthor) {
			c.Redirect(http.StatusFound, detail)
			return
		}
		panic(err)
	}
	c.Redirect(http.StatusFound, detail)
}
