package locale

import (
	"io/fs"
	"strings"

	"github.com/yatube/yatube/logger"

	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

const (
	langCookie = "lang"
	langKey    = "lang"
)

var (
	defaultLang = language.MustParse("en-US")
	i18nBundle  *i18n.Bundle
)

// InitLocalizer loads every translation file under "translation" in i18nFS.
func InitLocalizer(i18nFS fs.FS) error {
	bundle := i18n.NewBundle(defaultLang)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	if err := parseTranslationFiles(i18nFS, bundle); err != nil {
		return err
	}
	i18nBundle = bundle
	return nil
}

// Languages lists the tags a translation file was loaded for.
func Languages() []language.Tag {
	if i18nBundle == nil {
		return nil
	}
	return i18nBundle.LanguageTags()
}

func createTemplateData(params []string, seperator ...string) map[string]any {
	sep := "=="
	if len(seperator) > 0 {
		sep = seperator[0]
	}

	templateData := make(map[string]any)
	for _, param := range params {
		parts := strings.SplitN(param, sep, 2)
		if len(parts) != 2 {
			continue
		}
		templateData[parts[0]] = parts[1]
	}

	return templateData
}

// I18n translates key for lang, an Accept-Language style list. params are
// "name==value" pairs handed to the message template.
func I18n(lang string, key string, params ...string) string {
	if i18nBundle == nil {
		return key
	}
	localizer := i18n.NewLocalizer(i18nBundle, lang, defaultLang.String())

	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: createTemplateData(params),
	})
	// A message missing for lang comes back in the default language along
	// with a not-found error.
	if err != nil && msg == "" {
		logger.Warningf("Failed to localize message %q: %v", key, err)
		return key
	}

	return msg
}

// LocalizerMiddleware picks the request language from the lang cookie,
// falling back to Accept-Language.
func LocalizerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var lang string
		if cookie, err := c.Request.Cookie(langCookie); err == nil && cookie.Value != "" {
			lang = cookie.Value
		} else {
			lang = c.GetHeader("Accept-Language")
		}
		c.Set(langKey, lang)
		c.Next()
	}
}

// GetLang returns the language chosen by LocalizerMiddleware.
func GetLang(c *gin.Context) string {
	return c.GetString(langKey)
}

func parseTranslationFiles(i18nFS fs.FS, bundle *i18n.Bundle) error {
	return fs.WalkDir(i18nFS, "translation",
		func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				return nil
			}

			data, err := fs.ReadFile(i18nFS, path)
			if err != nil {
				return err
			}

			_, err = bundle.ParseMessageFileBytes(data, path)
			return err
		})
}
