package service

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/yatube/yatube/database"
	"github.com/yatube/yatube/database/model"
	"github.com/yatube/yatube/logger"
	"github.com/yatube/yatube/util/common"
	"github.com/yatube/yatube/util/random"
	"github.com/yatube/yatube/util/reflect_util"
	"github.com/yatube/yatube/web/entity"
)

var defaultValueMap = map[string]string{
	"webListen":      "",
	"webPort":        "8000",
	"webCertFile":    "",
	"webKeyFile":     "",
	"secret":         random.Seq(32),
	"sessionMaxAge":  "20160",
	"pageSize":       "10",
	"timeLocation":   "UTC",
	"resetTokenTTL":  "1440",
	"siteURL":        "http://localhost:8000",
	"trustedProxies": "",
}

type SettingService struct{}

func (s *SettingService) GetAllSetting() (*entity.AllSetting, error) {
	db := database.GetDB()
	settings := make([]*model.Setting, 0)
	err := db.Model(model.Setting{}).Not("key = ?", "secret").Find(&settings).Error
	if err != nil {
		return nil, err
	}
	allSetting := &entity.AllSetting{}
	t := reflect.TypeOf(allSetting).Elem()
	v := reflect.ValueOf(allSetting).Elem()

	setSetting := func(key, value string) (err error) {
		defer func() {
			panicErr := recover()
			if panicErr != nil {
				err = errors.New(fmt.Sprint(panicErr))
			}
		}()

		field, found := reflect_util.FieldByTag(t, "json", key)
		if !found {
			// generated settings such as the secret are not exposed
			return nil
		}

		fieldV := v.FieldByName(field.Name)
		switch t := fieldV.Interface().(type) {
		case int:
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return err
			}
			fieldV.SetInt(n)
		case string:
			fieldV.SetString(value)
		case bool:
			fieldV.SetBool(value == "true")
		default:
			return common.NewErrorf("unknown field %v type %v", key, t)
		}
		return
	}

	keyMap := map[string]bool{}
	for _, setting := range settings {
		err := setSetting(setting.Key, setting.Value)
		if err != nil {
			return nil, err
		}
		keyMap[setting.Key] = true
	}

	for key, value := range defaultValueMap {
		if keyMap[key] {
			continue
		}
		err := setSetting(key, value)
		if err != nil {
			return nil, err
		}
	}

	return allSetting, nil
}

// UpdateAllSetting validates and stores every field of allSetting.
func (s *SettingService) UpdateAllSetting(allSetting *entity.AllSetting) error {
	if err := allSetting.CheckValid(); err != nil {
		return err
	}

	v := reflect.ValueOf(allSetting).Elem()
	t := reflect.TypeOf(allSetting).Elem()
	errs := make([]error, 0)
	for _, field := range reflect_util.GetFields(t) {
		key := field.Tag.Get("json")
		value := fmt.Sprint(v.FieldByName(field.Name).Interface())
		if err := s.saveSetting(key, value); err != nil {
			errs = append(errs, err)
		}
	}
	return common.Combine(errs...)
}

func (s *SettingService) ResetSettings() error {
	db := database.GetDB()
	return db.Where("1 = 1").Delete(model.Setting{}).Error
}

func (s *SettingService) getSetting(key string) (*model.Setting, error) {
	db := database.GetDB()
	setting := &model.Setting{}
	err := db.Model(model.Setting{}).Where("key = ?", key).First(setting).Error
	if err != nil {
		return nil, err
	}
	return setting, nil
}

func (s *SettingService) saveSetting(key string, value string) error {
	setting, err := s.getSetting(key)
	db := database.GetDB()
	if database.IsNotFound(err) {
		return db.Create(&model.Setting{
			Key:   key,
			Value: value,
		}).Error
	} else if err != nil {
		return err
	}
	setting.Key = key
	setting.Value = value
	return db.Save(setting).Error
}

func (s *SettingService) getString(key string) (string, error) {
	setting, err := s.getSetting(key)
	if database.IsNotFound(err) {
		value, ok := defaultValueMap[key]
		if !ok {
			return "", common.NewErrorf("key <%v> not in defaultValueMap", key)
		}
		return value, nil
	} else if err != nil {
		return "", err
	}
	return setting.Value, nil
}

func (s *SettingService) setString(key string, value string) error {
	return s.saveSetting(key, value)
}

func (s *SettingService) getInt(key string) (int, error) {
	str, err := s.getString(key)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(str)
}

func (s *SettingService) setInt(key string, value int) error {
	return s.setString(key, strconv.Itoa(value))
}

func (s *SettingService) GetListen() (string, error) {
	return s.getString("webListen")
}

func (s *SettingService) SetListen(ip string) error {
	return s.setString("webListen", ip)
}

func (s *SettingService) GetPort() (int, error) {
	return s.getInt("webPort")
}

func (s *SettingService) SetPort(port int) error {
	return s.setInt("webPort", port)
}

func (s *SettingService) GetCertFile() (string, error) {
	return s.getString("webCertFile")
}

func (s *SettingService) GetKeyFile() (string, error) {
	return s.getString("webKeyFile")
}

func (s *SettingService) GetSessionMaxAge() (int, error) {
	return s.getInt("sessionMaxAge")
}

// GetPageSize returns the number of posts per listing page.
func (s *SettingService) GetPageSize() (int, error) {
	return s.getInt("pageSize")
}

func (s *SettingService) SetPageSize(size int) error {
	if size <= 0 {
		return common.NewError("page size must be positive:", size)
	}
	return s.setInt("pageSize", size)
}

// GetResetTokenTTL returns how long a password reset link stays valid.
func (s *SettingService) GetResetTokenTTL() (time.Duration, error) {
	minutes, err := s.getInt("resetTokenTTL")
	if err != nil {
		return 0, err
	}
	return time.Duration(minutes) * time.Minute, nil
}

// GetSecret returns the session signing key, persisting the generated
// default on first use so sessions survive restarts.
func (s *SettingService) GetSecret() ([]byte, error) {
	secret, err := s.getString("secret")
	if secret == defaultValueMap["secret"] {
		err := s.saveSetting("secret", secret)
		if err != nil {
			logger.Warning("save secret failed:", err)
		}
	}
	return []byte(secret), err
}

func (s *SettingService) GetTimeLocation() (*time.Location, error) {
	l, err := s.getString("timeLocation")
	if err != nil {
		return nil, err
	}
	location, err := time.LoadLocation(l)
	if err != nil {
		defaultLocation := defaultValueMap["timeLocation"]
		logger.Errorf("location <%v> not exist, using default location: %v", l, defaultLocation)
		return time.LoadLocation(defaultLocation)
	}
	return location, nil
}

// GetSiteURL returns the configured public origin without a trailing slash.
// Links mailed to users are built from it, never from request headers.
func (s *SettingService) GetSiteURL() (string, error) {
	siteURL, err := s.getString("siteURL")
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(siteURL, "/"), nil
}

func (s *SettingService) SetSiteURL(siteURL string) error {
	if err := entity.CheckSiteURL(siteURL); err != nil {
		return err
	}
	return s.setString("siteURL", siteURL)
}

// GetTrustedProxies returns the proxies whose forwarding headers are
// believed. nil means none.
func (s *SettingService) GetTrustedProxies() ([]string, error) {
	value, err := s.getString("trustedProxies")
	if err != nil {
		return nil, err
	}
	return entity.SplitProxies(value), nil
}

func (s *SettingService) SetTrustedProxies(value string) error {
	if err := entity.CheckProxies(value); err != nil {
		return err
	}
	return s.setString("trustedProxies", value)
}
