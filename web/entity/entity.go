// Package entity defines data structures shared by the web layer and the CLI.
package entity

import (
	"crypto/tls"
	"math"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/yatube/yatube/util/common"
)

// AllSetting contains every application setting stored in the database.
type AllSetting struct {
	WebListen      string `json:"webListen" form:"webListen"`           // Web server listen IP address
	WebPort        int    `json:"webPort" form:"webPort"`               // Web server port number
	WebCertFile    string `json:"webCertFile" form:"webCertFile"`       // Path to SSL certificate file
	WebKeyFile     string `json:"webKeyFile" form:"webKeyFile"`         // Path to SSL private key file
	SessionMaxAge  int    `json:"sessionMaxAge" form:"sessionMaxAge"`   // Session maximum age in minutes
	PageSize       int    `json:"pageSize" form:"pageSize"`             // Number of posts per listing page
	TimeLocation   string `json:"timeLocation" form:"timeLocation"`     // Time zone used to display dates
	ResetTokenTTL  int    `json:"resetTokenTTL" form:"resetTokenTTL"`   // Password reset link lifetime in minutes
	SiteURL        string `json:"siteURL" form:"siteURL"`               // Public origin used in mailed links
	TrustedProxies string `json:"trustedProxies" form:"trustedProxies"` // Comma separated proxy IPs/CIDRs trusted for X-Forwarded-For
}

// CheckValid validates listen address, port, certificates, page size and time zone.
func (s *AllSetting) CheckValid() error {
	if s.WebListen != "" {
		ip := net.ParseIP(s.WebListen)
		if ip == nil {
			return common.NewError("web listen is not valid ip:", s.WebListen)
		}
	}

	if s.WebPort <= 0 || s.WebPort > math.MaxUint16 {
		return common.NewError("web port is not a valid port:", s.WebPort)
	}

	if s.WebCertFile != "" || s.WebKeyFile != "" {
		_, err := tls.LoadX509KeyPair(s.WebCertFile, s.WebKeyFile)
		if err != nil {
			return common.NewErrorf("cert file <%v> or key file <%v> invalid: %v", s.WebCertFile, s.WebKeyFile, err)
		}
	}

	if s.PageSize <= 0 {
		return common.NewError("page size must be positive:", s.PageSize)
	}

	if s.SessionMaxAge < 0 {
		return common.NewError("session max age can not be negative:", s.SessionMaxAge)
	}

	if s.ResetTokenTTL <= 0 {
		return common.NewError("reset token ttl must be positive:", s.ResetTokenTTL)
	}

	_, err := time.LoadLocation(s.TimeLocation)
	if err != nil {
		return common.NewError("time location not exist:", s.TimeLocation)
	}

	if err := CheckSiteURL(s.SiteURL); err != nil {
		return err
	}

	if err := CheckProxies(s.TrustedProxies); err != nil {
		return err
	}

	return nil
}

// CheckSiteURL accepts a bare http or https origin such as
// "https://yatube.example".
func CheckSiteURL(siteURL string) error {
	u, err := url.Parse(siteURL)
	if err != nil {
		return common.NewErrorf("site url <%v> invalid: %v", siteURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return common.NewError("site url must use http or https:", siteURL)
	}
	if u.Host == "" || u.User != nil {
		return common.NewError("site url must name a host:", siteURL)
	}
	if (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" {
		return common.NewError("site url must not have a path or query:", siteURL)
	}
	return nil
}

// CheckProxies validates a comma separated list of IPs and CIDRs.
func CheckProxies(value string) error {
	for _, proxy := range SplitProxies(value) {
		if net.ParseIP(proxy) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(proxy); err != nil {
			return common.NewError("trusted proxy is not an ip or cidr:", proxy)
		}
	}
	return nil
}

// SplitProxies parses the trustedProxies setting.
func SplitProxies(value string) []string {
	var proxies []string
	for _, proxy := range strings.Split(value, ",") {
		if proxy = strings.TrimSpace(proxy); proxy != "" {
			proxies = append(proxies, proxy)
		}
	}
	return proxies
}
