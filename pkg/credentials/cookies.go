package credentials

import (
	"os"

	"github.com/fastn-ai/fastn-community-sub000/pkg/config"
	"github.com/fastn-ai/fastn-community-sub000/pkg/logger"
	json "github.com/json-iterator/go"
)

// Cookies mirrors the three browser cookies that switch the transport to
// custom auth
type Cookies struct {
	CustomAuth      bool   `json:"custom_auth"`
	CustomAuthToken string `json:"custom_auth_token"`
	TenantID        string `json:"tenant_id"`
}

// SessionSource exposes the current identity. A nil result means nobody
// is signed in.
type SessionSource interface {
	Session() *Credentials
}

// CookieSource exposes the custom-auth cookie values
type CookieSource interface {
	Cookies() Cookies
}

// LoadCookies reads the cookie store; a missing file yields zero values
func LoadCookies() (Cookies, error) {
	var c Cookies
	data, err := os.ReadFile(config.GetCookiesPath())
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, err
	}
	err = json.Unmarshal(data, &c)
	return c, err
}

// SaveCookies writes the cookie store
func SaveCookies(c Cookies) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(config.GetCookiesPath(), data, 0600)
}

// FileStore reads the session and cookies from the config directory on
// every call so a login in another process is picked up.
type FileStore struct{}

func (FileStore) Session() *Credentials {
	creds, err := Load()
	if err != nil {
		logger.Warn("Could not read credentials", "error", err)
		return nil
	}
	if !creds.IsValid() {
		return nil
	}
	return creds
}

func (FileStore) Cookies() Cookies {
	c, err := LoadCookies()
	if err != nil {
		logger.Warn("Could not read cookie store", "error", err)
	}
	return c
}

// Static is a fixed session and cookie set
type Static struct {
	Creds *Credentials
	Jar   Cookies
}

func (s Static) Session() *Credentials { return s.Creds }

func (s Static) Cookies() Cookies { return s.Jar }
