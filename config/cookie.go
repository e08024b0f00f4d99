package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Cookie cookie config struct
type Cookie struct {
	Domain   string
	Secure   bool
	SameSite string
}

func getCookieConfig(v *viper.Viper) *Cookie {
	return &Cookie{
		Domain:   v.GetString("cookie.domain"),
		Secure:   getBoolOrDefault(v, "cookie.secure", true),
		SameSite: getStringOrDefault(v, "cookie.same_site", "none"),
	}
}

// validate rejects SameSite=None without Secure, which browsers drop.
func (c *Cookie) validate() []error {
	switch strings.ToLower(c.SameSite) {
	case "lax", "strict":
		return nil
	case "", "none":
		if !c.Secure {
			return []error{errors.New("cookie.same_site none requires cookie.secure")}
		}
		return nil
	default:
		return []error{fmt.Errorf("cookie.same_site %q is invalid", c.SameSite)}
	}
}
