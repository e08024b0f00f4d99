package config

import (
	"github.com/fsnotify/fsnotify"
)

// Watch reloads the configuration whenever its file changes and hands the
// new revision to onChange. Revisions that fail to load are passed to
// onError and the previous configuration stays in effect. Without a config
// file Watch does nothing.
func (c *Config) Watch(onChange func(*Config), onError func(error)) {
	path := c.Viper.ConfigFileUsed()
	if path == "" {
		return
	}

	c.Viper.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		next, err := Load(path)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(next)
	})
	c.Viper.WatchConfig()
}
