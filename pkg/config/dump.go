package config

import (
	toml "github.com/pelletier/go-toml/v2"
)

// fileView mirrors Config with the layout and units of the config file, so
// a dump can be pasted back into config.toml.
type fileView struct {
	SessionID string `toml:"session_id,omitempty"`
	Database  struct {
		Dir         string `toml:"dir"`
		Name        string `toml:"name"`
		BusyTimeout string `toml:"busy_timeout"`
	} `toml:"database"`
	Stack struct {
		Retention          string `toml:"retention"`
		MinSessionIDLength int    `toml:"min_session_id_length"`
	} `toml:"stack"`
	Output struct {
		Format  string `toml:"format"`
		NoColor bool   `toml:"no_color"`
		Styles  string `toml:"styles"`
	} `toml:"output"`
}

// TOML renders the effective configuration in config file syntax.
func (c *Config) TOML() (string, error) {
	var v fileView
	v.SessionID = c.SessionID
	v.Database.Dir = c.Database.Dir
	v.Database.Name = c.Database.Name
	v.Database.BusyTimeout = c.Database.BusyTimeout.String()
	v.Stack.Retention = c.Stack.Retention.String()
	v.Stack.MinSessionIDLength = c.Stack.MinSessionIDLength
	v.Output.Format = c.Output.Format
	v.Output.NoColor = c.Output.NoColor
	v.Output.Styles = c.Output.Styles

	out, err := toml.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
