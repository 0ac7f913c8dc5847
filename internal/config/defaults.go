package config

func (c *Config) applyDefaults() {
	if c.Site.Title == "" {
		c.Site.Title = "Portfolio"
	}
	if c.Content.Directory == "" {
		c.Content.Directory = "./content"
	}
	if c.Output.Directory == "" {
		c.Output.Directory = "./site"
	}
	if c.Serve.Port == 0 {
		c.Serve.Port = 1316
	}
	if c.Serve.MetricsPath == "" {
		c.Serve.MetricsPath = "/metrics"
	}
	if c.History.Enabled && c.History.Path == "" {
		c.History.Path = ".folio/history.db"
	}
}
