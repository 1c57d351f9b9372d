package config

// Config represents the complete configuration structure
type Config struct {
	Tautulli TautulliConfig `mapstructure:"tautulli"`
	Email    EmailConfig    `mapstructure:"email"`
	Images   ImagesConfig   `mapstructure:"images"`
	Matching MatchingConfig `mapstructure:"matching"`
	Report   ReportConfig   `mapstructure:"report"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// TautulliConfig holds Tautulli API connection details
type TautulliConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
}

// EmailConfig holds the SMTP transport and message settings
type EmailConfig struct {
	Host        string   `mapstructure:"host"`
	Port        int      `mapstructure:"port"`
	Username    string   `mapstructure:"username"`
	Password    string   `mapstructure:"password"`
	FromName    string   `mapstructure:"from_name"`
	FromAddress string   `mapstructure:"from_address"`
	// To lists static recipients always included in the final set,
	// e.g. addresses without a catalog account.
	To      []string `mapstructure:"to"`
	Subject string   `mapstructure:"subject"`
}

// ImagesConfig holds the default artwork dimensions per picture kind
type ImagesConfig struct {
	Poster SizeConfig `mapstructure:"poster"`
	Art    SizeConfig `mapstructure:"art"`
}

// SizeConfig is a height/width pair
type SizeConfig struct {
	Height int `mapstructure:"height"`
	Width  int `mapstructure:"width"`
}

// MatchingConfig controls how explicit usernames are matched against
// catalog usernames
type MatchingConfig struct {
	Strategy string `mapstructure:"strategy"`
}

// ReportConfig contains report defaults
type ReportConfig struct {
	Days      int    `mapstructure:"days"`
	Library   string `mapstructure:"library"`
	SendEmpty bool   `mapstructure:"send_empty"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
