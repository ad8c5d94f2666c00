package cliconfig

// MergeConfig merges source config into target, updating sources tracking.
// Only non-zero values from source are applied.
func MergeConfig(target, source *Config, sourceType string) {
	if source == nil {
		return
	}
	if target.Sources == nil {
		target.Sources = make(map[string]string)
	}

	if source.Port != 0 {
		target.Port = source.Port
		target.Sources["port"] = sourceType
	}
	if source.ReadTimeout != 0 {
		target.ReadTimeout = source.ReadTimeout
		target.Sources["readTimeout"] = sourceType
	}
	if source.WriteTimeout != 0 {
		target.WriteTimeout = source.WriteTimeout
		target.Sources["writeTimeout"] = sourceType
	}
	if source.MaxBodySize != 0 {
		target.MaxBodySize = source.MaxBodySize
		target.Sources["maxBodySize"] = sourceType
	}
	if source.SeedFile != "" {
		target.SeedFile = source.SeedFile
		target.Sources["seedFile"] = sourceType
	}
	if source.StaticDir != "" {
		target.StaticDir = source.StaticDir
		target.Sources["staticDir"] = sourceType
	}
	if source.LogLevel != "" {
		target.LogLevel = source.LogLevel
		target.Sources["logLevel"] = sourceType
	}
	if source.LogFormat != "" {
		target.LogFormat = source.LogFormat
		target.Sources["logFormat"] = sourceType
	}
	if source.ConfigFile != "" {
		target.ConfigFile = source.ConfigFile
		target.Sources["configFile"] = sourceType
	}
	// A zero bool cannot be told apart from an absent one, so booleans
	// only merge when SetFields says the key was present.
	if boolIsSet(source, "metrics") {
		target.Metrics = source.Metrics
		target.Sources["metrics"] = sourceType
	}
}

// boolIsSet reports whether a boolean field identified by its YAML key was
// explicitly set in the source config. Without SetFields only true counts as set.
func boolIsSet(cfg *Config, yamlKey string) bool {
	if cfg.SetFields != nil {
		return cfg.SetFields[yamlKey]
	}
	switch yamlKey {
	case "metrics":
		return cfg.Metrics
	}
	return false
}
