package config

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil {
		timeout := c.AI.Timeout
		opCfg.Timeout = &timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.MaxRetries == nil {
		retries := c.AI.MaxRetries
		opCfg.MaxRetries = &retries
	}
	if opCfg.Temperature == nil {
		temperature := c.AI.Temperature
		opCfg.Temperature = &temperature
	}
	if opCfg.UseSystemPrompts == nil {
		useSystem := c.AI.UseSystemPrompts
		opCfg.UseSystemPrompts = &useSystem
	}
	if opCfg.CustomPrompts.System == "" {
		opCfg.CustomPrompts.System = c.AI.CustomPrompts.System
	}
	if opCfg.CustomPrompts.User == "" {
		opCfg.CustomPrompts.User = c.AI.CustomPrompts.User
	}
}

// GetRewriteConfig returns the AI configuration for the rewrite operation with fallback to global config
func (c *Config) GetRewriteConfig() OperationAIConfig {
	config := c.AI.Rewrite
	c.applyOperationDefaults(&config)
	return config
}

// AIEnabled reports whether a model API key is available for rewriting
func (c *Config) AIEnabled() bool {
	return c.GetRewriteConfig().APIKey != ""
}
