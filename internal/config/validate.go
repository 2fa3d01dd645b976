package config

import (
	"errors"
	"fmt"
)

var knownQualities = map[string]struct{}{
	"low":     {},
	"medium":  {},
	"high":    {},
	"maximum": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.LUTDir == "" {
		return errors.New("paths.lut_dir must be set")
	}
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if _, ok := knownQualities[c.Pipeline.DefaultQuality]; !ok {
		return fmt.Errorf("pipeline.default_quality %q must be one of low, medium, high, maximum", c.Pipeline.DefaultQuality)
	}
	if c.Pipeline.ProgressGrain <= 0 {
		return errors.New("pipeline.progress_grain must be positive")
	}
	if c.Pipeline.MaxConcurrentJobs <= 0 {
		return errors.New("pipeline.max_concurrent_jobs must be positive")
	}
	return nil
}
