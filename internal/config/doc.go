// Package config provides configuration loading and validation for the speech
// segmentation service. It handles YAML-based configuration with struct
// validation plus the CLI override surface (threshold, minimum utterance
// duration, sample rate).
package config
