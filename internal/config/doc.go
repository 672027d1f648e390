// Package config manages gitdemo configuration.
//
// Configuration is read from a YAML file (an explicit path, $GITDEMO_CONFIG,
// or .gitdemo.yaml in the base directory) and then overridden by GITDEMO_*
// environment variables. A missing default file means built-in defaults.
package config
