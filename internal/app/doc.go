// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the lifecycle of one dockerish invocation:
// resolve the config, expand the template, plan the engine tasks and run
// them, decoupled from any specific entrypoint like a CLI.
package app
