package config

import "errors"

// ErrConfigParse is returned when the config file is malformed or a
// %{JSON:...} marker cannot be resolved.
var ErrConfigParse = errors.New("config parse error")

// ErrInvalidOverride is returned when a key:value argument has no colon.
var ErrInvalidOverride = errors.New("invalid key:value binding")
