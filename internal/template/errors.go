package template

import "errors"

// ErrTemplateRender is returned when template text does not parse or refers
// to an undefined config key.
var ErrTemplateRender = errors.New("template render error")
