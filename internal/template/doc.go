// Package template renders a target template against the resolved config
// and parses the result into a target.Target.
//
// Evaluation order is fixed: the raw text is rendered as an HCL template
// (`${key}` interpolation, `%{if}`/`%{for}` directives, functions), every
// %{HOSTIP} marker is then replaced with one address picked from the local
// interfaces, and only then is the text parsed as YAML.
//
// Top-level config keys that are valid identifiers become template
// variables. Two run-scope bindings are added on top: the template_dir
// variable and the file/fileexists functions, which read through an
// fsutil.Reader relative to the template directory.
package template
