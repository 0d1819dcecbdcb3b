// Package target holds the parsed form of an expanded template: container
// identity, the Dockerfile recipe, run blocks, hooks and the environment
// block. Parse decodes the YAML document and structural checks are applied
// per requested action by ValidateFor, before anything is staged on disk.
package target
