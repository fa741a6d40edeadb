// Package paths locates the config files groundwork reads without being
// told to.
//
// # XDG Base Directory Compliance
//
// The package wraps github.com/adrg/xdg for cross-platform XDG Base Directory
// Specification compliance. The per-user config lives under [ConfigDir]
// (~/.config/groundwork on Linux).
//
// # Implicit Sources
//
// [DefaultSources] lists the implicit config files that exist, lowest
// precedence first:
//
//	<ConfigHome>/groundwork/config.yaml   per-user
//	./groundwork.yaml                     project
//
// The .yml, .toml and .json spellings are accepted in each location; the
// first one found wins.
package paths
