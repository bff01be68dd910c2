// Package paths resolves the per-user locations fmcheck reads from.
//
// Locations follow the XDG Base Directory layout through
// github.com/adrg/xdg, so the user configuration lives at
// $XDG_CONFIG_HOME/fmcheck/config.yaml (~/.config/fmcheck/config.yaml on
// Linux).
package paths
