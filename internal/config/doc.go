// Package config manages config.yaml, the tool's settings file.
//
// The file holds the appliance address and the credentials of both APIs:
//
//	FS_URL: https://10.0.0.5
//	FS_ADMIN_USERNAME: api-admin
//	FS_ADMIN_PASSWORD: secret
//	FS_WEB_USERNAME: web-user
//	FS_WEB_PASSWORD: secret
//	FS_REQUEST_INTERVAL: 3s
//	FS_BACKUP_RETENTION: 50
//
// # File Location
//
// ResolvePath picks, in order: the --config flag, config.yaml beside the
// executable, and the OS configuration directory:
//   - Linux: $XDG_CONFIG_HOME/forescout-tools/config.yaml or $HOME/.config/forescout-tools/config.yaml
//   - macOS: $HOME/.config/forescout-tools/config.yaml
//   - Windows: %LOCALAPPDATA%\forescout-tools\config.yaml
//
// # First Run
//
// Each command needs a different set of keys (Admin or Web credentials).
// Bootstrap prompts for the ones that are empty and saves the file with
// mode 0600.
//
// # Workspace
//
// Backups, edited files and the log file live in the workspace folder
// (FS_WORKSPACE, default: the folder of config.yaml):
//
//	backups/   segments_<timestamp>.json
//	segments/  edited copies
//	hosts/     hosts_<timestamp>.json
package config
