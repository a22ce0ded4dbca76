// Package templates embeds the batch script templates and the starter
// configuration file.
package templates

import "embed"

//go:embed config.yaml process.sh.tmpl merge.sh.tmpl extension.sh.tmpl
var FS embed.FS
