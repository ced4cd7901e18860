// Package version provides build-time version information.
//
// Set it with ldflags:
//
//	go build -ldflags "\
//	  -X github.com/ncobase/screener/version.Version=1.2.3 \
//	  -X github.com/ncobase/screener/version.Branch=main \
//	  -X github.com/ncobase/screener/version.Revision=abc123 \
//	  -X 'github.com/ncobase/screener/version.BuiltAt=$(date)'" ./cmd/screener
//
// Values left unset fall back to the module version and VCS stamp that the
// go tool embeds in the binary.
package version
