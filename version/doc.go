// Package version exposes build metadata of the shopfront binary.
//
// The variables are set at build time with ldflags:
//
//	go build -ldflags "\
//	  -X github.com/ncobase/shopfront/version.Version=1.2.3 \
//	  -X github.com/ncobase/shopfront/version.Branch=main \
//	  -X github.com/ncobase/shopfront/version.Revision=abc123 \
//	  -X 'github.com/ncobase/shopfront/version.BuiltAt=$(date)'" ./cmd/shopfront
//
// When Revision or BuiltAt are left unset, GetVersionInfo falls back to the
// vcs settings the Go toolchain embeds in the binary.
package version
