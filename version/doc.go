// Package version reports starpipe build metadata.
//
// Version, commit and build time are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/starpipe/version.Version=1.2.0" ./cmd/starpipe
//
// Missing values fall back to the VCS stamps in debug.ReadBuildInfo. The
// version of the Starlark grammar that validates pipelines is read from the
// module dependencies.
package version
