// Package version reports the build version of the resourcectl binary and
// of services built on the adapter.
//
// Version and Commit are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/apiadapter/version.Version=1.2.0" ./cmd/resourcectl
//
// When Commit is not set it falls back to the VCS stamp recorded by the Go
// toolchain.
package version
