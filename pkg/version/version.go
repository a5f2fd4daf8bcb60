// Package version holds the build version, overridden at link time:
//
//	go build -ldflags "-X github.com/vanderheijden86/knowtree/pkg/version.Version=v1.2.3"
package version

// Version is the current release identifier.
var Version = "dev"
