package main

import (
	"github.com/ytlabs/yt-mcp/cmd"
)

// version is set by goreleaser at build time
var version = "dev"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
