package main

import "github.com/r2o3/rgskin-pkgfix/cmd/rgskin-pkgfix/cmd"

func main() {
	cmd.Execute()
}
