// cmd/haplophase/main.go
package main

import (
	"haplophase/internal/app"
	"haplophase/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
